package repository

import (
	"context"

	"unintend-backend/internal/domain"
)

// InteractionRepository stores saves and decisions made on feed posts.
type InteractionRepository interface {
	FindStudentPostInteraction(ctx context.Context, studentUserID, postID int64) (*domain.StudentPostInteraction, error)
	CreateStudentPostInteraction(ctx context.Context, in *domain.StudentPostInteraction) (int64, error)
	FindCompanyStudentPostInteraction(ctx context.Context, companyUserID, studentPostID int64) (*domain.CompanyStudentPostInteraction, error)
	CreateCompanyStudentPostInteraction(ctx context.Context, in *domain.CompanyStudentPostInteraction) (int64, error)
}

// ApplicationRepository stores applications and the chat attached to them.
type ApplicationRepository interface {
	FindApplication(ctx context.Context, postID, studentUserID int64) (*domain.Application, error)
	CreateApplication(ctx context.Context, app *domain.Application) (int64, error)
	FindConversation(ctx context.Context, applicationID int64) (*domain.Conversation, error)
	CreateConversation(ctx context.Context, conv *domain.Conversation) (int64, error)
	// FindMessage matches on every column but the id and timestamp. A nil
	// sender matches system messages only.
	FindMessage(ctx context.Context, conversationID int64, kind domain.MessageType, senderUserID *int64, text string) (*domain.Message, error)
	CreateMessage(ctx context.Context, msg *domain.Message) (int64, error)
}
