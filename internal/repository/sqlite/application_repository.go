package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"unintend-backend/internal/domain"
	"unintend-backend/internal/repository"
)

type ApplicationRepository struct {
	db DBTX
}

func NewApplicationRepository(db DBTX) repository.ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) FindApplication(ctx context.Context, postID, studentUserID int64) (*domain.Application, error) {
	var (
		app    domain.Application
		status string
	)
	err := r.db.QueryRowContext(ctx, `
SELECT id, post_id, student_user_id, company_user_id, status, created_at, updated_at
FROM applications
WHERE post_id = ? AND student_user_id = ?`, postID, studentUserID).Scan(
		&app.ID, &app.PostID, &app.StudentUserID, &app.CompanyUserID, &status, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("application: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan application: %w", classify(err))
	}
	app.Status = domain.ApplicationStatus(status)
	return &app, nil
}

func (r *ApplicationRepository) CreateApplication(ctx context.Context, app *domain.Application) (int64, error) {
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now().UTC()
	}
	if app.UpdatedAt.IsZero() {
		app.UpdatedAt = app.CreatedAt
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO applications (post_id, student_user_id, company_user_id, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		app.PostID,
		app.StudentUserID,
		app.CompanyUserID,
		string(app.Status),
		app.CreatedAt,
		app.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("application of student %d to post %d: %w", app.StudentUserID, app.PostID, repository.ErrAlreadyExists)
		}
		return 0, fmt.Errorf("insert application: %w", classify(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("application last insert id: %w", err)
	}
	app.ID = id
	return id, nil
}

func (r *ApplicationRepository) FindConversation(ctx context.Context, applicationID int64) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.QueryRowContext(ctx, `
SELECT id, application_id, created_at
FROM conversations
WHERE application_id = ?`, applicationID).Scan(&conv.ID, &conv.ApplicationID, &conv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("conversation: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan conversation: %w", classify(err))
	}
	return &conv, nil
}

func (r *ApplicationRepository) CreateConversation(ctx context.Context, conv *domain.Conversation) (int64, error) {
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO conversations (application_id, created_at)
VALUES (?, ?)`, conv.ApplicationID, conv.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("conversation of application %d: %w", conv.ApplicationID, repository.ErrAlreadyExists)
		}
		return 0, fmt.Errorf("insert conversation: %w", classify(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("conversation last insert id: %w", err)
	}
	conv.ID = id
	return id, nil
}

func (r *ApplicationRepository) FindMessage(ctx context.Context, conversationID int64, kind domain.MessageType, senderUserID *int64, text string) (*domain.Message, error) {
	var (
		msg    domain.Message
		typ    string
		sender sql.NullInt64
	)
	// IS matches NULL against NULL, so one query serves system and user lines.
	err := r.db.QueryRowContext(ctx, `
SELECT id, conversation_id, type, sender_user_id, text, created_at
FROM messages
WHERE conversation_id = ? AND type = ? AND sender_user_id IS ? AND text = ?
ORDER BY id ASC
LIMIT 1`, conversationID, string(kind), nullInt64(senderUserID), text).Scan(
		&msg.ID, &msg.ConversationID, &typ, &sender, &msg.Text, &msg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("message: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan message: %w", classify(err))
	}
	msg.Type = domain.MessageType(typ)
	if sender.Valid {
		id := sender.Int64
		msg.SenderUserID = &id
	}
	return &msg, nil
}

func (r *ApplicationRepository) CreateMessage(ctx context.Context, msg *domain.Message) (int64, error) {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO messages (conversation_id, type, sender_user_id, text, created_at)
VALUES (?, ?, ?, ?, ?)`,
		msg.ConversationID,
		string(msg.Type),
		nullInt64(msg.SenderUserID),
		msg.Text,
		msg.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert message: %w", classify(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("message last insert id: %w", err)
	}
	msg.ID = id
	return id, nil
}
