package repository

import (
	"context"

	"unintend-backend/internal/domain"
)

// PostRepository exposes persistence operations for the three post kinds.
type PostRepository interface {
	FindInternshipPost(ctx context.Context, companyUserID int64, title string) (*domain.InternshipPost, error)
	CreateInternshipPost(ctx context.Context, post *domain.InternshipPost) (int64, error)
	// SetInternshipPostImage sets image_url only when the post has none.
	SetInternshipPostImage(ctx context.Context, id int64, url string) error
	ListActiveInternshipPosts(ctx context.Context) ([]domain.InternshipPost, error)

	FindStudentProfilePost(ctx context.Context, studentUserID int64) (*domain.StudentProfilePost, error)
	CreateStudentProfilePost(ctx context.Context, post *domain.StudentProfilePost) (int64, error)
	SetStudentProfilePostImage(ctx context.Context, id int64, url string) error

	FindExperiencePost(ctx context.Context, studentUserID int64, title string) (*domain.StudentExperiencePost, error)
	CreateExperiencePost(ctx context.Context, post *domain.StudentExperiencePost) (int64, error)
}
