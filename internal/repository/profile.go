package repository

import (
	"context"

	"unintend-backend/internal/domain"
)

// ProfileRepository manages the one-per-account profile rows.
type ProfileRepository interface {
	GetStudentProfile(ctx context.Context, userID int64) (*domain.StudentProfile, error)
	CreateStudentProfile(ctx context.Context, profile *domain.StudentProfile) (int64, error)
	GetCompanyProfile(ctx context.Context, userID int64) (*domain.CompanyProfile, error)
	CreateCompanyProfile(ctx context.Context, profile *domain.CompanyProfile) (int64, error)
}
