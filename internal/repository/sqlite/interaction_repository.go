package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"unintend-backend/internal/domain"
	"unintend-backend/internal/repository"
)

type InteractionRepository struct {
	db DBTX
}

func NewInteractionRepository(db DBTX) repository.InteractionRepository {
	return &InteractionRepository{db: db}
}

func (r *InteractionRepository) FindStudentPostInteraction(ctx context.Context, studentUserID, postID int64) (*domain.StudentPostInteraction, error) {
	var (
		in                 domain.StudentPostInteraction
		decision           string
		savedAt, decidedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
SELECT id, student_user_id, post_id, saved, decision, saved_at, decided_at
FROM student_post_interactions
WHERE student_user_id = ? AND post_id = ?`, studentUserID, postID).Scan(
		&in.ID, &in.StudentUserID, &in.PostID, &in.Saved, &decision, &savedAt, &decidedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("student post interaction: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan student post interaction: %w", classify(err))
	}
	in.Decision = domain.Decision(decision)
	in.SavedAt = timePtr(savedAt)
	in.DecidedAt = timePtr(decidedAt)
	return &in, nil
}

func (r *InteractionRepository) CreateStudentPostInteraction(ctx context.Context, in *domain.StudentPostInteraction) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO student_post_interactions (student_user_id, post_id, saved, decision, saved_at, decided_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		in.StudentUserID,
		in.PostID,
		in.Saved,
		string(in.Decision),
		nullTime(in.SavedAt),
		nullTime(in.DecidedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("student %d on post %d: %w", in.StudentUserID, in.PostID, repository.ErrAlreadyExists)
		}
		return 0, fmt.Errorf("insert student post interaction: %w", classify(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("student post interaction last insert id: %w", err)
	}
	in.ID = id
	return id, nil
}

func (r *InteractionRepository) FindCompanyStudentPostInteraction(ctx context.Context, companyUserID, studentPostID int64) (*domain.CompanyStudentPostInteraction, error) {
	var (
		in                 domain.CompanyStudentPostInteraction
		decision           string
		savedAt, decidedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
SELECT id, company_user_id, student_post_id, saved, decision, saved_at, decided_at
FROM company_student_post_interactions
WHERE company_user_id = ? AND student_post_id = ?`, companyUserID, studentPostID).Scan(
		&in.ID, &in.CompanyUserID, &in.StudentPostID, &in.Saved, &decision, &savedAt, &decidedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("company student post interaction: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan company student post interaction: %w", classify(err))
	}
	in.Decision = domain.Decision(decision)
	in.SavedAt = timePtr(savedAt)
	in.DecidedAt = timePtr(decidedAt)
	return &in, nil
}

func (r *InteractionRepository) CreateCompanyStudentPostInteraction(ctx context.Context, in *domain.CompanyStudentPostInteraction) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO company_student_post_interactions (company_user_id, student_post_id, saved, decision, saved_at, decided_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		in.CompanyUserID,
		in.StudentPostID,
		in.Saved,
		string(in.Decision),
		nullTime(in.SavedAt),
		nullTime(in.DecidedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("company %d on student post %d: %w", in.CompanyUserID, in.StudentPostID, repository.ErrAlreadyExists)
		}
		return 0, fmt.Errorf("insert company student post interaction: %w", classify(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("company student post interaction last insert id: %w", err)
	}
	in.ID = id
	return id, nil
}
