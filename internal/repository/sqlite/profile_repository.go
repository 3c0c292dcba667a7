package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"unintend-backend/internal/domain"
	"unintend-backend/internal/repository"
)

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) repository.ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetStudentProfile(ctx context.Context, userID int64) (*domain.StudentProfile, error) {
	var (
		p                                                       domain.StudentProfile
		university, department, bio, skills, studies, experience sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, university, department, bio, skills, studies, experience
FROM student_profiles
WHERE user_id = ?`, userID).Scan(
		&p.ID, &p.UserID, &university, &department, &bio, &skills, &studies, &experience,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("student profile: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan student profile: %w", classify(err))
	}
	p.University = university.String
	p.Department = department.String
	p.Bio = bio.String
	p.Skills = skills.String
	p.Studies = studies.String
	p.Experience = experience.String
	return &p, nil
}

func (r *ProfileRepository) CreateStudentProfile(ctx context.Context, p *domain.StudentProfile) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO student_profiles (user_id, university, department, bio, skills, studies, experience)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.UserID,
		nullString(p.University),
		nullString(p.Department),
		nullString(p.Bio),
		nullString(p.Skills),
		nullString(p.Studies),
		nullString(p.Experience),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("student profile for user %d: %w", p.UserID, repository.ErrAlreadyExists)
		}
		return 0, fmt.Errorf("insert student profile: %w", classify(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("student profile last insert id: %w", err)
	}
	p.ID = id
	return id, nil
}

func (r *ProfileRepository) GetCompanyProfile(ctx context.Context, userID int64) (*domain.CompanyProfile, error) {
	var (
		p                                                domain.CompanyProfile
		companyName, industry, description, website, bio sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, company_name, industry, description, website, bio
FROM company_profiles
WHERE user_id = ?`, userID).Scan(
		&p.ID, &p.UserID, &companyName, &industry, &description, &website, &bio,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("company profile: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan company profile: %w", classify(err))
	}
	p.CompanyName = companyName.String
	p.Industry = industry.String
	p.Description = description.String
	p.Website = website.String
	p.Bio = bio.String
	return &p, nil
}

func (r *ProfileRepository) CreateCompanyProfile(ctx context.Context, p *domain.CompanyProfile) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO company_profiles (user_id, company_name, industry, description, website, bio)
VALUES (?, ?, ?, ?, ?, ?)`,
		p.UserID,
		nullString(p.CompanyName),
		nullString(p.Industry),
		nullString(p.Description),
		nullString(p.Website),
		nullString(p.Bio),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("company profile for user %d: %w", p.UserID, repository.ErrAlreadyExists)
		}
		return 0, fmt.Errorf("insert company profile: %w", classify(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("company profile last insert id: %w", err)
	}
	p.ID = id
	return id, nil
}
