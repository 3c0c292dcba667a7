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

type PostRepository struct {
	db DBTX
}

func NewPostRepository(db DBTX) repository.PostRepository {
	return &PostRepository{db: db}
}

const internshipPostColumns = `id, company_user_id, title, description, location, department, image_url, is_active, created_at`

func (r *PostRepository) FindInternshipPost(ctx context.Context, companyUserID int64, title string) (*domain.InternshipPost, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+internshipPostColumns+`
FROM internship_posts
WHERE company_user_id = ? AND title = ?
ORDER BY id ASC
LIMIT 1`, companyUserID, title)
	return scanInternshipPost(row)
}

func (r *PostRepository) CreateInternshipPost(ctx context.Context, post *domain.InternshipPost) (int64, error) {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO internship_posts (company_user_id, title, description, location, department, image_url, is_active, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		post.CompanyUserID,
		post.Title,
		post.Description,
		nullString(post.Location),
		nullString(post.Department),
		nullString(post.ImageURL),
		post.IsActive,
		post.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert internship post: %w", classify(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("internship post last insert id: %w", err)
	}
	post.ID = id
	return id, nil
}

func (r *PostRepository) ListActiveInternshipPosts(ctx context.Context) ([]domain.InternshipPost, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+internshipPostColumns+`
FROM internship_posts
WHERE is_active = 1
ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query internship posts: %w", classify(err))
	}
	defer rows.Close()

	var posts []domain.InternshipPost
	for rows.Next() {
		post, err := scanInternshipPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func (r *PostRepository) SetInternshipPostImage(ctx context.Context, id int64, url string) error {
	return r.setImage(ctx, "internship_posts", id, url)
}

func (r *PostRepository) SetStudentProfilePostImage(ctx context.Context, id int64, url string) error {
	return r.setImage(ctx, "student_profile_posts", id, url)
}

// setImage never replaces an image that is already set.
func (r *PostRepository) setImage(ctx context.Context, table string, id int64, url string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE `+table+`
SET image_url = ?
WHERE id = ? AND (image_url IS NULL OR image_url = '')`, url, id)
	if err != nil {
		return fmt.Errorf("set %s image: %w", table, classify(err))
	}
	return nil
}

func scanInternshipPost(row interface {
	Scan(dest ...any) error
}) (*domain.InternshipPost, error) {
	var (
		post                          domain.InternshipPost
		location, department, picture sql.NullString
	)
	if err := row.Scan(
		&post.ID,
		&post.CompanyUserID,
		&post.Title,
		&post.Description,
		&location,
		&department,
		&picture,
		&post.IsActive,
		&post.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("internship post: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan internship post: %w", classify(err))
	}
	post.Location = location.String
	post.Department = department.String
	post.ImageURL = picture.String
	return &post, nil
}

func (r *PostRepository) FindStudentProfilePost(ctx context.Context, studentUserID int64) (*domain.StudentProfilePost, error) {
	var (
		post                     domain.StudentProfilePost
		title, location, picture sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
SELECT id, student_user_id, title, description, location, image_url, is_active, created_at, updated_at
FROM student_profile_posts
WHERE student_user_id = ?
ORDER BY id ASC
LIMIT 1`, studentUserID).Scan(
		&post.ID,
		&post.StudentUserID,
		&title,
		&post.Description,
		&location,
		&picture,
		&post.IsActive,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("student profile post: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan student profile post: %w", classify(err))
	}
	post.Title = title.String
	post.Location = location.String
	post.ImageURL = picture.String
	return &post, nil
}

func (r *PostRepository) CreateStudentProfilePost(ctx context.Context, post *domain.StudentProfilePost) (int64, error) {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = post.CreatedAt
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO student_profile_posts (student_user_id, title, description, location, image_url, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		post.StudentUserID,
		nullString(post.Title),
		post.Description,
		nullString(post.Location),
		nullString(post.ImageURL),
		post.IsActive,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert student profile post: %w", classify(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("student profile post last insert id: %w", err)
	}
	post.ID = id
	return id, nil
}

func (r *PostRepository) FindExperiencePost(ctx context.Context, studentUserID int64, title string) (*domain.StudentExperiencePost, error) {
	var (
		post              domain.StudentExperiencePost
		category, picture sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
SELECT id, student_user_id, title, description, category, image_url, is_active, created_at
FROM student_experience_posts
WHERE student_user_id = ? AND title = ?
ORDER BY id ASC
LIMIT 1`, studentUserID, title).Scan(
		&post.ID,
		&post.StudentUserID,
		&post.Title,
		&post.Description,
		&category,
		&picture,
		&post.IsActive,
		&post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("experience post: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan experience post: %w", classify(err))
	}
	post.Category = category.String
	post.ImageURL = picture.String
	return &post, nil
}

func (r *PostRepository) CreateExperiencePost(ctx context.Context, post *domain.StudentExperiencePost) (int64, error) {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO student_experience_posts (student_user_id, title, description, category, image_url, is_active, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		post.StudentUserID,
		post.Title,
		post.Description,
		nullString(post.Category),
		nullString(post.ImageURL),
		post.IsActive,
		post.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert experience post: %w", classify(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("experience post last insert id: %w", err)
	}
	post.ID = id
	return id, nil
}
