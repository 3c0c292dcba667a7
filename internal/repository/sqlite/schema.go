package sqlite

import (
	"context"
	"fmt"

	"unintend-backend/internal/repository"
)

// requiredSchema lists every table and column the repositories read or write.
var requiredSchema = []struct {
	table   string
	columns []string
}{
	{"users", []string{"id", "username", "email", "password_hash", "name", "surname", "profile_image_url", "role", "created_at"}},
	{"student_profiles", []string{"id", "user_id", "university", "department", "bio", "skills", "studies", "experience"}},
	{"company_profiles", []string{"id", "user_id", "company_name", "industry", "description", "website", "bio"}},
	{"internship_posts", []string{"id", "company_user_id", "title", "description", "location", "department", "image_url", "is_active", "created_at"}},
	{"student_profile_posts", []string{"id", "student_user_id", "title", "description", "location", "image_url", "is_active", "created_at", "updated_at"}},
	{"student_experience_posts", []string{"id", "student_user_id", "title", "description", "category", "image_url", "is_active", "created_at"}},
	{"student_post_interactions", []string{"id", "student_user_id", "post_id", "saved", "decision", "saved_at", "decided_at"}},
	{"company_student_post_interactions", []string{"id", "company_user_id", "student_post_id", "saved", "decision", "saved_at", "decided_at"}},
	{"applications", []string{"id", "post_id", "student_user_id", "company_user_id", "status", "created_at", "updated_at"}},
	{"conversations", []string{"id", "application_id", "created_at"}},
	{"messages", []string{"id", "conversation_id", "type", "sender_user_id", "text", "created_at"}},
}

// VerifySchema checks that every required table and column exists.
// It only reads the catalogue and never alters the database.
func (s *Store) VerifySchema(ctx context.Context) error {
	for _, t := range requiredSchema {
		columns, err := s.tableColumns(ctx, t.table)
		if err != nil {
			return err
		}
		if len(columns) == 0 {
			return fmt.Errorf("%w: table %s does not exist", repository.ErrSchemaMissing, t.table)
		}
		for _, name := range t.columns {
			if _, ok := columns[name]; !ok {
				return fmt.Errorf("%w: column %s.%s does not exist", repository.ErrSchemaMissing, t.table, name)
			}
		}
	}
	return nil
}

func (s *Store) tableColumns(ctx context.Context, table string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return nil, fmt.Errorf("describe %s table: %w", table, classify(err))
	}
	defer rows.Close()

	columns := map[string]struct{}{}
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notnull   int
			dfltValue any
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("scan pragma table info: %w", err)
		}
		columns[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pragma table info: %w", classify(err))
	}
	return columns, nil
}
