package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unintend-backend/internal/domain"
	"unintend-backend/internal/repository"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "unintend.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func migratedStore(t *testing.T) *Store {
	t.Helper()
	s := openStore(t)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "unintend.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())
}

func TestOpen_UnusablePathIsStorageUnavailable(t *testing.T) {
	// A regular file where the parent directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := Open(filepath.Join(blocker, "unintend.db"))
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrStorageUnavailable)
}

func TestVerifySchema_FreshDatabase(t *testing.T) {
	s := openStore(t)

	err := s.VerifySchema(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrSchemaMissing)
	assert.Contains(t, err.Error(), "users")
}

func TestVerifySchema_MissingColumn(t *testing.T) {
	s := openStore(t)
	_, err := s.DB().Exec(`CREATE TABLE users (id INTEGER PRIMARY KEY, username TEXT)`)
	require.NoError(t, err)

	err = s.VerifySchema(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrSchemaMissing)
	assert.Contains(t, err.Error(), "users.email")
}

func TestMigrate_IsRepeatable(t *testing.T) {
	s := migratedStore(t)
	ctx := context.Background()

	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.VerifySchema(ctx))
}

func TestMigrate_ReportsGooseFailure(t *testing.T) {
	s := openStore(t)

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	err := s.Migrate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	s := migratedStore(t)
	ctx := context.Background()
	users := s.Repositories().Users

	created := &domain.User{
		Username:     "eleni",
		Email:        "eleni@student.com",
		PasswordHash: "hash",
		Name:         "Eleni",
		Role:         domain.RoleStudent,
		CreatedAt:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	id, err := users.Create(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, id, created.ID)

	byName, err := users.GetByUsername(ctx, "eleni")
	require.NoError(t, err)
	assert.Equal(t, "eleni@student.com", byName.Email)
	assert.Equal(t, "Eleni", byName.Name)
	assert.Equal(t, "", byName.Surname)
	assert.Equal(t, domain.RoleStudent, byName.Role)
	assert.True(t, created.CreatedAt.Equal(byName.CreatedAt))

	byID, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "eleni", byID.Username)

	byEmail, err := users.FindByUsernameOrEmail(ctx, "someone-else", "eleni@student.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)

	n, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	s := migratedStore(t)
	ctx := context.Background()
	users := s.Repositories().Users

	_, err := users.Create(ctx, &domain.User{Username: "nikos", Email: "a@x", PasswordHash: "h", Role: domain.RoleStudent})
	require.NoError(t, err)

	_, err = users.Create(ctx, &domain.User{Username: "nikos", Email: "b@x", PasswordHash: "h", Role: domain.RoleStudent})
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
}

func TestUserRepository_NotFound(t *testing.T) {
	s := migratedStore(t)

	_, err := s.Repositories().Users.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFindByUsernameOrEmail_PrefersUsername(t *testing.T) {
	s := migratedStore(t)
	ctx := context.Background()
	users := s.Repositories().Users

	_, err := users.Create(ctx, &domain.User{Username: "first", Email: "shared@x", PasswordHash: "h", Role: domain.RoleStudent})
	require.NoError(t, err)
	_, err = users.Create(ctx, &domain.User{Username: "second", Email: "second@x", PasswordHash: "h", Role: domain.RoleCompany})
	require.NoError(t, err)

	got, err := users.FindByUsernameOrEmail(ctx, "second", "shared@x")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Username)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	s := migratedStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(repos repository.Repositories) error {
		if _, err := repos.Users.Create(ctx, &domain.User{Username: "tmp", Email: "tmp@x", PasswordHash: "h", Role: domain.RoleStudent}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := s.Repositories().Users.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWithinTx_Commits(t *testing.T) {
	s := migratedStore(t)
	ctx := context.Background()

	err := s.WithinTx(ctx, func(repos repository.Repositories) error {
		_, err := repos.Users.Create(ctx, &domain.User{Username: "kept", Email: "kept@x", PasswordHash: "h", Role: domain.RoleCompany})
		return err
	})
	require.NoError(t, err)

	_, err = s.Repositories().Users.GetByUsername(ctx, "kept")
	require.NoError(t, err)
}

func TestReadOnlyConnectionIsStorageUnavailable(t *testing.T) {
	s := migratedStore(t)
	ctx := context.Background()
	_, err := s.DB().Exec(`PRAGMA query_only = ON`)
	require.NoError(t, err)

	_, err = s.Repositories().Users.Create(ctx, &domain.User{Username: "ro", Email: "ro@x", PasswordHash: "h", Role: domain.RoleStudent})
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrStorageUnavailable)
}
