package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	msqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"

	"unintend-backend/internal/repository"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store owns the sqlite database file and vends repositories bound to it.
type Store struct {
	db     *sql.DB
	path   string
	logger *logrus.Logger
}

// Option customises a Store.
type Option func(*Store)

// WithLogger routes migration and store messages to logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Open opens (or creates) a sqlite database at the given path and ensures directories exist.
// Any failure to reach the file is reported as repository.ErrStorageUnavailable.
func Open(path string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", classify(err))
	}

	// Writers take the lock when the transaction starts so concurrent seeders
	// wait on busy_timeout instead of failing on lock upgrade.
	db, err := sql.Open("sqlite", path+"?_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", classify(err))
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect sqlite db: %w", classify(err))
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db, path: path}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logrus.New()
	}
	return s, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, classify(err))
		}
	}
	return nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file the store was opened on.
func (s *Store) Path() string {
	return s.path
}

// Repositories returns repositories bound directly to the connection.
func (s *Store) Repositories() repository.Repositories {
	return bind(s.db)
}

// WithinTx runs fn inside one transaction and commits when it returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", classify(err))
	}
	defer tx.Rollback() // safe no-op on commit

	if err := fn(bind(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", classify(err))
	}
	return nil
}

func bind(db DBTX) repository.Repositories {
	return repository.Repositories{
		Users:        NewUserRepository(db),
		Profiles:     NewProfileRepository(db),
		Posts:        NewPostRepository(db),
		Interactions: NewInteractionRepository(db),
		Applications: NewApplicationRepository(db),
	}
}

var _ repository.Store = (*Store)(nil)

// classify maps driver and filesystem failures onto repository error kinds.
// Errors it does not recognise are returned untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrStorageUnavailable) || errors.Is(err, repository.ErrSchemaMissing) {
		return err
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlitelib.SQLITE_BUSY,
			sqlitelib.SQLITE_LOCKED,
			sqlitelib.SQLITE_READONLY,
			sqlitelib.SQLITE_IOERR,
			sqlitelib.SQLITE_CANTOPEN,
			sqlitelib.SQLITE_FULL,
			sqlitelib.SQLITE_PERM,
			sqlitelib.SQLITE_NOTADB,
			sqlitelib.SQLITE_CORRUPT:
			return fmt.Errorf("%w: %w", repository.ErrStorageUnavailable, err)
		}
		return err
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%w: %w", repository.ErrStorageUnavailable, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlitelib.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
