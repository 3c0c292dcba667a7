package repository

import "context"

// Repositories bundles repositories bound to the same unit of work.
type Repositories struct {
	Users        UserRepository
	Profiles     ProfileRepository
	Posts        PostRepository
	Interactions InteractionRepository
	Applications ApplicationRepository
}

// Store is the persistence layer seen by services that need transactions.
type Store interface {
	// VerifySchema fails with ErrSchemaMissing when a required table or
	// column does not exist.
	VerifySchema(ctx context.Context) error
	// WithinTx runs fn against repositories bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(Repositories) error) error
	// Repositories returns repositories bound to the connection itself.
	Repositories() Repositories
}
