package store

import (
	"context"
	"errors"

	"github.com/netwake/authd/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. The auth service never touches persistence outside of it.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for find-then-update sequences that must observe a consistent
	// snapshot (session issuance, reset token consumption). The caller MUST
	// call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error, the
	// transaction is rolled back; otherwise it is committed. This is the
	// recommended way to handle transactions.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// UserUpdate is a closed partial update for a user record. A nil Set* field
// leaves the column untouched; Clear* wins over the matching Set* field and
// writes NULL. Every variant is expressible without reflection, so there is
// no such thing as an unknown field at runtime.
type UserUpdate struct {
	SetHashedPassword *string

	SetSessionID *string
	ClearSession bool

	SetResetToken *string
	ClearReset    bool
}

type Users interface {
	// CreateUser inserts a new user (id is provided by the service via ULID).
	// Returns ErrAlreadyExists when the email is already registered.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail returns a user by email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserBySessionID returns the user holding the given session id.
	// An empty session id is ErrNotFound, never a wildcard.
	GetUserBySessionID(ctx context.Context, sessionID string) (domain.User, error)

	// GetUserByResetToken returns the user holding the given reset token.
	// An empty token is ErrNotFound, never a wildcard.
	GetUserByResetToken(ctx context.Context, resetToken string) (domain.User, error)

	// UpdateUser applies a partial update and bumps updated_at. The update
	// runs as a single statement, so it is atomic with respect to
	// concurrent updates on the same record. Returns ErrNotFound when the
	// id does not exist.
	UpdateUser(ctx context.Context, id string, upd UserUpdate) error

	// CountUsers returns the total number of users.
	CountUsers(ctx context.Context) (int64, error)
}
