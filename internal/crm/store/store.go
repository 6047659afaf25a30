package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/crmgate/internal/crm/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	ErrReferenced    = errors.New("store: still referenced")
)

// Store is the root data access interface. Concrete drivers implement this.
// It exposes sub-repositories to keep concerns tidy and testable, and the
// Tx-scoped Store refuses to open a nested transaction.
type Store interface {
	Businesses() Businesses
	Users() Users
	Roles() Roles
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
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

type Businesses interface {
	CreateBusiness(ctx context.Context, b domain.Business) error
	GetBusinessByID(ctx context.Context, id string) (domain.Business, error)

	// IsEmpty returns true before the first bootstrap.
	IsEmpty(ctx context.Context) (bool, error)
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used at login. Usernames are unique across
	// businesses.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// ListUsers returns a business's users ordered by username.
	ListUsers(ctx context.Context, businessID string) ([]domain.User, error)

	// CreateUser inserts a new user (id is provided by app).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUserRole reassigns a user's role and bumps updated_at.
	UpdateUserRole(ctx context.Context, userID, roleID string) error

	// CountUsersWithRole is checked before a role is deleted.
	CountUsersWithRole(ctx context.Context, roleID string) (int, error)

	// UpdateMFASecret stores a pending TOTP secret.
	UpdateMFASecret(ctx context.Context, userID, secret string) error

	// EnableMFA sets mfa_enabled to now.
	EnableMFA(ctx context.Context, userID string) error
}

type Roles interface {
	GetRoleByID(ctx context.Context, id string) (domain.Role, error)

	// GetRoleByName looks up a role by its name within a business.
	GetRoleByName(ctx context.Context, businessID, name string) (domain.Role, error)

	// ListRoles returns a business's roles, system roles first.
	ListRoles(ctx context.Context, businessID string) ([]domain.Role, error)

	// CreateRole inserts a new role. Names are unique per business.
	CreateRole(ctx context.Context, r domain.Role) error

	// UpdateRole replaces name, description and permissions of r.ID and
	// bumps updated_at. The system flag is never changed.
	UpdateRole(ctx context.Context, r domain.Role) error

	// DeleteRole removes a role. It fails while users still reference it.
	DeleteRole(ctx context.Context, roleID string) error
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the token by its fingerprint.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken flips revoked=1, sets updated_at.
	RevokeRefreshToken(ctx context.Context, hash string) error

	// RevokeSession revokes every token issued under a session id. Used when
	// a revoked token is replayed.
	RevokeSession(ctx context.Context, sessionID string) error

	// DeleteExpiredRefreshTokens is housekeeping.
	DeleteExpiredRefreshTokens(ctx context.Context) error
}
