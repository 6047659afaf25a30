package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/crmgate/internal/crm/store"
)

// txStore hands out repos bound to one *sql.Tx. Lifecycle methods of the
// outer Store are either no-ops or refused here.
type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Businesses() store.Businesses       { return &businessesRepo{db: t.tx} }
func (t *txStore) Users() store.Users                 { return &usersRepo{db: t.tx} }
func (t *txStore) Roles() store.Roles                 { return &rolesRepo{db: t.tx} }
func (t *txStore) RefreshTokens() store.RefreshTokens { return &refreshTokensRepo{db: t.tx} }

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Nesting is refused: with a single connection a second BEGIN would
// deadlock against the transaction that is already open.
func (t *txStore) Tx(context.Context) (store.Tx, error) { return nil, sql.ErrTxDone }
func (t *txStore) WithTx(context.Context, func(store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) ApplyMigrations() error         { return nil }
func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }
