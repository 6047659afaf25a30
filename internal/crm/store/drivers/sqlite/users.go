package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/crmgate/internal/crm/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, business_id, username, preferred_name, password_hash, role_id,
	mfa_secret, mfa_enabled, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u          domain.User
		mfaSecret  sql.NullString
		mfaEnabled sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.BusinessID, &u.Username, &u.PreferredName, &u.PasswordHash, &u.RoleID,
		&mfaSecret, &mfaEnabled, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	if mfaSecret.Valid {
		u.MFASecret = &mfaSecret.String
	}
	if mfaEnabled.Valid {
		u.MFAEnabled = &mfaEnabled.Time
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) ListUsers(ctx context.Context, businessID string) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE business_id = ? ORDER BY username`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, business_id, username, preferred_name, password_hash, role_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.BusinessID, u.Username, u.PreferredName, u.PasswordHash, u.RoleID,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateUserRole(ctx context.Context, userID, roleID string) error {
	return mustAffect(r.db.ExecContext(ctx,
		`UPDATE users SET role_id = ?, updated_at = ? WHERE id = ?`,
		roleID, time.Now().UTC(), userID,
	))
}

func (r *usersRepo) CountUsersWithRole(ctx context.Context, roleID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role_id = ?`, roleID).Scan(&n)
	return n, err
}

func (r *usersRepo) UpdateMFASecret(ctx context.Context, userID, secret string) error {
	return mustAffect(r.db.ExecContext(ctx,
		`UPDATE users SET mfa_secret = ?, mfa_enabled = NULL, updated_at = ? WHERE id = ?`,
		secret, time.Now().UTC(), userID,
	))
}

func (r *usersRepo) EnableMFA(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	return mustAffect(r.db.ExecContext(ctx,
		`UPDATE users SET mfa_enabled = ?, updated_at = ? WHERE id = ? AND mfa_secret IS NOT NULL`,
		now, now, userID,
	))
}
