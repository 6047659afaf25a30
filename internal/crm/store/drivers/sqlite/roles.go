package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/crmgate/internal/crm/domain"
	"github.com/aussiebroadwan/crmgate/pkg/rbac"
)

type rolesRepo struct {
	db dbtx
}

const roleColumns = `id, business_id, name, description, permissions, system, created_at, updated_at`

func scanRole(row rowScanner) (domain.Role, error) {
	var (
		r     domain.Role
		perms string
	)
	err := row.Scan(&r.ID, &r.BusinessID, &r.Name, &r.Description, &perms, &r.System, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return domain.Role{}, err
	}
	if err := json.Unmarshal([]byte(perms), &r.Permissions); err != nil {
		return domain.Role{}, fmt.Errorf("sqlite: role %s permissions: %w", r.ID, err)
	}
	if r.Permissions == nil {
		r.Permissions = []rbac.Permission{}
	}
	return r, nil
}

func encodePermissions(perms []rbac.Permission) (string, error) {
	if perms == nil {
		perms = []rbac.Permission{}
	}
	b, err := json.Marshal(perms)
	return string(b), err
}

func (r *rolesRepo) GetRoleByID(ctx context.Context, id string) (domain.Role, error) {
	role, err := scanRole(r.db.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE id = ?`, id))
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return role, nil
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, businessID, name string) (domain.Role, error) {
	role, err := scanRole(r.db.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE business_id = ? AND name = ?`, businessID, name))
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return role, nil
}

func (r *rolesRepo) ListRoles(ctx context.Context, businessID string) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE business_id = ? ORDER BY system DESC, created_at, id`,
		businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *rolesRepo) CreateRole(ctx context.Context, role domain.Role) error {
	perms, err := encodePermissions(role.Permissions)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO roles (id, business_id, name, description, permissions, system)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		role.ID, role.BusinessID, role.Name, role.Description, perms, role.System,
	)
	return mapConstraint(err)
}

func (r *rolesRepo) UpdateRole(ctx context.Context, role domain.Role) error {
	encoded, err := encodePermissions(role.Permissions)
	if err != nil {
		return err
	}
	return mustAffect(r.db.ExecContext(ctx,
		`UPDATE roles SET name = ?, description = ?, permissions = ?, updated_at = ? WHERE id = ?`,
		role.Name, role.Description, encoded, time.Now().UTC(), role.ID,
	))
}

func (r *rolesRepo) DeleteRole(ctx context.Context, roleID string) error {
	return mustAffect(r.db.ExecContext(ctx, `DELETE FROM roles WHERE id = ?`, roleID))
}
