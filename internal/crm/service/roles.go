package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/crmgate/internal/crm/domain"
	"github.com/aussiebroadwan/crmgate/internal/crm/store"
	"github.com/aussiebroadwan/crmgate/pkg/idx"
	"github.com/aussiebroadwan/crmgate/pkg/rbac"
	"github.com/aussiebroadwan/crmgate/pkg/slogx"
)

const maxRoleNameLen = 64

var (
	ErrRoleNotFound  = errors.New("role not found")
	ErrRoleNameTaken = errors.New("role name already in use")
	ErrSystemRole    = errors.New("system roles cannot be modified")
	ErrRoleInUse     = errors.New("role is assigned to users")
)

// RoleInput is the editable part of a role.
type RoleInput struct {
	Name        string
	Description string
	Permissions []rbac.Permission
}

// RolesService manages the custom roles of a business. Every call is scoped
// to businessID: a role of another business is reported as not found.
type RolesService struct {
	Store store.Store
	Authz *Authorizer
}

func (s *RolesService) List(ctx context.Context, businessID string) ([]domain.Role, error) {
	return s.Store.Roles().ListRoles(ctx, businessID)
}

func (s *RolesService) Get(ctx context.Context, businessID, roleID string) (domain.Role, error) {
	return getScopedRole(ctx, s.Store, businessID, roleID)
}

// Create adds a custom role.
func (s *RolesService) Create(ctx context.Context, businessID string, in RoleInput) (domain.Role, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateRoleInput(in); err != nil {
		return domain.Role{}, err
	}

	role := domain.Role{
		ID:         idx.New(idx.PrefixRole).String(),
		BusinessID: businessID,
		Role: rbac.Role{
			Name:        in.Name,
			Description: in.Description,
			Permissions: clonePermissions(in.Permissions),
		},
	}
	if err := s.Store.Roles().CreateRole(ctx, role); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Role{}, ErrRoleNameTaken
		}
		return domain.Role{}, fmt.Errorf("create role: %w", err)
	}

	slogx.FromContext(ctx).Info("role created",
		slog.String("role_id", role.ID),
		slog.String("name", role.Name),
	)
	return s.Store.Roles().GetRoleByID(ctx, role.ID)
}

// UpdatePermissions replaces name, description and permissions of a custom
// role and returns the stored result.
func (s *RolesService) UpdatePermissions(ctx context.Context, businessID, roleID string, in RoleInput) (domain.Role, error) {
	in.Name = strings.TrimSpace(in.Name)

	return s.mutate(ctx, businessID, roleID, func(current *domain.Role) error {
		if in.Name == "" {
			in.Name = current.Name
		}
		if err := validateRoleInput(in); err != nil {
			return err
		}
		current.Name = in.Name
		current.Description = in.Description
		current.Permissions = clonePermissions(in.Permissions)
		return nil
	})
}

// TogglePermission flips one (resource, action) cell of a custom role. The
// read and the write share a transaction so concurrent toggles of one role
// never drop each other.
func (s *RolesService) TogglePermission(ctx context.Context, businessID, roleID, resource string, action rbac.Action) (domain.Role, error) {
	if !rbac.IsResource(resource) {
		return domain.Role{}, invalid("resource", "unknown resource")
	}
	normalized, ok := rbac.ParseAction(string(action))
	if !ok {
		return domain.Role{}, invalid("action", "unknown action")
	}

	return s.mutate(ctx, businessID, roleID, func(current *domain.Role) error {
		current.Role = rbac.Toggle(current.Role, resource, normalized)
		return validateRoleInput(RoleInput{Name: current.Name, Permissions: current.Permissions})
	})
}

// mutate loads a custom role, applies fn and stores the result in one
// transaction. System roles are refused before fn runs.
func (s *RolesService) mutate(ctx context.Context, businessID, roleID string, fn func(*domain.Role) error) (domain.Role, error) {
	var updated domain.Role
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := getScopedRole(ctx, tx, businessID, roleID)
		if err != nil {
			return err
		}
		if current.System {
			return ErrSystemRole
		}
		if err := fn(&current); err != nil {
			return err
		}

		if err := tx.Roles().UpdateRole(ctx, current); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrRoleNameTaken
			}
			return fmt.Errorf("update role: %w", err)
		}
		updated, err = tx.Roles().GetRoleByID(ctx, roleID)
		return err
	})
	if err != nil {
		return domain.Role{}, err
	}

	s.Authz.InvalidateRole(roleID)
	slogx.FromContext(ctx).Info("role updated", slog.String("role_id", roleID))
	return updated, nil
}

// Delete removes a custom role that no user holds.
func (s *RolesService) Delete(ctx context.Context, businessID, roleID string) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := getScopedRole(ctx, tx, businessID, roleID)
		if err != nil {
			return err
		}
		if current.System {
			return ErrSystemRole
		}

		n, err := tx.Users().CountUsersWithRole(ctx, roleID)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrRoleInUse
		}

		if err := tx.Roles().DeleteRole(ctx, roleID); err != nil {
			if errors.Is(err, store.ErrReferenced) {
				return ErrRoleInUse
			}
			return fmt.Errorf("delete role: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Authz.InvalidateRole(roleID)
	slogx.FromContext(ctx).Info("role deleted", slog.String("role_id", roleID))
	return nil
}

func getScopedRole(ctx context.Context, s store.Store, businessID, roleID string) (domain.Role, error) {
	r, err := s.Roles().GetRoleByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Role{}, ErrRoleNotFound
		}
		return domain.Role{}, err
	}
	if r.BusinessID != businessID {
		return domain.Role{}, ErrRoleNotFound
	}
	return r, nil
}

func validateRoleInput(in RoleInput) error {
	switch {
	case in.Name == "":
		return invalid("name", "is required")
	case len(in.Name) > maxRoleNameLen:
		return invalid("name", fmt.Sprintf("must be at most %d characters", maxRoleNameLen))
	case rbac.IsSystemRoleName(in.Name):
		return invalid("name", "is reserved for a system role")
	}
	if err := rbac.ValidatePermissions(in.Permissions); err != nil {
		return invalid("permissions", strings.TrimPrefix(err.Error(), rbac.ErrInvalidPermission.Error()+": "))
	}
	return nil
}

func clonePermissions(perms []rbac.Permission) []rbac.Permission {
	r := rbac.Role{Permissions: perms}
	return r.Clone().Permissions
}
