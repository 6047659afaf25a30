package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/crmgate/internal/crm/domain"
	"github.com/aussiebroadwan/crmgate/internal/crm/store"
	"github.com/aussiebroadwan/crmgate/pkg/cryptox"
	"github.com/aussiebroadwan/crmgate/pkg/idx"
	"github.com/aussiebroadwan/crmgate/pkg/rbac"
	"github.com/aussiebroadwan/crmgate/pkg/slogx"
)

const minPasswordLen = 8

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already in use")
	ErrLastOwner     = errors.New("business must keep at least one owner")
)

// CreateUserInput invites a member of staff. An empty Password makes the
// service generate one.
type CreateUserInput struct {
	Username      string
	PreferredName string
	Password      string
	RoleID        string
}

type UsersService struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher
	Authz  *Authorizer
}

func (s *UsersService) List(ctx context.Context, businessID string) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx, businessID)
}

// Create adds a user to the business. The returned password is non-empty
// only when it was generated and must be handed to the user once.
func (s *UsersService) Create(ctx context.Context, businessID string, in CreateUserInput) (domain.User, string, error) {
	l := slogx.FromContext(ctx)

	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.PreferredName = strings.TrimSpace(in.PreferredName)
	if in.Username == "" {
		return domain.User{}, "", invalid("username", "is required")
	}
	if in.PreferredName == "" {
		in.PreferredName = in.Username
	}

	var generated string
	if in.Password == "" {
		var err error
		if generated, err = cryptox.GeneratePassword(); err != nil {
			return domain.User{}, "", err
		}
		in.Password = generated
	} else if len(in.Password) < minPasswordLen {
		return domain.User{}, "", invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}

	if _, err := getScopedRole(ctx, s.Store, businessID, in.RoleID); err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return domain.User{}, "", invalid("roleId", "unknown role")
		}
		return domain.User{}, "", err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		l.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, "", err
	}

	u := domain.User{
		ID:            idx.New(idx.PrefixUser).String(),
		BusinessID:    businessID,
		Username:      in.Username,
		PreferredName: in.PreferredName,
		PasswordHash:  hash,
		RoleID:        in.RoleID,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, "", ErrUsernameTaken
		}
		return domain.User{}, "", fmt.Errorf("create user: %w", err)
	}

	l.Info("user created",
		slog.String("user_id", u.ID),
		slog.String("role_id", u.RoleID),
	)
	created, err := s.Store.Users().GetUserByID(ctx, u.ID)
	return created, generated, err
}

// AssignRole moves a user to another role of the same business. The last
// Owner of a business cannot be moved away from the Owner role.
func (s *UsersService) AssignRole(ctx context.Context, businessID, userID, roleID string) (domain.User, error) {
	var updated domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if u.BusinessID != businessID {
			return ErrUserNotFound
		}

		target, err := getScopedRole(ctx, tx, businessID, roleID)
		if err != nil {
			return err
		}
		if u.RoleID == target.ID {
			updated = u
			return nil
		}

		current, err := tx.Roles().GetRoleByID(ctx, u.RoleID)
		if err != nil {
			return err
		}
		if current.System && current.Name == rbac.RoleOwner {
			n, err := tx.Users().CountUsersWithRole(ctx, current.ID)
			if err != nil {
				return err
			}
			if n <= 1 {
				return ErrLastOwner
			}
		}

		if err := tx.Users().UpdateUserRole(ctx, userID, roleID); err != nil {
			return err
		}
		updated, err = tx.Users().GetUserByID(ctx, userID)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}

	s.Authz.InvalidateUser(userID)
	slogx.FromContext(ctx).Info("role assigned",
		slog.String("user_id", userID),
		slog.String("role_id", roleID),
	)
	return updated, nil
}
