package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/crmgate/internal/crm/domain"
	"github.com/aussiebroadwan/crmgate/internal/crm/store"
)

type ProfileService struct {
	Store store.Store
}

// Profile returns the user together with their role and business. A user
// that no longer exists yields ErrUserNotFound, which handlers map to 401
// so that stale sessions are dropped by the client.
func (s *ProfileService) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Profile{}, ErrUserNotFound
		}
		return domain.Profile{}, err
	}

	r, err := s.Store.Roles().GetRoleByID(ctx, u.RoleID)
	if err != nil {
		return domain.Profile{}, err
	}
	b, err := s.Store.Businesses().GetBusinessByID(ctx, u.BusinessID)
	if err != nil {
		return domain.Profile{}, err
	}

	return domain.Profile{User: u, Role: r, Business: b}, nil
}
