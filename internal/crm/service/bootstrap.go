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

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

type BootstrapService struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher
	Token  string // Pre-configured bootstrap token; empty disables bootstrap
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Businesses().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the first business, seeds the system roles and creates
// its Owner, all in one transaction.
func (s *BootstrapService) Bootstrap(ctx context.Context, token string, req domain.BootstrapData) (domain.BootstrapResult, error) {
	l := slogx.FromContext(ctx)

	// 1. Validate provided token
	if s.Token == "" || !cryptox.EqualSecret(token, s.Token) {
		l.Warn("unauthorized bootstrap attempt")
		return domain.BootstrapResult{}, ErrBootstrapUnauthorized
	}

	// 2. Check if already bootstrapped
	if bootstrapped, err := s.IsBootstrapped(ctx); err != nil {
		return domain.BootstrapResult{}, err
	} else if bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return domain.BootstrapResult{}, ErrBootstrapAlready
	}

	// 3. Validate input
	req.BusinessName = strings.TrimSpace(req.BusinessName)
	req.OwnerUsername = strings.ToLower(strings.TrimSpace(req.OwnerUsername))
	req.OwnerPreferredName = strings.TrimSpace(req.OwnerPreferredName)
	switch {
	case req.BusinessName == "":
		return domain.BootstrapResult{}, invalid("businessName", "is required")
	case req.OwnerUsername == "":
		return domain.BootstrapResult{}, invalid("ownerUsername", "is required")
	case len(req.OwnerPassword) < minPasswordLen:
		return domain.BootstrapResult{}, invalid("ownerPassword", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}
	if req.OwnerPreferredName == "" {
		req.OwnerPreferredName = req.OwnerUsername
	}

	// 4. Hash password
	passHash, err := s.Hasher.Hash(req.OwnerPassword)
	if err != nil {
		l.Error("failed to hash owner password", slog.Any("error", err))
		return domain.BootstrapResult{}, err
	}

	// 5. Create business, roles and owner in a transaction
	var res domain.BootstrapResult
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		biz := domain.Business{ID: idx.New(idx.PrefixBusiness).String(), Name: req.BusinessName}
		if err := tx.Businesses().CreateBusiness(ctx, biz); err != nil {
			return fmt.Errorf("create business: %w", err)
		}

		var ownerRoleID string
		for _, def := range rbac.SystemRoles() {
			role := domain.Role{
				ID:         idx.New(idx.PrefixRole).String(),
				BusinessID: biz.ID,
				Role:       def,
			}
			if err := tx.Roles().CreateRole(ctx, role); err != nil {
				l.Error("failed to create role",
					slog.String("role_name", def.Name),
					slog.Any("error", err),
				)
				return fmt.Errorf("create role %s: %w", def.Name, err)
			}
			if def.Name == rbac.RoleOwner {
				ownerRoleID = role.ID
			}
		}

		owner := domain.User{
			ID:            idx.New(idx.PrefixUser).String(),
			BusinessID:    biz.ID,
			Username:      req.OwnerUsername,
			PreferredName: req.OwnerPreferredName,
			PasswordHash:  passHash,
			RoleID:        ownerRoleID,
		}
		if err := tx.Users().CreateUser(ctx, owner); err != nil {
			return fmt.Errorf("create owner: %w", err)
		}

		var err error
		if res.Business, err = tx.Businesses().GetBusinessByID(ctx, biz.ID); err != nil {
			return err
		}
		if res.Owner, err = tx.Users().GetUserByID(ctx, owner.ID); err != nil {
			return err
		}
		res.Roles, err = tx.Roles().ListRoles(ctx, biz.ID)
		return err
	})
	if err != nil {
		return domain.BootstrapResult{}, err
	}

	l.Info("successfully bootstrapped system",
		slog.String("business_id", res.Business.ID),
		slog.String("owner_user_id", res.Owner.ID),
	)
	return res, nil
}
