package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/crmgate/internal/crm/domain"
	"github.com/aussiebroadwan/crmgate/internal/crm/store"
	"github.com/aussiebroadwan/crmgate/internal/crm/store/drivers/sqlite"
	"github.com/aussiebroadwan/crmgate/pkg/idx"
	"github.com/aussiebroadwan/crmgate/pkg/rbac"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// seed creates a business with one role and one user holding it.
func seed(t *testing.T, s store.Store) (domain.Business, domain.Role, domain.User) {
	t.Helper()
	ctx := context.Background()

	biz := domain.Business{ID: idx.New(idx.PrefixBusiness).String(), Name: "Acme"}
	require.NoError(t, s.Businesses().CreateBusiness(ctx, biz))

	role := domain.Role{
		ID:         idx.New(idx.PrefixRole).String(),
		BusinessID: biz.ID,
		Role: rbac.Role{
			Name: "Support",
			Permissions: []rbac.Permission{
				{Resource: rbac.ResourceLeads, Actions: []rbac.Action{rbac.ActionRead}},
			},
		},
	}
	require.NoError(t, s.Roles().CreateRole(ctx, role))

	user := domain.User{
		ID:            idx.New(idx.PrefixUser).String(),
		BusinessID:    biz.ID,
		Username:      "ada",
		PreferredName: "Ada",
		PasswordHash:  "$argon2id$fake",
		RoleID:        role.ID,
	}
	require.NoError(t, s.Users().CreateUser(ctx, user))

	return biz, role, user
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestBusinesses(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	empty, err := s.Businesses().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	biz, _, _ := seed(t, s)

	got, err := s.Businesses().GetBusinessByID(ctx, biz.ID)
	require.NoError(t, err)
	require.Equal(t, "Acme", got.Name)
	require.False(t, got.CreatedAt.IsZero())

	_, err = s.Businesses().GetBusinessByID(ctx, "biz_missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRoles_RoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	biz, role, _ := seed(t, s)

	got, err := s.Roles().GetRoleByID(ctx, role.ID)
	require.NoError(t, err)
	require.Equal(t, role.Role, got.Role)

	byName, err := s.Roles().GetRoleByName(ctx, biz.ID, "Support")
	require.NoError(t, err)
	require.Equal(t, role.ID, byName.ID)

	perms := []rbac.Permission{
		{Resource: rbac.ResourceLeads, Actions: []rbac.Action{rbac.ActionRead, rbac.ActionUpdate}},
		{Resource: rbac.ResourceReports, Actions: []rbac.Action{rbac.ActionRead}},
	}
	role.Description = "Front line"
	role.Permissions = perms
	require.NoError(t, s.Roles().UpdateRole(ctx, role))

	got, err = s.Roles().GetRoleByID(ctx, role.ID)
	require.NoError(t, err)
	require.Equal(t, perms, got.Permissions)
	require.Equal(t, "Front line", got.Description)

	require.ErrorIs(t, s.Roles().UpdateRole(ctx, domain.Role{ID: "role_missing"}), store.ErrNotFound)
}

func TestRoles_EmptyPermissionsStayEmpty(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	_, role, _ := seed(t, s)

	role.Permissions = nil
	require.NoError(t, s.Roles().UpdateRole(ctx, role))

	got, err := s.Roles().GetRoleByID(ctx, role.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Permissions)
	require.Empty(t, got.Permissions)
}

func TestRoles_UniqueNamePerBusiness(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	biz, _, _ := seed(t, s)

	dup := domain.Role{ID: idx.New(idx.PrefixRole).String(), BusinessID: biz.ID, Role: rbac.Role{Name: "Support"}}
	require.ErrorIs(t, s.Roles().CreateRole(ctx, dup), store.ErrAlreadyExists)

	other := domain.Business{ID: idx.New(idx.PrefixBusiness).String(), Name: "Other"}
	require.NoError(t, s.Businesses().CreateBusiness(ctx, other))
	dup.BusinessID = other.ID
	require.NoError(t, s.Roles().CreateRole(ctx, dup))
}

func TestRoles_ListOrdersSystemFirst(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	biz, _, _ := seed(t, s)

	owner := domain.Role{ID: idx.New(idx.PrefixRole).String(), BusinessID: biz.ID, Role: rbac.SystemRoles()[0]}
	require.NoError(t, s.Roles().CreateRole(ctx, owner))

	roles, err := s.Roles().ListRoles(ctx, biz.ID)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	require.Equal(t, rbac.RoleOwner, roles[0].Name)
	require.True(t, roles[0].System)
	require.False(t, roles[1].System)
}

func TestRoles_DeleteReferenced(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	_, role, user := seed(t, s)

	n, err := s.Users().CountUsersWithRole(ctx, role.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.ErrorIs(t, s.Roles().DeleteRole(ctx, role.ID), store.ErrReferenced)

	_, err = s.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
}

func TestUsers(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	biz, role, user := seed(t, s)

	got, err := s.Users().GetUserByUsername(ctx, "ada")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.False(t, got.HasMFA())

	dup := user
	dup.ID = idx.New(idx.PrefixUser).String()
	require.ErrorIs(t, s.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)

	bad := user
	bad.ID = idx.New(idx.PrefixUser).String()
	bad.Username = "bob"
	bad.RoleID = "role_missing"
	require.ErrorIs(t, s.Users().CreateUser(ctx, bad), store.ErrReferenced)

	users, err := s.Users().ListUsers(ctx, biz.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)

	other := domain.Role{ID: idx.New(idx.PrefixRole).String(), BusinessID: biz.ID, Role: rbac.Role{Name: "Other"}}
	require.NoError(t, s.Roles().CreateRole(ctx, other))
	require.NoError(t, s.Users().UpdateUserRole(ctx, user.ID, other.ID))
	require.NoError(t, s.Roles().DeleteRole(ctx, role.ID))

	require.ErrorIs(t, s.Users().UpdateUserRole(ctx, "usr_missing", other.ID), store.ErrNotFound)
}

func TestUsers_MFA(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	_, _, user := seed(t, s)

	require.ErrorIs(t, s.Users().EnableMFA(ctx, user.ID), store.ErrNotFound, "no secret yet")

	require.NoError(t, s.Users().UpdateMFASecret(ctx, user.ID, "JBSWY3DPEHPK3PXP"))
	require.NoError(t, s.Users().EnableMFA(ctx, user.ID))

	got, err := s.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, got.HasMFA())
	require.Equal(t, "JBSWY3DPEHPK3PXP", *got.MFASecret)
}

func TestRefreshTokens(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	_, _, user := seed(t, s)

	tok := domain.RefreshToken{
		ID:        idx.New(idx.PrefixRefreshToken).String(),
		UserID:    user.ID,
		TokenHash: "hash-1",
		SessionID: "sid-1",
		AMR:       []string{"pwd", "otp"},
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
	}
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, tok))

	got, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, "hash-1")
	require.NoError(t, err)
	require.Equal(t, []string{"pwd", "otp"}, got.AMR)
	require.True(t, got.Active(time.Now()))

	require.NoError(t, s.RefreshTokens().RevokeRefreshToken(ctx, "hash-1"))
	got, err = s.RefreshTokens().GetRefreshTokenByHash(ctx, "hash-1")
	require.NoError(t, err)
	require.True(t, got.Revoked)

	second := tok
	second.ID = idx.New(idx.PrefixRefreshToken).String()
	second.TokenHash = "hash-2"
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, second))
	require.NoError(t, s.RefreshTokens().RevokeSession(ctx, "sid-1"))

	got, err = s.RefreshTokens().GetRefreshTokenByHash(ctx, "hash-2")
	require.NoError(t, err)
	require.True(t, got.Revoked)

	expired := tok
	expired.ID = idx.New(idx.PrefixRefreshToken).String()
	expired.TokenHash = "hash-3"
	expired.ExpiresAt = time.Now().Add(-time.Hour).UTC()
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, expired))
	require.NoError(t, s.RefreshTokens().DeleteExpiredRefreshTokens(ctx))

	_, err = s.RefreshTokens().GetRefreshTokenByHash(ctx, "hash-3")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTx_Rollback(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Businesses().CreateBusiness(ctx, domain.Business{ID: "biz_tx", Name: "Tx"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Businesses().GetBusinessByID(ctx, "biz_tx")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		require.ErrorIs(t, tx.WithTx(ctx, func(store.Tx) error { return nil }), sql.ErrTxDone)
		return tx.Businesses().CreateBusiness(ctx, domain.Business{ID: "biz_tx", Name: "Tx"})
	}))

	_, err = s.Businesses().GetBusinessByID(ctx, "biz_tx")
	require.NoError(t, err)
}
