package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/crmgate/internal/crm/domain"
	"github.com/aussiebroadwan/crmgate/internal/crm/store"
	"github.com/aussiebroadwan/crmgate/pkg/httpx"
	"github.com/aussiebroadwan/crmgate/pkg/rbac"
	"github.com/aussiebroadwan/crmgate/pkg/slogx"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultRoleCacheSize = 1024
	DefaultRoleCacheTTL  = 5 * time.Minute
)

// Authorizer answers permission questions for authenticated users. It
// resolves user -> role through two expirable LRU caches so the hot path of
// every guarded request does not touch the database. Any mutation of a role
// or an assignment must call InvalidateRole or InvalidateUser.
type Authorizer struct {
	store store.Store
	users *expirable.LRU[string, string]      // user id -> role id
	roles *expirable.LRU[string, domain.Role] // role id -> role
}

// NewAuthorizer creates an Authorizer. size <= 0 and ttl <= 0 fall back to
// the defaults.
func NewAuthorizer(s store.Store, size int, ttl time.Duration) *Authorizer {
	if size <= 0 {
		size = DefaultRoleCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultRoleCacheTTL
	}
	return &Authorizer{
		store: s,
		users: expirable.NewLRU[string, string](size, nil, ttl),
		roles: expirable.NewLRU[string, domain.Role](size, nil, ttl),
	}
}

// RoleFor returns the role currently assigned to userID.
func (a *Authorizer) RoleFor(ctx context.Context, userID string) (domain.Role, error) {
	roleID, ok := a.users.Get(userID)
	if !ok {
		u, err := a.store.Users().GetUserByID(ctx, userID)
		if err != nil {
			return domain.Role{}, err
		}
		roleID = u.RoleID
		a.users.Add(userID, roleID)
	}

	if r, ok := a.roles.Get(roleID); ok {
		return r, nil
	}
	r, err := a.store.Roles().GetRoleByID(ctx, roleID)
	if err != nil {
		return domain.Role{}, err
	}
	a.roles.Add(roleID, r)
	return r, nil
}

// Can reports whether userID may perform action on resource.
func (a *Authorizer) Can(ctx context.Context, userID, resource string, action rbac.Action) bool {
	role, err := a.RoleFor(ctx, userID)
	if err != nil {
		return false
	}
	return rbac.Can(&role.Role, resource, action)
}

// Decide implements httpx.PermissionChecker. Lookup failures and a role that
// belongs to another business are denials.
func (a *Authorizer) Decide(ctx context.Context, p httpx.Principal, resource string, action rbac.Action) rbac.Decision {
	role, err := a.RoleFor(ctx, p.UserID)
	if err != nil {
		slogx.FromContext(ctx).Warn("role lookup failed",
			slog.String("user_id", p.UserID),
			slog.Any("error", err),
		)
		return rbac.Decision{Reason: "role lookup failed"}
	}
	if role.BusinessID != p.BusinessID {
		return rbac.Decision{Reason: "business mismatch"}
	}
	return rbac.Decide(&role.Role, resource, action)
}

// InvalidateRole drops a cached role after it was edited or deleted.
func (a *Authorizer) InvalidateRole(roleID string) {
	a.roles.Remove(roleID)
}

// InvalidateUser drops a cached assignment after the user's role changed.
func (a *Authorizer) InvalidateUser(userID string) {
	a.users.Remove(userID)
}

// Purge empties both caches.
func (a *Authorizer) Purge() {
	a.users.Purge()
	a.roles.Purge()
}
