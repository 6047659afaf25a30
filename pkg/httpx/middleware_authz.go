package httpx

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/crmgate/pkg/rbac"
	"github.com/aussiebroadwan/crmgate/pkg/slogx"
)

// PermissionChecker decides whether the principal may act on a resource.
// Implementations must fail closed: any lookup failure is a deny.
type PermissionChecker interface {
	Decide(ctx context.Context, p Principal, resource string, action rbac.Action) rbac.Decision
}

// RequirePermission is the server side route guard. It must run after
// AuthnMiddleware: a request without a principal gets 401, a denied one 403.
func RequirePermission(c PermissionChecker, resource string, action rbac.Action) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			p, ok := PrincipalFromContext(ctx)
			if !ok {
				writeBearerError(w, "authentication required")
				return
			}

			d := c.Decide(ctx, p, resource, action)
			if !d.Allowed {
				slogx.FromContext(ctx).Warn("permission denied",
					"resource", resource,
					"action", string(action),
					"reason", d.Reason,
				)
				WriteError(w, http.StatusForbidden, "forbidden",
					"missing permission "+resource+":"+string(action))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
