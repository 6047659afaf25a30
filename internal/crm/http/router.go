package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/crmgate/internal/crm/service"
	"github.com/aussiebroadwan/crmgate/internal/crm/store"
	"github.com/aussiebroadwan/crmgate/pkg/httpx"
	"github.com/aussiebroadwan/crmgate/pkg/jwtx"
	"github.com/aussiebroadwan/crmgate/pkg/rbac"
	"github.com/aussiebroadwan/crmgate/pkg/slogx"

	_ "github.com/aussiebroadwan/crmgate/api/crm" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	limits       httpx.RateLimitProfiles

	store            store.Store
	Authorizer       *service.Authorizer
	AuthService      *service.AuthService
	ProfileService   *service.ProfileService
	RolesService     *service.RolesService
	UsersService     *service.UsersService
	BootstrapService *service.BootstrapService
	MFAService       *service.MFAService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	limits httpx.RateLimitProfiles,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		limits:       limits,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerProfile()
	r.registerPermissions()
	r.registerRoles()
	r.registerUsers()
	r.registerMFA()
	r.registerSystem()
	r.registerBootstrap()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			crmgate API
//	@version		0.1.0
//	@description	Roles, users, sessions and profiles for the multi-tenant CRM dashboard.
//	@description
//	@description				Access tokens are EdDSA (Ed25519) JWTs and can be verified using the JWKS endpoint.
//	@description				Permissions are resolved from the caller's current role on every request.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/crmgate
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authed wraps h with token verification and a per-user rate limit.
func (r *Router) authed(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByUser(limit),
	)
}

// guarded is authed plus the permission guard for resource:action.
func (r *Router) guarded(h http.HandlerFunc, limit httpx.RateLimitConfig, resource string, action rbac.Action) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequirePermission(r.Authorizer, resource, action),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// POST /login - strict rate limit by IP + username to slow down brute force
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(r.limits.Strict, "username"),
		),
	)
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(r.limits.Moderate),
		),
	)
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(r.limits.Moderate),
		),
	)

	// GET /jwks.json - public endpoint with high limit
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{ProfileService: r.ProfileService}
	r.Mux.Handle("GET /v1/me", r.authed(h.ServeHTTP, r.limits.Lenient))
}

func (r *Router) registerPermissions() {
	h := &PermissionsHandler{Checker: r.Authorizer}
	r.Mux.Handle("GET /v1/permissions/matrix", r.authed(h.HandleMatrix, r.limits.Lenient))
	r.Mux.Handle("POST /v1/permissions/check", r.authed(h.HandleCheck, r.limits.Lenient))
}

func (r *Router) registerRoles() {
	h := &RolesHandler{RolesService: r.RolesService}

	r.Mux.Handle("GET /v1/roles",
		r.guarded(h.HandleList, r.limits.Lenient, rbac.ResourceRoles, rbac.ActionRead))
	r.Mux.Handle("GET /v1/roles/{id}",
		r.guarded(h.HandleGet, r.limits.Lenient, rbac.ResourceRoles, rbac.ActionRead))
	r.Mux.Handle("POST /v1/roles",
		r.guarded(h.HandleCreate, r.limits.Moderate, rbac.ResourceRoles, rbac.ActionCreate))
	r.Mux.Handle("PUT /v1/roles/{id}",
		r.guarded(h.HandleUpdate, r.limits.Moderate, rbac.ResourceRoles, rbac.ActionUpdate))
	r.Mux.Handle("POST /v1/roles/{id}/toggle",
		r.guarded(h.HandleToggle, r.limits.Moderate, rbac.ResourceRoles, rbac.ActionUpdate))
	r.Mux.Handle("DELETE /v1/roles/{id}",
		r.guarded(h.HandleDelete, r.limits.Moderate, rbac.ResourceRoles, rbac.ActionDelete))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UsersService: r.UsersService}

	r.Mux.Handle("GET /v1/users",
		r.guarded(h.HandleList, r.limits.Lenient, rbac.ResourceUsers, rbac.ActionRead))
	r.Mux.Handle("POST /v1/users",
		r.guarded(h.HandleCreate, r.limits.Moderate, rbac.ResourceUsers, rbac.ActionCreate))
	r.Mux.Handle("PUT /v1/users/{id}/role",
		r.guarded(h.HandleAssignRole, r.limits.Moderate, rbac.ResourceUsers, rbac.ActionUpdate))
}

func (r *Router) registerMFA() {
	h := &MFAHandler{MFAService: r.MFAService}

	r.Mux.Handle("POST /v1/mfa/totp/enroll", r.authed(h.HandleEnroll, r.limits.Moderate))
	// strict: prevent brute force of TOTP codes
	r.Mux.Handle("POST /v1/mfa/totp/verify", r.authed(h.HandleVerify, r.limits.Strict))
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	bootstrapHandler := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(bootstrapHandler,
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
}
