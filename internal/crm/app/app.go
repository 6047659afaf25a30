package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/crmgate/internal/crm/http"
	"github.com/aussiebroadwan/crmgate/internal/crm/service"
	"github.com/aussiebroadwan/crmgate/internal/crm/store"
	"github.com/aussiebroadwan/crmgate/internal/crm/store/drivers/sqlite"
	"github.com/aussiebroadwan/crmgate/pkg/cryptox"
	"github.com/aussiebroadwan/crmgate/pkg/jwtx"
	"github.com/aussiebroadwan/crmgate/pkg/slogx"
)

// BuildVersion is overridden with -ldflags "-X .../app.BuildVersion=...".
var BuildVersion = "v0.1.0"

const tokenLeeway = 30 * time.Second

// Application owns every long lived resource of the crmgate server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	hasher   *cryptox.PasswordHasher
	signer   *jwtx.Signer
	keys     *jwtx.KeySet
	verifier jwtx.Verifier

	authorizer   *service.Authorizer
	housekeeping *service.HousekeepingService

	router *httpapi.Router
	server *http.Server
}

// New opens the database, loads key material and assembles the handler
// tree. Nothing listens until Run.
func New(cfg Config) (*Application, error) {
	a := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "crmgate",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := a.openStore(); err != nil {
		return nil, err
	}
	if err := a.loadKeys(); err != nil {
		_ = a.db.Close()
		return nil, err
	}
	a.assemble()
	return a, nil
}

// Handler is the root handler, for serving without Run.
func (a *Application) Handler() http.Handler { return a.router }

// Close releases the database. Pair it with Handler when Run is not used.
func (a *Application) Close() error { return a.db.Close() }

// Run serves HTTP until SIGINT or SIGTERM and then shuts down gracefully.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.housekeeping.Start()

	failed := make(chan error, 1)
	go func() {
		a.logger.Info("listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
		close(failed)
	}()

	select {
	case err := <-failed:
		if err != nil {
			a.housekeeping.Stop()
			_ = a.db.Close()
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		a.logger.Info("signal received, shutting down")
	}
	return a.Shutdown()
}

// Shutdown drains in-flight requests within the grace period, stops the
// sweeper and closes the database.
func (a *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownGracePeriod)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Warn("drain timed out, closing connections", slog.Any("error", err))
		errs = append(errs, a.server.Close())
	}
	a.housekeeping.Stop()
	errs = append(errs, a.db.Close())

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.logger.Info("stopped")
	return nil
}

func (a *Application) openStore() error {
	dsn := a.cfg.DatabaseFile
	if dsn != ":memory:" {
		dsn = "file:" + dsn + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("migrate database: %w", err)
	}
	a.db = db
	a.logger.Info("database ready", slog.String("file", a.cfg.DatabaseFile))
	return nil
}

// loadKeys reads the password pepper and the Ed25519 signing key, creating
// both on first start.
func (a *Application) loadKeys() error {
	pepper, err := cryptox.LoadOrCreatePepper(a.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("pepper: %w", err)
	}
	a.hasher = cryptox.NewPasswordHasher(pepper)

	priv, err := cryptox.LoadOrCreateEd25519Key(a.cfg.SigningKeyFile)
	if err != nil {
		return fmt.Errorf("signing key: %w", err)
	}
	if a.signer, err = jwtx.NewSigner(priv); err != nil {
		return fmt.Errorf("signer: %w", err)
	}

	a.keys = jwtx.NewKeySet()
	if err := a.keys.Add(a.signer.PublicJWK()); err != nil {
		return fmt.Errorf("publish key: %w", err)
	}
	a.verifier = jwtx.NewVerifier(a.keys, jwtx.VerifyOptions{
		Issuer:   a.cfg.Issuer,
		Audience: a.cfg.Audience,
		Leeway:   tokenLeeway,
	})

	a.logger.Info("signing key loaded",
		slog.String("kid", a.signer.KID()),
		slog.String("alg", a.signer.Alg()),
	)
	return nil
}

// assemble builds the services and hands them to the router.
func (a *Application) assemble() {
	a.authorizer = service.NewAuthorizer(a.db, a.cfg.RoleCacheSize, a.cfg.RoleCacheTTL)
	a.housekeeping = service.NewHousekeepingService(a.db, a.logger, a.cfg.HousekeepingInterval)

	r := httpapi.NewRouter(a.keys, a.verifier, BuildVersion, a.db, a.logger, a.cfg.RateLimits)
	r.Authorizer = a.authorizer
	r.AuthService = &service.AuthService{
		Store:      a.db,
		Hasher:     a.hasher,
		Signer:     a.signer,
		Issuer:     a.cfg.Issuer,
		Audience:   a.cfg.Audience,
		AccessTTL:  a.cfg.AccessTokenTTL,
		RefreshTTL: a.cfg.RefreshTokenTTL,
	}
	r.ProfileService = &service.ProfileService{Store: a.db}
	r.RolesService = &service.RolesService{Store: a.db, Authz: a.authorizer}
	r.UsersService = &service.UsersService{Store: a.db, Hasher: a.hasher, Authz: a.authorizer}
	r.BootstrapService = &service.BootstrapService{Store: a.db, Hasher: a.hasher, Token: a.cfg.BootstrapToken}
	r.MFAService = &service.MFAService{Store: a.db, Issuer: a.cfg.Issuer}
	r.ApplyRoutes()
	a.router = r

	a.server = &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(a.cfg.Port)),
		Handler:           r,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
