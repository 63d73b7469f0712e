package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/upb/casting-agency/auth"
	"github.com/upb/casting-agency/config"
	"github.com/upb/casting-agency/internal/observability"
	"github.com/upb/casting-agency/middleware"
	"github.com/upb/casting-agency/repositories"
	"github.com/upb/casting-agency/repositories/sqlstore"
	"github.com/upb/casting-agency/services"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *sqlstore.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *sqlstore.RepositoryFactory

	// Repositories
	Actors    repositories.ActorRepository
	Movies    repositories.MovieRepository
	TxManager repositories.TransactionManager

	// Services
	ActorService *services.ActorService
	MovieService *services.MovieService

	// Auth
	AuthMiddleware *middleware.AuthMiddleware

	// Metrics is nil when metrics are disabled
	Metrics *observability.HTTPMetrics
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initRepositories()
	deps.initServices()
	deps.initAuth(cfg)

	if cfg.Observability.MetricsEnabled {
		deps.Metrics = observability.NewHTTPMetrics()
		if err := deps.Metrics.RegisterDB(deps.DB.DB, "casting"); err != nil {
			_ = deps.RepoFactory.Close()
			return nil, fmt.Errorf("failed to register database metrics: %w", err)
		}
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase opens the store and creates the schema
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := sqlstore.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	if err := factory.InitSchema(ctx); err != nil {
		_ = factory.Close()
		return err
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()
	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Actors = repos.Actors
	d.Movies = repos.Movies
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initServices() {
	d.ActorService = services.NewActorService(d.Actors, d.TxManager, d.Logger)
	d.MovieService = services.NewMovieService(d.Movies, d.TxManager, d.Logger)
}

func (d *Dependencies) initAuth(cfg *config.Config) {
	if !cfg.Auth.AuthEnabled() {
		d.Logger.Warn("identity provider not configured, protected routes will reject every token")
		d.AuthMiddleware = middleware.NewAuthMiddleware(RejectAllValidator{}, d.Logger)
		return
	}

	validator := auth.NewValidator(auth.Config{
		JWKSURL:         cfg.Auth.KeySetURL(),
		Issuer:          cfg.Auth.Issuer(),
		Audience:        cfg.Auth.Audience,
		Algorithms:      cfg.Auth.Algorithms,
		CacheTTL:        cfg.Auth.CacheTTL,
		RefreshCooldown: cfg.Auth.RefreshCooldown,
		HTTPTimeout:     cfg.Auth.HTTPTimeout,
	})
	d.AuthMiddleware = middleware.NewAuthMiddleware(validator, d.Logger)
	d.Logger.Info("token validator initialized",
		zap.String("jwks_url", cfg.Auth.KeySetURL()),
		zap.String("audience", cfg.Auth.Audience))
}

// RejectAllValidator rejects all tokens (used when the identity provider is not configured)
type RejectAllValidator struct{}

// ValidateToken implements middleware.TokenValidator
func (RejectAllValidator) ValidateToken(context.Context, string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}

// Close gracefully shuts down all dependencies. It is safe to call twice.
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
		d.RepoFactory = nil
	}

	_ = d.Logger.Sync()

	return errors.Join(errs...)
}
