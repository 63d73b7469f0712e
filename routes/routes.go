package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/casting-agency/app"
	"github.com/upb/casting-agency/handlers"
	"github.com/upb/casting-agency/middleware"
)

// Permissions required by the mutating routes
const (
	PermissionCreateActor = "create:actor"
	PermissionPatchActor  = "patch:actor"
	PermissionDeleteActor = "delete:actor"
	PermissionCreateMovie = "create:movie"
	PermissionPatchMovie  = "patch:movie"
	PermissionDeleteMovie = "delete:movie"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()
	cfg := deps.Config

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)
	if cfg.Server.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.Server.RequestTimeout))
	}
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/", handlers.Index)

	// Health check endpoints
	var db handlers.HealthChecker
	if deps.DB != nil {
		db = deps.DB
	}
	health := handlers.NewHealthHandler(db, deps.Logger)
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	authMW := deps.AuthMiddleware

	actors := handlers.NewActorHandler(deps.ActorService, deps.Logger)
	r.Route("/actors", func(r chi.Router) {
		r.Get("/", actors.HandleList)
		r.With(authMW.RequirePermission(PermissionCreateActor)).Post("/", actors.HandleCreate)
		r.With(authMW.RequirePermission(PermissionPatchActor)).Patch("/{id}", actors.HandleUpdate)
		r.With(authMW.RequirePermission(PermissionDeleteActor)).Delete("/{id}", actors.HandleDelete)
	})

	movies := handlers.NewMovieHandler(deps.MovieService, deps.Logger)
	r.Route("/movies", func(r chi.Router) {
		r.Get("/", movies.HandleList)
		r.With(authMW.RequirePermission(PermissionCreateMovie)).Post("/", movies.HandleCreate)
		r.With(authMW.RequirePermission(PermissionPatchMovie)).Patch("/{id}", movies.HandleUpdate)
		r.With(authMW.RequirePermission(PermissionDeleteMovie)).Delete("/{id}", movies.HandleDelete)
	})

	return r
}
