package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/movieapp/movie-api/docs"
	"github.com/movieapp/movie-api/internal/api/handler"
	"github.com/movieapp/movie-api/internal/api/middleware"
	"github.com/movieapp/movie-api/internal/core/ports"
)

// RouterConfig carries everything NewRouter needs. Services are built by the
// caller so tests can hand in their own.
type RouterConfig struct {
	AuthService    ports.AuthService
	CatalogService ports.CatalogService
	CatalogAdmin   ports.CatalogAdminService
	AdminService   ports.AdminService
	Logger         zerolog.Logger

	StaticDir   string
	CORSOrigins []string

	// Readiness lists the dependencies pinged by /health/ready.
	Readiness map[string]handler.Pinger
	StartedAt time.Time
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	if cfg.StartedAt.IsZero() {
		cfg.StartedAt = time.Now()
	}
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// --- Global middleware ---
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Metrics())
	e.Use(middleware.RequestLogger(cfg.Logger))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			"Idempotency-Key",
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	movieHandler := handler.NewMovieHandler(cfg.CatalogService, cfg.CatalogAdmin)
	adminHandler := handler.NewAdminHandler(cfg.AdminService)
	spaHandler := handler.NewSPAHandler(cfg.StaticDir)
	requireAuth := middleware.RequireAuth(cfg.AuthService)

	// --- Health checks and ops (no auth required) ---
	e.GET("/health", handler.NewHealthHandler(cfg.StartedAt).Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(cfg.Readiness).Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, requireAuth)

	// --- Public catalog ---
	e.GET("/api/movies", movieHandler.List)
	e.GET("/api/movies/:id", movieHandler.Get)

	// --- Admin ---
	admin := e.Group("/api/admin", requireAuth, middleware.RequireAdmin())
	admin.GET("/movies", movieHandler.ListAll)
	admin.POST("/movies", movieHandler.Create)
	admin.PUT("/movies/:id", movieHandler.Update)
	admin.DELETE("/movies/:id", movieHandler.Delete)
	admin.GET("/users", adminHandler.Users)
	admin.GET("/stats", adminHandler.Stats)

	// --- Browser client and fallbacks ---
	e.Any("/api/*", spaHandler.Serve)
	e.GET("/*", spaHandler.Serve)

	return e
}
