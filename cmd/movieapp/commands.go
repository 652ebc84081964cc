package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/movieapp/movie-api/internal/api"
	"github.com/movieapp/movie-api/internal/api/handler"
	"github.com/movieapp/movie-api/internal/core/ports"
	"github.com/movieapp/movie-api/internal/core/service"
	"github.com/movieapp/movie-api/internal/infrastructure/config"
	redisstore "github.com/movieapp/movie-api/internal/infrastructure/db/redis"
	"github.com/movieapp/movie-api/internal/infrastructure/db/sqlstore"
	"github.com/movieapp/movie-api/pkg/logger"
)

const (
	startupPingTimeout = 5 * time.Second
	shutdownTimeout    = 10 * time.Second
)

func migrateFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "migrate",
		Usage: "apply database migrations before serving (also AUTO_MIGRATE=true)",
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "movieapp",
		Usage:   "movie catalog API server",
		Version: version,
		Flags:   []cli.Flag{migrateFlag()},
		Action:  serveAction,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Flags:  []cli.Flag{migrateFlag()},
				Action: serveAction,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations",
				Action: migrateAction,
			},
			{
				Name:  "seed",
				Usage: "create the admin and test accounts and the sample catalog",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "prompt",
						Usage: "read the admin password from the terminal instead of ADMIN_PASSWORD",
					},
				},
				Action: seedAction,
			},
			{
				Name:  "version",
				Usage: "print the version",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprintln(c.App.Writer, c.App.Version)
					return err
				},
			},
		},
	}
}

func bootstrap(c *cli.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(c.Context)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("loading config: %w", err)
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "movieapp",
	})
	return cfg, log, nil
}

func openDB(cfg *config.Config) (*sqlstore.DB, error) {
	return sqlstore.Open(sqlstore.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: 5 * time.Minute,
	})
}

func serveAction(c *cli.Context) error {
	cfg, log, err := bootstrap(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, startupPingTimeout)
	err = db.PingContext(pingCtx)
	cancel()
	switch {
	case err != nil:
		log.Warn().Err(err).Str("driver", db.Driver()).Msg("database unreachable at startup, serving anyway")
	case c.Bool("migrate") || cfg.AutoMigrate:
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
		log.Info().Str("driver", db.Driver()).Msg("migrations applied")
	default:
		log.Info().Str("driver", db.Driver()).Msg("database connected")
	}

	readiness := map[string]handler.Pinger{"database": db.PingContext}

	var idem ports.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, Idempotency-Key replay disabled")
		} else {
			defer rdb.Close()
			idem = redisstore.NewIdempotencyStore(rdb)
			readiness["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		}
	}

	users := sqlstore.NewUserRepository(db)
	movies := sqlstore.NewMovieRepository(db)
	catalog := service.NewCatalogService(movies, idem, log)

	e := api.NewRouter(api.RouterConfig{
		AuthService: service.NewAuthService(users, service.AuthConfig{
			JWTSecret:  cfg.Auth.JWTSecret,
			TokenTTL:   cfg.Auth.TokenTTL,
			BcryptCost: cfg.Auth.BcryptCost,
		}, log),
		CatalogService: catalog,
		CatalogAdmin:   catalog,
		AdminService:   service.NewAdminService(users, movies),
		Logger:         log,
		StaticDir:      cfg.StaticDir,
		CORSOrigins:    cfg.CORSOrigins,
		Readiness:      readiness,
		StartedAt:      time.Now(),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

func migrateAction(c *cli.Context) error {
	cfg, log, err := bootstrap(c)
	if err != nil {
		return err
	}

	db, err := sqlstore.Connect(c.Context, sqlstore.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN(),
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(c.Context); err != nil {
		return fmt.Errorf("migrating: %w", err)
	}
	log.Info().Str("driver", db.Driver()).Msg("migrations applied")
	return nil
}

func seedAction(c *cli.Context) error {
	cfg, log, err := bootstrap(c)
	if err != nil {
		return err
	}

	password := cfg.AdminPassword
	if c.Bool("prompt") {
		if password, err = promptPassword(c); err != nil {
			return err
		}
	}

	db, err := sqlstore.Connect(c.Context, sqlstore.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN(),
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(c.Context); err != nil {
		return fmt.Errorf("migrating: %w", err)
	}

	seeder := service.NewSeedService(sqlstore.NewUserRepository(db), sqlstore.NewMovieRepository(db), log)
	res, err := seeder.Seed(c.Context, service.SeedOptions{
		AdminPassword: password,
		BcryptCost:    cfg.Auth.BcryptCost,
	})
	if err != nil {
		return fmt.Errorf("seeding: %w", err)
	}

	log.Info().
		Strs("users_created", res.UsersCreated).
		Strs("users_skipped", res.UsersSkipped).
		Int("movies_created", res.MoviesCreated).
		Msg("database seeded")
	return nil
}

func promptPassword(c *cli.Context) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("--prompt needs an interactive terminal")
	}

	fmt.Fprint(c.App.Writer, "Admin password: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(c.App.Writer)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	password := strings.TrimSpace(string(raw))
	if password == "" {
		return "", errors.New("admin password must not be empty")
	}
	return password, nil
}
