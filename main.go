// Command movai runs the MovAI backend: account signup and login, per-user
// watchlists, and optional catalog and chat proxies.
//
// @title MovAI API
// @version 1.0
// @description Accounts, watchlists, movie browsing and the chat assistant for the MovAI app.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/ryantanww/MovAI/auth"
	"github.com/ryantanww/MovAI/background"
	"github.com/ryantanww/MovAI/catalog"
	"github.com/ryantanww/MovAI/chat"
	"github.com/ryantanww/MovAI/config"
	"github.com/ryantanww/MovAI/db"
	"github.com/ryantanww/MovAI/logging"
	"github.com/ryantanww/MovAI/server"
	"github.com/ryantanww/MovAI/store"
	"github.com/ryantanww/MovAI/users"
	"github.com/ryantanww/MovAI/watchlist"
)

const shutdownTimeout = 30 * time.Second

func main() {
	app := &cli.App{
		Name:  "movai",
		Usage: "MovAI backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file loaded before reading the environment; a missing file is ignored",
			},
		},
		Before: loadEnvFile,
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "apply migrations and start the HTTP API",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "manage the database schema",
				Subcommands: []*cli.Command{
					{Name: "up", Usage: "apply all pending migrations", Action: migrateUp},
					{Name: "down", Usage: "roll back the last migration", Action: migrateDown},
					{Name: "version", Usage: "print the current schema version", Action: migrateVersion},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadEnvFile(c *cli.Context) error {
	path := c.String("env-file")
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// bootstrap loads config, builds the logger and opens the database.
func bootstrap(ctx context.Context) (*config.AppConfig, *logging.SlogLogger, *sqlx.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	conn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, conn, nil
}

func serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, conn, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.RunMigrations(conn, cfg.Database); err != nil {
		return err
	}
	logger.Info(ctx, "database ready", "driver", cfg.Database.Driver)

	hasher, err := background.NewHasher(cfg.Auth.HashWorkers, cfg.Auth.BcryptCost, logger)
	if err != nil {
		return err
	}
	defer hasher.Stop()

	st := store.NewSQLStore(conn)
	deps := server.Deps{
		Server:    cfg.Server,
		Logger:    logger,
		Store:     st,
		Auth:      auth.NewAuthService(st, hasher, cfg.Auth, logger),
		Users:     users.NewUserService(st),
		Watchlist: watchlist.NewWatchlistService(st, logger),
	}

	movies := catalog.NewClient(cfg.Catalog, logger)
	if cfg.Catalog.APIKey != "" {
		deps.Catalog = movies
	} else {
		logger.Warn(ctx, "TMDB_API_KEY not set, /api/movies disabled")
	}
	if cfg.Chat.APIKey != "" {
		if cfg.Catalog.APIKey == "" {
			logger.Warn(ctx, "chat enabled without TMDB_API_KEY, recommendations will be empty")
		}
		deps.Chat = chat.NewChatService(chat.NewWitClient(cfg.Chat), movies, logger)
	} else {
		logger.Warn(ctx, "WIT_API_KEY not set, /api/chat disabled")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(gctx, "server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(context.Background(), "server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info(context.Background(), "server stopped gracefully")
	return nil
}

func migrateUp(c *cli.Context) error {
	cfg, logger, conn, err := bootstrap(c.Context)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := db.RunMigrations(conn, cfg.Database); err != nil {
		return err
	}
	logger.Info(c.Context, "migrations applied")
	return nil
}

func migrateDown(c *cli.Context) error {
	cfg, logger, conn, err := bootstrap(c.Context)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := db.RollbackMigrations(conn, cfg.Database); err != nil {
		return err
	}
	logger.Info(c.Context, "last migration rolled back")
	return nil
}

func migrateVersion(c *cli.Context) error {
	cfg, _, conn, err := bootstrap(c.Context)
	if err != nil {
		return err
	}
	defer conn.Close()
	version, dirty, ok, err := db.MigrationVersion(conn, cfg.Database)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(c.App.Writer, "no migrations applied")
		return nil
	}
	fmt.Fprintf(c.App.Writer, "version %d (dirty: %t)\n", version, dirty)
	return nil
}
