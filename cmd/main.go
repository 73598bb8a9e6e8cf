package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/config"
	"github.com/Dosada05/swiss-tournament/db"
	"github.com/Dosada05/swiss-tournament/handlers"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/routes"
	"github.com/Dosada05/swiss-tournament/services"
	"github.com/Dosada05/swiss-tournament/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	if err := run(cfg, logger); err != nil {
		logger.Error("application failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool := db.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: db.DefaultPoolConfig().ConnMaxLifetime,
	}

	// Две отдельные базы: форум и турнир
	forumDB, err := openDatabase(ctx, logger, cfg, "forum", cfg.ForumDatabaseURL, db.SchemaForum, pool)
	if err != nil {
		return err
	}
	defer closeDatabase(logger, "forum", forumDB)

	tournamentDB, err := openDatabase(ctx, logger, cfg, "tournament", cfg.TournamentDatabaseURL, db.SchemaTournament, pool)
	if err != nil {
		return err
	}
	defer closeDatabase(logger, "tournament", tournamentDB)

	var uploader storage.FileUploader
	if cfg.ExportEnabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Info("standings export disabled: R2 settings are incomplete")
	}

	wsHub := brackets.NewHub(logger)

	// Инициализация репозиториев
	postRepo := repositories.NewPostgresPostRepository(forumDB)
	playerRepo := repositories.NewPostgresPlayerRepository(tournamentDB)
	matchRepo := repositories.NewPostgresMatchRepository(tournamentDB)
	standingRepo := repositories.NewPostgresStandingRepository(tournamentDB)

	// Инициализация сервисов
	generator := brackets.NewSwissGenerator()
	postService := services.NewPostService(postRepo)
	tournamentService := services.NewTournamentService(playerRepo, matchRepo, standingRepo, generator, wsHub, logger)
	exportService := services.NewExportService(standingRepo, generator, uploader, logger)

	router := chi.NewRouter()
	routes.SetupRoutes(
		router,
		logger,
		cfg.CORSAllowedOrigins,
		handlers.NewPostHandler(postService),
		handlers.NewTournamentHandler(tournamentService, exportService),
		handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins),
		handlers.NewHealthHandler(map[string]handlers.Pinger{
			"forum":      forumDB,
			"tournament": tournamentDB,
		}, cfg.DBConnectTimeout),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return wsHub.Run(gCtx)
	})

	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return err
		}
		logger.Info("server shutdown complete")
		return nil
	})

	return g.Wait()
}

func openDatabase(ctx context.Context, logger *slog.Logger, cfg *config.Config, name, dsn, schema string, pool db.PoolConfig) (*sql.DB, error) {
	conn, err := db.Connect(dsn, cfg.DBConnectTimeout, pool)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", name, err)
	}
	logger.Info("database connection established", slog.String("database", name))

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, conn, schema); err != nil {
			closeDatabase(logger, name, conn)
			return nil, err
		}
		logger.Info("migrations applied", slog.String("database", name))
	}
	return conn, nil
}

func closeDatabase(logger *slog.Logger, name string, conn *sql.DB) {
	if err := conn.Close(); err != nil {
		logger.Error("failed to close database connection", slog.String("database", name), slog.Any("error", err))
		return
	}
	logger.Info("database connection closed", slog.String("database", name))
}
