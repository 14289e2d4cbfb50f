package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"newsreel/internal/config"
	pgRepo "newsreel/internal/infra/adapter/persistence/postgres"
	sqliteRepo "newsreel/internal/infra/adapter/persistence/sqlite"
	"newsreel/internal/infra/db"
	"newsreel/internal/observability/logging"
	"newsreel/internal/observability/tracing"
	"newsreel/internal/repository"
	jobUC "newsreel/internal/usecase/job"

	hhttp "newsreel/internal/handler/http"
	hjob "newsreel/internal/handler/http/job"
	"newsreel/internal/handler/http/requestid"
)

func main() {
	_ = godotenv.Load()

	logger := initLogger()
	database, jobRepo := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := getVersion()

	shutdownTracing, err := tracing.Setup("newsreel-api", version)
	if err != nil {
		logger.Error("failed to set up tracing", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Error("failed to shut down tracing", slog.Any("error", err))
		}
	}()

	handler := setupServer(logger, database, jobRepo, version)

	runServer(logger, handler, version)
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the job store and runs migrations. DATABASE_URL
// selects PostgreSQL; without it the server falls back to the local
// SQLite file shared with the pipeline.
func initDatabase(logger *slog.Logger) (*sql.DB, repository.JobRepository) {
	if os.Getenv("DATABASE_URL") != "" {
		database := db.Open()
		if err := db.MigrateUp(database); err != nil {
			logger.Error("failed to migrate database", slog.Any("error", err))
			os.Exit(1)
		}
		return database, pgRepo.NewJobRepo(database)
	}

	cfg, err := config.LoadPipelineConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	database, err := db.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		logger.Error("failed to open sqlite database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUpSQLite(database); err != nil {
		logger.Error("failed to migrate sqlite database", slog.Any("error", err))
		os.Exit(1)
	}
	return database, sqliteRepo.NewJobRepo(database)
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer configures the HTTP handler with all routes and middleware.
func setupServer(logger *slog.Logger, database *sql.DB, jobRepo repository.JobRepository, version string) http.Handler {
	jobSvc := jobUC.NewService(jobRepo, logger)

	mux := http.NewServeMux()
	hjob.Register(mux, jobSvc)

	mux.Handle("/health", &hhttp.HealthHandler{DB: database, Version: version})
	mux.Handle("/ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("/live", &hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler())

	return applyMiddleware(logger, mux)
}

// applyMiddleware wraps the handler with the middleware chain, applied in
// reverse order so the first listed runs outermost.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	chain := handler
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain)
	chain = hhttp.Timeout(30 * time.Second)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = requestid.Middleware(chain)
	chain = tracing.Middleware(chain)
	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
