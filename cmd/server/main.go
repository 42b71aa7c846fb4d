package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paper-chat/backend/internal/config"
	delivery "github.com/paper-chat/backend/internal/delivery/http"
	"github.com/paper-chat/backend/internal/domain"
	filerepo "github.com/paper-chat/backend/internal/repository/file"
	"github.com/paper-chat/backend/internal/repository/postgres"
	"github.com/paper-chat/backend/internal/usecase"
	"github.com/paper-chat/backend/pkg/aichat"
	"github.com/paper-chat/backend/pkg/arxiv"
	"github.com/paper-chat/backend/pkg/pdftext"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger.Info("paper chat backend starting")

	cfg := config.Load()
	logger.Info("server configured", "port", cfg.Server.Port)

	repo, cleanup, err := newPaperRepository(cfg, logger)
	if err != nil {
		logger.Error("storage init failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	arxivClient := arxiv.NewClient()
	extractor := pdftext.NewExtractor()
	aiClient := aichat.NewClient(cfg.AI.Endpoint, cfg.AI.Model, cfg.AI.APIKey)

	paperUsecase := usecase.NewPaperUsecase(repo, arxivClient, extractor, logger)
	chatUsecase := usecase.NewChatUsecase(repo, aiClient, logger)

	handler := delivery.NewHandler(paperUsecase, chatUsecase, logger)
	router := delivery.NewRouter(handler, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println()
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// newPaperRepository picks the storage backend: Postgres when DATABASE_URL
// is set, the JSON file store otherwise.
func newPaperRepository(cfg *config.Config, logger *slog.Logger) (domain.PaperRepository, func(), error) {
	if cfg.Storage.DatabaseURL == "" {
		logger.Info("using file paper store", "dir", cfg.Storage.Dir)
		return filerepo.NewPaperRepository(cfg.Storage.Dir), func() {}, nil
	}

	var pool *pgxpool.Pool
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		var err error
		pool, err = pgxpool.New(ctx, cfg.Storage.DatabaseURL)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				cancel()
				break
			} else {
				pool.Close()
				err = pingErr
			}
		}
		cancel()
		logger.Warn("database connection failed", "attempt", attempt, "error", err)
		if attempt == 5 {
			return nil, nil, fmt.Errorf("could not connect to database after %d attempts: %w", attempt, err)
		}
		time.Sleep(time.Duration(attempt) * 2 * time.Second)
	}

	repo := postgres.NewPaperRepository(pool)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info("using postgres paper store")
	return repo, pool.Close, nil
}
