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

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/todochat/todochat/internal/auth"
	"github.com/todochat/todochat/internal/classifier"
	"github.com/todochat/todochat/internal/config"
	todohttp "github.com/todochat/todochat/internal/http"
	"github.com/todochat/todochat/internal/middleware"
	"github.com/todochat/todochat/internal/model"
	"github.com/todochat/todochat/internal/repository"
	"github.com/todochat/todochat/internal/service"
)

// userResolverAdapter adapts a user repository to the middleware.UserResolver interface.
type userResolverAdapter struct {
	repo interface {
		GetByEmail(ctx context.Context, email string) (model.User, error)
	}
}

func (a *userResolverAdapter) ResolveUserID(ctx context.Context, email string) (int64, error) {
	user, err := a.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, middleware.ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to resolve user: %w", err)
	}
	return user.ID, nil
}

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"auth_dev_mode", cfg.AuthDevMode,
		"log_level", cfg.LogLevel,
	)

	// Database connection + schema bootstrap
	db, err := repository.NewDB(cfg.DB.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database connected")

	if err := repository.Migrate(ctx, db); err != nil {
		return err
	}

	// Repositories
	todoRepo := repository.NewPostgresTodo(db)
	userRepo := repository.NewPostgresUser(db)
	chatRepo := repository.NewPostgresChatMessage(db)
	revokedRepo := repository.NewPostgresRevokedToken(db)

	// Fallback classifier
	gemini, err := classifier.NewGeminiGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return err
	}
	fallback := classifier.NewFallback(gemini, logger)
	logger.Info("gemini classifier initialized", "model", cfg.Gemini.Model)

	// Services
	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.ExpireMinutes)
	todoSvc := service.NewTodoService(todoRepo)
	authSvc := service.NewAuthService(userRepo, revokedRepo, tokens)
	chatSvc := service.NewChatService(todoRepo, chatRepo, fallback, logger)

	// Auth middleware
	authCfg := middleware.AuthConfig{
		DevMode: cfg.AuthDevMode,
	}
	if !cfg.AuthDevMode {
		authCfg.Verifier = tokens
		authCfg.Revocations = revokedRepo
		authCfg.UserResolver = &userResolverAdapter{repo: userRepo}
	}
	authMw, err := middleware.NewAuth(authCfg)
	if err != nil {
		return fmt.Errorf("failed to create auth middleware: %w", err)
	}

	// HTTP Server
	srv := todohttp.NewServer(cfg.ServerPort, logger, todoSvc, authSvc, chatSvc, authMw)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	logger.Info("server starting", "port", cfg.ServerPort)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}
