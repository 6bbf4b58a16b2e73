package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"mesto/docs"
	"mesto/internal/auth"
	"mesto/internal/cache"
	"mesto/internal/config"
	"mesto/internal/db"
	"mesto/internal/handler"
	"mesto/internal/logger"
	"mesto/internal/ratelimit"
	"mesto/internal/repository"
	"mesto/internal/router"
	"mesto/internal/service"
	"mesto/internal/validation"
)

//go:generate swag init --dir ../.. --generalInfo cmd/server/main.go --output ../../docs --outputTypes go

const (
	shutdownTimeout  = 10 * time.Second
	redisPingTimeout = 2 * time.Second
)

// @title Mesto API
// @version 1.0
// @description Photo sharing backend: users, profiles, cards and likes with JWT authentication.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()

	var limiterStore middleware.RateLimiterStore
	pingCtx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	if err := cacheClient.Ping(pingCtx); err != nil {
		log.Warn("redis unavailable, using in-memory rate limiter", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		limiterStore = ratelimit.NewMemoryStore(cfg.RateLimitMax, cfg.RateLimitWindow)
	} else {
		limiterStore = ratelimit.NewRedisStore(cacheClient, cfg.RateLimitMax, cfg.RateLimitWindow, log)
	}
	cancel()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	cardRepo := repository.NewCardRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	validate := validation.New()
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, validate)
	userService := service.NewUserService(userRepo, cacheClient, validate)
	cardService := service.NewCardService(cardRepo, validate)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	router.Register(
		e,
		cfg,
		log,
		limiterStore,
		authService,
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		handler.NewCardHandler(cardService),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		addr := ":" + cfg.ServerPort
		log.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Environment))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
