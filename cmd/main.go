// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
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

	"github.com/luishrb/congress-portal/internal/auth"
	"github.com/luishrb/congress-portal/internal/config"
	"github.com/luishrb/congress-portal/internal/database"
	"github.com/luishrb/congress-portal/internal/handler"
	"github.com/luishrb/congress-portal/internal/repository"
	"github.com/luishrb/congress-portal/internal/service"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if err := run(log); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// ── 1. Connect to PostgreSQL ──────────────────────────────────────────
	pool, err := database.NewPool(ctx, cfg.DB, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	log.Info("connected to postgres", "host", cfg.DB.Host, "db", cfg.DB.Name)

	// ── 2. Wire up layers ────────────────────────────────────────────────
	minicourseRepo := repository.NewMinicourseRepository(pool)
	registrationRepo := repository.NewRegistrationRepository(pool, log)
	newsRepo := repository.NewNewsRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)
	subscriptionRepo := repository.NewSubscriptionRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	authSvc := service.NewAuthService(userRepo, tokens, log)
	if err := authSvc.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	svcs := handler.Services{
		Auth:          authSvc,
		Minicourses:   service.NewMinicourseService(minicourseRepo, registrationRepo),
		News:          service.NewNewsService(newsRepo),
		Schedule:      service.NewScheduleService(scheduleRepo),
		Subscriptions: service.NewSubscriptionService(subscriptionRepo),
	}

	// ── 3. Build the router ───────────────────────────────────────────────
	r := handler.NewRouter(svcs, log)

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-quit:
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
