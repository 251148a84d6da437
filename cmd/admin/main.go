package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/staff-directory/internal/api/http"
	"github.com/spec-kit/staff-directory/internal/api/http/handlers"
	"github.com/spec-kit/staff-directory/internal/client"
	"github.com/spec-kit/staff-directory/internal/config"
	"github.com/spec-kit/staff-directory/internal/observability"
	"github.com/spec-kit/staff-directory/internal/panel"
	"github.com/spec-kit/staff-directory/internal/persistence"
	"github.com/spec-kit/staff-directory/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck
	logger = logger.Named("admin-panel")

	redis := persistence.NewRedis(context.Background(), cfg.Redis, logger)
	defer redis.Close()

	sessions := session.NewReader(
		redis.Sessions(cfg.Session),
		session.NewTokenCodec(cfg.Session.JWTSecret, cfg.Session.TTL()),
	)
	staffClient := client.New(cfg.Upstream, logger)
	registry := panel.NewRegistry(staffClient, logger)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: "admin-panel"})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterPanelRoutes(app, httptransport.PanelRouteConfig{
		Health: handlers.NewHealthHandler("admin-panel", cfg.App.Version, map[string]handlers.Pinger{"redis": redis}, metrics),
		Panel:  handlers.NewPanelHandler(registry, sessions, cfg.Session, logger),

		IssueSessions: cfg.Session.IssueEnabled,
	})
	if cfg.Session.IssueEnabled {
		logger.Warn("session issuing endpoint enabled", zap.String("route", "POST /admin/sessions"))
	}

	go func() {
		if err := app.Listen(cfg.Panel.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
