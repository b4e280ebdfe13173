package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/docuport/console-gateway/internal/api/http"
	"github.com/docuport/console-gateway/internal/api/http/handlers"
	"github.com/docuport/console-gateway/internal/audit"
	"github.com/docuport/console-gateway/internal/auth"
	"github.com/docuport/console-gateway/internal/config"
	"github.com/docuport/console-gateway/internal/events"
	"github.com/docuport/console-gateway/internal/observability"
	"github.com/docuport/console-gateway/internal/persistence"
	"github.com/docuport/console-gateway/internal/resources"
	"github.com/docuport/console-gateway/internal/session"
	"github.com/docuport/console-gateway/internal/tokenstore"
	"github.com/docuport/console-gateway/internal/upstream"
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

	metrics := observability.NewMetrics()
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				logger.Error("metrics listener", zap.Error(err))
			}
		}()
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	audit.NewRecorder(dispatcher, logger).RegisterHandlers()

	store := tokenstore.NewRedisStore(redis.Client, cfg.Session.StoreTTL())
	platform := upstream.New(cfg.Upstream, logger, metrics)
	sessions := session.NewManager(store, platform, logger).WithEvents(dispatcher)
	tokens := auth.NewTokenManager(cfg.Session.JWTSecret, cfg.Session.TokenTTL())
	authMiddleware := auth.NewMiddleware(tokens, sessions)
	router := resources.NewRouter(platform, sessions, logger)

	app := fiber.New(fiber.Config{BodyLimit: 64 << 20})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redis),
		Session:     handlers.NewSessionHandler(sessions, tokens, authMiddleware),
		Invitations: handlers.NewInvitationsHandler(platform, sessions, tokens),
		Documents:   handlers.NewDocumentsHandler(router),
		Chat:        handlers.NewChatHandler(router),
		Auth:        authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
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
