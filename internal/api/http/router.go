package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/docuport/console-gateway/internal/api/http/handlers"
	"github.com/docuport/console-gateway/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Session     *handlers.SessionHandler
	Invitations *handlers.InvitationsHandler
	Documents   *handlers.DocumentsHandler
	Chat        *handlers.ChatHandler
	Auth        *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	sessionGroup := app.Group("/session")
	sessionGroup.Post("/login", cfg.Session.Login)
	sessionGroup.Post("/system-login", cfg.Session.SystemLogin)
	sessionGroup.Post("/register", cfg.Session.Register)
	sessionGroup.Post("/logout", cfg.Session.Logout)
	sessionGroup.Get("", cfg.Auth.Handle, cfg.Session.Current)
	sessionGroup.Post("/can-manage", cfg.Auth.Handle, cfg.Session.CanManage)

	invitations := app.Group("/invitations")
	invitations.Get("/:uniqueId", cfg.Invitations.Verify)
	invitations.Post("/:uniqueId/consume", cfg.Invitations.Consume)

	protected := app.Group("", cfg.Auth.Handle)
	protected.Get("/documents", cfg.Documents.List)
	protected.Post("/documents", cfg.Documents.Upload)
	protected.Get("/folders", cfg.Documents.Folders)
	protected.Post("/chat/messages", cfg.Chat.Send)
	protected.Get("/chat/history", cfg.Chat.History)
}
