package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticketdesk/internal/api/http/handlers"
	"github.com/spec-kit/ticketdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Auth           *handlers.AuthHandler
	Clients        *handlers.ClientsHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
	// ProtectResources gates every resource route, not just user update and current-user.
	ProtectResources bool
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	requireAuth := cfg.AuthMiddleware.Handle
	optionalAuth := cfg.AuthMiddleware.Protect(cfg.ProtectResources)

	app.Post("/login", cfg.Auth.Login)
	app.Post("/verify-token", cfg.Auth.VerifyToken)
	app.Get("/current-user", requireAuth, cfg.Users.Current)

	users := app.Group("/users")
	users.Post("/", cfg.Users.Register)
	users.Get("/", optionalAuth, cfg.Users.List)
	users.Get("/:id", optionalAuth, cfg.Users.Get)
	users.Put("/:id", requireAuth, cfg.Users.Update)
	users.Delete("/:id", optionalAuth, cfg.Users.Delete)

	clients := app.Group("/clients", optionalAuth)
	clients.Post("/", cfg.Clients.Create)
	clients.Get("/", cfg.Clients.List)
	clients.Get("/:id", cfg.Clients.Get)
	clients.Put("/:id", cfg.Clients.Replace)
	clients.Delete("/:id", cfg.Clients.Delete)

	tickets := app.Group("/tickets", optionalAuth)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
}
