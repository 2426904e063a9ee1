package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tasktrack/internal/api/http/handlers"
	"github.com/spec-kit/tasktrack/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Comments       *handlers.CommentsHandler
	Followers      *handlers.FollowersHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	api.Post("/login", cfg.Auth.Login)
	api.Get("/users", cfg.Users.List)

	api.Get("/todos/:userId", cfg.Tickets.ListForUser)
	api.Post("/todos", cfg.Tickets.Create)
	// reassign before :id so the literal segment wins
	api.Put("/todos/reassign/:id", cfg.Tickets.Reassign)
	api.Put("/todos/:id", cfg.Tickets.UpdateStatus)
	api.Get("/history/:ticketId", cfg.Tickets.History)

	api.Get("/comments/:ticketId", cfg.Comments.List)
	api.Post("/comments", cfg.Comments.Add)

	api.Post("/tickets/followers", cfg.Followers.Add)
	api.Get("/tickets/:id/followers", cfg.Followers.List)
}
