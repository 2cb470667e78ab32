package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/classwork-go-api/internal/config"
	"github.com/noah-isme/classwork-go-api/internal/handler"
	"github.com/noah-isme/classwork-go-api/internal/middleware"
	"github.com/noah-isme/classwork-go-api/internal/models"
	"github.com/noah-isme/classwork-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AssignmentHandler *handler.AssignmentHandler
	SubmissionHandler *handler.SubmissionHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Teacher-side assignment management
	if deps.AssignmentHandler != nil {
		assignments := api.Group("/assignments", jwtMiddleware, middleware.RequireRole(models.RoleTeacher))
		deps.AssignmentHandler.Register(assignments)
	}

	// Student-side browsing and submissions
	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware, middleware.RequireRole(models.RoleStudent))
		deps.SubmissionHandler.Register(submissions)
	}
}
