package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/advisio/advisio-api/internal/config"
	"github.com/advisio/advisio-api/internal/handler"
	"github.com/advisio/advisio-api/internal/middleware"
	"github.com/advisio/advisio-api/internal/models"
	"github.com/advisio/advisio-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	InsightsHandler   *handler.InsightsHandler
	GroupHandler      *handler.GroupHandler
	GradingHandler    *handler.GradingHandler
	SubmissionHandler *handler.SubmissionHandler
	TaskHandler       *handler.TaskHandler
	AssignmentHandler *handler.AssignmentHandler
	StudentHandler    *handler.StudentHandler
	ActivityHandler   *handler.ActivityHandler
	JWTMiddleware     fiber.Handler
	GradingRateLimit  int
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Everything below the health check requires an authenticated teacher.
	teacher := api.Group("", jwtMiddleware, middleware.RequireRole(models.RoleTeacher, "admin"))

	if deps.InsightsHandler != nil {
		deps.InsightsHandler.Register(teacher.Group("/insights"))
	}

	if deps.GroupHandler != nil {
		deps.GroupHandler.Register(teacher.Group("/groups"))
		deps.GroupHandler.RegisterClassRoutes(teacher.Group("/classes"))
	}

	if deps.GradingHandler != nil {
		limit := deps.GradingRateLimit
		if limit <= 0 {
			limit = 10
		}
		grading := teacher.Group("/grade", middleware.RateLimit("grading", limit, time.Minute))
		deps.GradingHandler.Register(grading)
	}

	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(teacher.Group("/submissions"))
	}

	if deps.TaskHandler != nil {
		deps.TaskHandler.Register(teacher.Group("/tasks"))
	}

	if deps.AssignmentHandler != nil {
		deps.AssignmentHandler.Register(teacher.Group("/assignments"))
	}

	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(teacher.Group("/students"))
	}

	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(teacher.Group("/activity"))
	}
}
