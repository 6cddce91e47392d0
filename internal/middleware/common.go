package middleware

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// Config customises the shared middleware pipeline.
type Config struct {
	Logger *zerolog.Logger
	// AllowOrigins overrides the CORS origin list; empty allows any origin,
	// which suits the classroom deployments this API ships to.
	AllowOrigins string
}

// Register attaches the common middlewares. Order matters: panics are
// recovered first, then every request gets a correlation id before the
// observability layer logs and measures it.
func Register(app *fiber.App, cfg Config) {
	requestLogger := zerolog.New(io.Discard)
	if cfg.Logger != nil {
		requestLogger = *cfg.Logger
	}

	origins := cfg.AllowOrigins
	if origins == "" {
		origins = "*"
	}

	app.Use(recover.New())
	app.Use(CorrelationID())
	app.Use(Observability(requestLogger))
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + HeaderCorrelationID,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
}
