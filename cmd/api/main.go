package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/advisio/advisio-api/internal/config"
	"github.com/advisio/advisio-api/internal/database"
	"github.com/advisio/advisio-api/internal/handler"
	"github.com/advisio/advisio-api/internal/middleware"
	"github.com/advisio/advisio-api/internal/models"
	"github.com/advisio/advisio-api/internal/repository"
	"github.com/advisio/advisio-api/internal/router"
	"github.com/advisio/advisio-api/internal/service"
	"github.com/advisio/advisio-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Student{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.Submission{},
		&models.StudentGroup{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL, logger)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	grader, err := buildGrader(cfg, logger)
	if err != nil {
		log.Fatalf("failed to create AI grader: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	events := service.NewNatsEventPublisher(natsConn, "advisio", logger)

	activityService := service.NewActivityService(activityRepo, logger)
	groupService := service.NewGroupService(groupRepo, studentRepo, submissionRepo, assignmentRepo, validate, activityService, events, logger)
	insightsService := service.NewInsightsService(submissionRepo, assignmentRepo, redisClient, cfg.InsightsCacheTTL, service.InsightsConfig{
		RecentLimit:        cfg.InsightsRecentMax,
		DimensionThreshold: float64(cfg.DimensionThreshold),
	}, logger)
	gradingService := service.NewGradingService(taskRepo, studentRepo, groupRepo, submissionRepo, assignmentRepo, grader, validate, activityService, events, logger)
	taskService := service.NewTaskService(taskRepo, validate, activityService, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, taskRepo, groupRepo, submissionRepo, validate, activityService, logger)
	submissionService := service.NewSubmissionService(submissionRepo, taskRepo, logger)
	studentService := service.NewStudentService(studentRepo, activityService, logger)

	insightsHandler := handler.NewInsightsHandler(insightsService, logger)
	groupHandler := handler.NewGroupHandler(groupService, logger)
	gradingHandler := handler.NewGradingHandler(gradingService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	taskHandler := handler.NewTaskHandler(taskService, logger)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService, logger)
	studentHandler := handler.NewStudentHandler(studentService, logger)
	activityHandler := handler.NewActivityHandler(activityService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		InsightsHandler:   insightsHandler,
		GroupHandler:      groupHandler,
		GradingHandler:    gradingHandler,
		SubmissionHandler: submissionHandler,
		TaskHandler:       taskHandler,
		AssignmentHandler: assignmentHandler,
		StudentHandler:    studentHandler,
		ActivityHandler:   activityHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		GradingRateLimit:  cfg.GradingRateLimit,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func buildGrader(cfg config.Config, logger zerolog.Logger) (ai.Grader, error) {
	switch cfg.AIProvider {
	case "anthropic":
		return ai.NewAnthropicGrader(ai.AnthropicConfig{APIKey: cfg.AnthropicAPIKey})
	default:
		return ai.NewOpenAIGrader(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Logger: logger,
		})
	}
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
