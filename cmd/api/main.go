package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"recroai/backend/internal/config"
	"recroai/backend/internal/handlers"
	"recroai/backend/internal/llm"
	"recroai/backend/internal/logger"
	"recroai/backend/internal/repositories"
	"recroai/backend/internal/services"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	log.Info("database connected and migrated")

	jobRepo := repositories.NewJobRepository(db)
	candidateRepo := repositories.NewCandidateRepository(db)
	scoreRepo := repositories.NewScoreRepository(db)
	flagRepo := repositories.NewFlagRepository(db)

	// The server stays up without a provider: scoring then fails per
	// call with a configuration error and authenticity checks run
	// heuristic-only.
	completer, err := llm.Resolve(context.Background(), cfg.LLM, log)
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			log.Fatal("failed to initialize llm provider", zap.Error(err))
		}
		log.Warn("llm provider not configured, scoring disabled", zap.Error(err))
	}

	scorer := services.NewScorerService(completer, cfg.Scoring.MinExplanation, log)
	authenticity := services.NewAuthenticityService(completer, log)
	evaluationService := services.NewEvaluationService(
		jobRepo,
		candidateRepo,
		scoreRepo,
		flagRepo,
		scorer,
		authenticity,
		cfg.Scoring.MaxBatchSize,
		cfg.Worker.Concurrency,
		log,
	)
	analyticsService := services.NewAnalyticsService(jobRepo, candidateRepo, scoreRepo, flagRepo)

	scoringHandler := handlers.NewScoringHandler(evaluationService)
	authenticityHandler := handlers.NewAuthenticityHandler(evaluationService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	app := fiber.New(fiber.Config{
		AppName:      "RecroAI API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Company-ID",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/scoring/score", scoringHandler.HandleScore)
	api.Post("/scoring/score-all", scoringHandler.HandleScoreAll)
	api.Get("/scoring/candidate/:candidate_id/job/:job_id", scoringHandler.HandleGetScore)
	api.Post("/candidates/:id/authenticity", authenticityHandler.HandleCheck)
	api.Get("/analytics", analyticsHandler.HandleGetSummary)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
