package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/claimworks/claims-system/claim-orchestrator/internal/api"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/config"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/decision"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/events"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/gate"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/media"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/ratelimit"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/repository"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/scheduler"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/service"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/telemetry"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize telemetry
	if err := telemetry.InitTelemetry("claim-orchestrator"); err != nil {
		panic(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(context.Background())

	telemetry.Logger.Info("Starting Claim Orchestrator")

	// Connect to PostgreSQL
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		telemetry.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize state audit repository
	repo := repository.NewClaimStateRepository(db)
	if err := repo.InitDB(); err != nil {
		telemetry.Logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
	})
	limiter := ratelimit.NewRedisLimiter(redisClient, cfg.RateLimitMax, cfg.RateLimitWindow)

	// Connect to NATS
	nc, err := nats.Connect(cfg.NatsURL)
	if err != nil {
		telemetry.Logger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer nc.Close()

	// Kafka event sink
	sink := events.NewKafkaSink(cfg.KafkaBrokers)
	defer sink.Close()

	// Wire the orchestrator
	orchestrator := service.NewOrchestrator(
		gate.New(limiter),
		media.NewHTTPClient(cfg.MediaPipelineURL),
		decision.NewHTTPClient(cfg.DecisionServiceURL),
		scheduler.NewNATSScheduler(nc),
		repo,
		sink,
		service.Options{
			MaxMediaBytes:     cfg.MaxMediaBytes,
			UploadDestination: cfg.UploadDestination,
		},
	)

	// Setup router and HTTP server
	r := api.NewRouter(repo, orchestrator)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		telemetry.Logger.Info("Claim Orchestrator starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	telemetry.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		telemetry.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	telemetry.Logger.Info("Server exited")
}
