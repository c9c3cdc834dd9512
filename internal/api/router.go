package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/pitchwheel/pitch-api/internal/api/handlers"
	apimiddleware "github.com/pitchwheel/pitch-api/internal/api/middleware"
	"github.com/pitchwheel/pitch-api/internal/config"
	"github.com/pitchwheel/pitch-api/internal/metrics"
	"github.com/pitchwheel/pitch-api/internal/observability"
	"github.com/pitchwheel/pitch-api/internal/pitchgen"
	"github.com/pitchwheel/pitch-api/internal/ratelimit"
)

func SetupRouter(cfg *config.Config, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS(cfg.AllowedOrigins))

	ctx := context.Background()

	// Observability and metrics backends
	observability.InitializeLangfuse(ctx, cfg)
	cloudwatch, _ := metrics.NewClient(ctx, cfg.Environment)

	// Health check
	healthHandler := handlers.NewHealthHandler(version)
	router.GET("/health", healthHandler.HealthCheck)

	// Pitch generation, gated by the per-IP sliding window
	limiter := ratelimit.NewSlidingWindow(cfg.RateLimitRequests, cfg.RateLimitWindow)
	limiter.StartJanitor(ctx)

	pitchHandler := handlers.NewPitchHandler(pitchgen.New(cfg, cloudwatch))
	router.POST("/generate-pitch", apimiddleware.RateLimit(limiter, cloudwatch), pitchHandler.Generate)

	return router
}
