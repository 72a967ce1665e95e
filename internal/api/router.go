package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/claimworks/claims-system/claim-orchestrator/internal/handlers"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/interfaces"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/service"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/telemetry"
)

func NewRouter(repo interfaces.ClaimStateRepository, orchestrator *service.Orchestrator) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.TracingMiddleware())

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "claim-orchestrator"})
	})

	// Claim routes
	claimHandler := handlers.NewClaimHandler(repo, orchestrator)
	r.POST("/claims", claimHandler.SubmitClaim)
	r.GET("/claims/:id/state", claimHandler.GetClaimState)

	return r
}
