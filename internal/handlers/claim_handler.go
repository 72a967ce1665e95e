package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/claimworks/claims-system/claim-orchestrator/internal/interfaces"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/models"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/service"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/telemetry"
)

type ClaimHandler struct {
	repo         interfaces.ClaimStateRepository
	orchestrator *service.Orchestrator
}

func NewClaimHandler(repo interfaces.ClaimStateRepository, orchestrator *service.Orchestrator) *ClaimHandler {
	return &ClaimHandler{
		repo:         repo,
		orchestrator: orchestrator,
	}
}

// SubmitClaim accepts a claim draft and starts an attempt. The pipeline is
// asynchronous, so a passing gate answers 202 and the client polls state.
func (h *ClaimHandler) SubmitClaim(c *gin.Context) {
	var claim models.ClaimRequest
	if err := c.ShouldBindJSON(&claim); err != nil {
		telemetry.Logger.Error("Error decoding claim request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	attempt, err := h.orchestrator.SubmitClaim(c.Request.Context(), &claim)
	if err != nil {
		var vErr *models.ValidationError
		switch {
		case errors.Is(err, models.ErrSubmissionInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.As(err, &vErr):
			status := http.StatusBadRequest
			if vErr.Field == models.FieldRateLimit {
				status = http.StatusTooManyRequests
			}
			c.JSON(status, gin.H{"error": vErr.Error(), "field": vErr.Field})
		default:
			telemetry.Logger.Error("Error submitting claim",
				zap.String("claim_id", claim.ClaimID),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit claim"})
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"claim_id": attempt.ClaimID(),
		"state":    attempt.State(),
	})
}

// GetClaimState reads the persisted audit row for a claim.
func (h *ClaimHandler) GetClaimState(c *gin.Context) {
	claimID := c.Param("id")

	info, err := h.repo.GetByClaimID(c.Request.Context(), claimID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "claim state not found"})
		return
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch claim state"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"claim_id":       claimID,
		"state":          info.State,
		"previous_state": info.PreviousState,
		"decision":       info.Decision,
		"created_at":     info.CreatedAt,
		"updated_at":     info.UpdatedAt,
	})
}
