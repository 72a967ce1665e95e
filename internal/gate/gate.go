package gate

import (
	"context"
	"time"

	"github.com/claimworks/claims-system/claim-orchestrator/internal/interfaces"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/models"
)

// MaxEstimatedAmount is the upper bound on a single claim.
const MaxEstimatedAmount = 1_000_000

// Gate rejects invalid or abusive submissions before any network or
// storage cost is incurred.
type Gate struct {
	limiter interfaces.RateLimiter
	now     func() time.Time
}

func New(limiter interfaces.RateLimiter) *Gate {
	return &Gate{limiter: limiter, now: time.Now}
}

// NewWithClock is for tests that need a fixed notion of "now".
func NewWithClock(limiter interfaces.RateLimiter, now func() time.Time) *Gate {
	return &Gate{limiter: limiter, now: now}
}

// Check validates the claim and consults the rate limiter, short-circuiting
// on the first failure. Its only side effect is the read-only rate query.
func (g *Gate) Check(ctx context.Context, claim *models.ClaimRequest) error {
	if claim.EstimatedAmount <= 0 {
		return &models.ValidationError{
			Field:  models.FieldAmount,
			Reason: "estimated amount must be greater than zero",
		}
	}
	if claim.EstimatedAmount >= MaxEstimatedAmount {
		return &models.ValidationError{
			Field:  models.FieldAmount,
			Reason: "estimated amount exceeds the claim limit",
		}
	}

	if !claim.IncidentDate.Before(g.now()) {
		return &models.ValidationError{
			Field:  models.FieldIncidentDate,
			Reason: "incident date must be in the past",
		}
	}

	tooFrequent, err := g.limiter.TooFrequent(ctx, claim.UserID)
	if err != nil {
		return &models.ValidationError{
			Field:  models.FieldRateLimit,
			Reason: "submission frequency check unavailable",
		}
	}
	if tooFrequent {
		return &models.ValidationError{
			Field:  models.FieldRateLimit,
			Reason: "too many recent submissions, try again later",
		}
	}

	return nil
}
