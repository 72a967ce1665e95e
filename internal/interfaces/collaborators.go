package interfaces

import (
	"context"

	"github.com/claimworks/claims-system/claim-orchestrator/internal/models"
)

// RateLimiter reports whether an actor is submitting claims too frequently.
type RateLimiter interface {
	TooFrequent(ctx context.Context, actorID string) (bool, error)
}

// MediaPipeline compresses a raw evidence artifact to within maxBytes and
// uploads it to durable storage. Upload must only be called with a ref
// returned by Compress.
type MediaPipeline interface {
	Compress(ctx context.Context, localRef string, maxBytes int64) (string, error)
	Upload(ctx context.Context, compressedRef, destination string) (string, error)
}

// DecisionService adjudicates a claim and returns its classification.
type DecisionService interface {
	Submit(ctx context.Context, claim *models.ClaimRequest) (*models.DecisionOutcome, error)
}

// StatusScheduler subscribes an under-review claim to out-of-band status
// updates. Fire-and-forget from the orchestrator's point of view.
type StatusScheduler interface {
	ScheduleUpdates(ctx context.Context, claimID string) error
}
