package interfaces

import (
	"context"

	"github.com/claimworks/claims-system/claim-orchestrator/internal/models"
)

// ClaimStateRepository defines the contract for the submission state audit trail
type ClaimStateRepository interface {
	InsertInitialState(ctx context.Context, claimID string, state models.SubmissionState) error
	TransitionState(ctx context.Context, claimID string, from, to models.SubmissionState) (int64, error)
	UpdateDecision(ctx context.Context, claimID string, decision models.DecisionStatus) error
	GetByClaimID(ctx context.Context, claimID string) (*models.ClaimStateInfo, error)
}
