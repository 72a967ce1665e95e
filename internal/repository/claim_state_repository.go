package repository

import (
	"context"
	"database/sql"

	"github.com/claimworks/claims-system/claim-orchestrator/internal/models"
)

// ClaimStateRepository keeps the submission state audit trail. One row per
// claim; transitions are from-checked in SQL so a stale writer loses.
type ClaimStateRepository struct {
	db *sql.DB
}

func NewClaimStateRepository(db *sql.DB) *ClaimStateRepository {
	return &ClaimStateRepository{db: db}
}

func (r *ClaimStateRepository) InitDB() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS claim_submission_states (
			claim_id VARCHAR(255) PRIMARY KEY,
			state VARCHAR(50) NOT NULL,
			previous_state VARCHAR(50),
			decision VARCHAR(50),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_claim_submission_states_state ON claim_submission_states(state)`,
	}

	for _, query := range queries {
		if _, err := r.db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

func (r *ClaimStateRepository) InsertInitialState(ctx context.Context, claimID string, state models.SubmissionState) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO claim_submission_states (claim_id, state, previous_state)
		VALUES ($1, $2, $3)
		ON CONFLICT (claim_id) DO NOTHING
	`, claimID, state, "")
	return err
}

func (r *ClaimStateRepository) TransitionState(ctx context.Context, claimID string, from, to models.SubmissionState) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE claim_submission_states
		SET state = $1, previous_state = $2, updated_at = NOW()
		WHERE claim_id = $3 AND state = $4
	`, to, from, claimID, from)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *ClaimStateRepository) UpdateDecision(ctx context.Context, claimID string, decision models.DecisionStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE claim_submission_states SET decision = $1 WHERE claim_id = $2`, decision, claimID)
	return err
}

func (r *ClaimStateRepository) GetByClaimID(ctx context.Context, claimID string) (*models.ClaimStateInfo, error) {
	var info models.ClaimStateInfo
	var previous, decision sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT state, previous_state, decision, created_at, updated_at
		FROM claim_submission_states WHERE claim_id = $1
	`, claimID).Scan(&info.State, &previous, &decision, &info.CreatedAt, &info.UpdatedAt)
	if err != nil {
		return nil, err
	}
	info.PreviousState = previous.String
	info.Decision = decision.String
	return &info, nil
}
