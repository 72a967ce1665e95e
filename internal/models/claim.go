package models

import "time"

type SubmissionState string

const (
	StateIdle           SubmissionState = "IDLE"
	StateValidating     SubmissionState = "VALIDATING"
	StateUploadingMedia SubmissionState = "UPLOADING_MEDIA"
	StateSubmitting     SubmissionState = "SUBMITTING"
	StateApproved       SubmissionState = "APPROVED"
	StateUnderReview    SubmissionState = "UNDER_REVIEW"
	StateRejected       SubmissionState = "REJECTED"
	StateFailed         SubmissionState = "FAILED"
)

// Terminal reports whether s ends a submission attempt.
func (s SubmissionState) Terminal() bool {
	switch s {
	case StateApproved, StateUnderReview, StateRejected, StateFailed:
		return true
	}
	return false
}

type DecisionStatus string

const (
	DecisionInstantApproved DecisionStatus = "instant_approved"
	DecisionUnderReview     DecisionStatus = "under_review"
	DecisionRejected        DecisionStatus = "rejected"
	DecisionFlagged         DecisionStatus = "flagged"
)

// ClaimRequest is the caller-built draft of one claim submission. The
// orchestrator only writes MediaEvidenceRef; everything else is passed
// through to the decision service untouched.
type ClaimRequest struct {
	ClaimID          string             `json:"claim_id"`
	PolicyID         string             `json:"policy_id"`
	UserID           string             `json:"user_id"`
	ClaimType        string             `json:"claim_type"`
	Description      string             `json:"description"`
	EstimatedAmount  float64            `json:"estimated_amount"`
	IncidentDate     time.Time          `json:"incident_date"`
	LocalMediaRef    string             `json:"local_media_ref,omitempty"`
	MediaEvidenceRef string             `json:"media_evidence_ref,omitempty"`
	Photos           []string           `json:"photos,omitempty"`
	Location         map[string]float64 `json:"location,omitempty"`
}

// DecisionOutcome is the decision service's classification of a claim.
type DecisionOutcome struct {
	ClaimID          string         `json:"claim_id"`
	Status           DecisionStatus `json:"status"`
	PayoutAmount     float64        `json:"payout_amount"`
	ProcessingTimeMs int64          `json:"processing_time_ms"`
	ConfidenceScore  float64        `json:"confidence_score"`
	NextSteps        string         `json:"next_steps"`
}

// ApprovalResult is produced only for instant approvals.
type ApprovalResult struct {
	Amount               float64 `json:"amount"`
	ProcessingTimeMillis int64   `json:"processing_time_millis"`
}

// StateChange is delivered, in transition order, to attempt observers.
type StateChange struct {
	ClaimID   string          `json:"claim_id"`
	From      SubmissionState `json:"from"`
	To        SubmissionState `json:"to"`
	Timestamp time.Time       `json:"timestamp"`
}

// Event is a presentation-layer notification. The core emits these after
// the state field is updated and never interprets them.
type Event string

const (
	EventSubmissionSucceeded Event = "submission-succeeded"
	EventCelebrate           Event = "celebrate"
)

// ClaimStateInfo is the persisted view of one attempt's state row.
type ClaimStateInfo struct {
	State         string
	PreviousState string
	Decision      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
