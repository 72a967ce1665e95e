package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/claimworks/claims-system/claim-orchestrator/internal/config"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/gate"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/interfaces"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/models"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/telemetry"
)

// EventSink receives domain events for downstream consumers (analytics,
// notification fan-out). Publish failures are logged, never propagated.
type EventSink interface {
	StateChanged(ctx context.Context, change models.StateChange) error
	InstantApproved(ctx context.Context, claimID string, result models.ApprovalResult) error
}

// Options are the orchestrator tunables. Zero values fall back to the
// config defaults.
type Options struct {
	MaxMediaBytes     int64
	UploadDestination string
}

// Orchestrator drives one claim submission attempt from validated request
// to terminal client state. All collaborators are injected; there is no
// default wiring here.
type Orchestrator struct {
	gate      *gate.Gate
	media     interfaces.MediaPipeline
	decisions interfaces.DecisionService
	scheduler interfaces.StatusScheduler
	repo      interfaces.ClaimStateRepository
	sink      EventSink
	opts      Options

	mu       sync.Mutex
	inflight map[string]*Attempt
}

func NewOrchestrator(
	g *gate.Gate,
	media interfaces.MediaPipeline,
	decisions interfaces.DecisionService,
	scheduler interfaces.StatusScheduler,
	repo interfaces.ClaimStateRepository,
	sink EventSink,
	opts Options,
) *Orchestrator {
	if opts.MaxMediaBytes <= 0 {
		opts.MaxMediaBytes = config.DefaultMaxMediaBytes
	}
	if opts.UploadDestination == "" {
		opts.UploadDestination = "claims-evidence"
	}
	return &Orchestrator{
		gate:      g,
		media:     media,
		decisions: decisions,
		scheduler: scheduler,
		repo:      repo,
		sink:      sink,
		opts:      opts,
		inflight:  make(map[string]*Attempt),
	}
}

// SubmitClaim starts one submission attempt. Concurrency and validation
// failures are reported synchronously; everything after the gate runs on
// its own goroutine and is reported through the attempt's state channel.
//
// Only one attempt may be in flight per actor. A second call is rejected
// immediately with models.ErrSubmissionInFlight and does not disturb the
// running attempt.
func (o *Orchestrator) SubmitClaim(ctx context.Context, claim *models.ClaimRequest) (*Attempt, error) {
	if claim.ClaimID == "" {
		claim.ClaimID = uuid.NewString()
	}

	o.mu.Lock()
	if _, busy := o.inflight[claim.UserID]; busy {
		o.mu.Unlock()
		return nil, models.ErrSubmissionInFlight
	}
	attempt := newAttempt(claim.ClaimID, claim.UserID)
	o.inflight[claim.UserID] = attempt
	o.mu.Unlock()

	o.advance(ctx, attempt, models.StateIdle, models.StateValidating)
	if err := o.repo.InsertInitialState(ctx, claim.ClaimID, models.StateValidating); err != nil {
		telemetry.Logger.Warn("Failed to persist initial claim state",
			zap.String("claim_id", claim.ClaimID),
			zap.Error(err),
		)
	}

	if err := o.gate.Check(ctx, claim); err != nil {
		o.fail(ctx, attempt, err)
		o.release(attempt)
		attempt.finish()
		return attempt, err
	}

	// The stages outlive the caller's context: host teardown mid-attempt
	// must not corrupt shared state, so the guard is released by run itself.
	go o.run(context.WithoutCancel(ctx), attempt, claim)

	return attempt, nil
}

// Attempt returns the in-flight attempt for an actor, if any.
func (o *Orchestrator) Attempt(actorID string) (*Attempt, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	a, ok := o.inflight[actorID]
	return a, ok
}

func (o *Orchestrator) run(ctx context.Context, attempt *Attempt, claim *models.ClaimRequest) {
	defer attempt.finish()
	defer o.release(attempt)

	o.advance(ctx, attempt, models.StateValidating, models.StateUploadingMedia)

	// No media is a permitted submission, not an error: the claim reaches
	// the decision service with an empty evidence reference.
	if claim.LocalMediaRef != "" {
		compressedRef, err := o.media.Compress(ctx, claim.LocalMediaRef, o.opts.MaxMediaBytes)
		if err != nil {
			o.fail(ctx, attempt, &models.MediaPipelineError{Stage: models.MediaStageCompress, Err: err})
			return
		}

		remoteRef, err := o.media.Upload(ctx, compressedRef, o.opts.UploadDestination)
		if err != nil {
			o.fail(ctx, attempt, &models.MediaPipelineError{Stage: models.MediaStageUpload, Err: err})
			return
		}
		claim.MediaEvidenceRef = remoteRef
	}

	o.advance(ctx, attempt, models.StateUploadingMedia, models.StateSubmitting)

	outcome, err := o.decisions.Submit(ctx, claim)
	if err != nil {
		o.fail(ctx, attempt, &models.DecisionServiceError{Err: err})
		return
	}

	if err := o.repo.UpdateDecision(ctx, claim.ClaimID, outcome.Status); err != nil {
		telemetry.Logger.Warn("Failed to persist decision",
			zap.String("claim_id", claim.ClaimID),
			zap.Error(err),
		)
	}

	switch outcome.Status {
	case models.DecisionInstantApproved:
		result := models.ApprovalResult{
			Amount:               outcome.PayoutAmount,
			ProcessingTimeMillis: outcome.ProcessingTimeMs,
		}
		if change, ok := attempt.approve(result); ok {
			o.record(ctx, attempt, change)
			attempt.emit(models.EventSubmissionSucceeded)
			attempt.emit(models.EventCelebrate)
			if o.sink != nil {
				if err := o.sink.InstantApproved(ctx, claim.ClaimID, result); err != nil {
					telemetry.Logger.Warn("Failed to publish instant approval event",
						zap.String("claim_id", claim.ClaimID),
						zap.Error(err),
					)
				}
			}
			telemetry.SubmissionsTotal.WithLabelValues("approved").Inc()
		}

	case models.DecisionUnderReview:
		o.advance(ctx, attempt, models.StateSubmitting, models.StateUnderReview)
		claimID := outcome.ClaimID
		if claimID == "" {
			claimID = claim.ClaimID
		}
		if err := o.scheduler.ScheduleUpdates(ctx, claimID); err != nil {
			telemetry.Logger.Warn("Failed to schedule status updates",
				zap.String("claim_id", claimID),
				zap.Error(err),
			)
		}
		telemetry.SubmissionsTotal.WithLabelValues("under_review").Inc()

	case models.DecisionRejected, models.DecisionFlagged:
		// Flagged and rejected collapse to the same terminal state; only
		// the upstream next-step text differs.
		if change, ok := attempt.reject(outcome.NextSteps); ok {
			o.record(ctx, attempt, change)
			telemetry.SubmissionsTotal.WithLabelValues("rejected").Inc()
		}

	default:
		o.fail(ctx, attempt, &models.DecisionServiceError{
			Err: fmt.Errorf("unknown decision status %q", outcome.Status),
		})
	}
}

func (o *Orchestrator) advance(ctx context.Context, attempt *Attempt, from, to models.SubmissionState) {
	change, ok := attempt.transition(from, to)
	if !ok {
		telemetry.Logger.Warn("Dropped stale state transition",
			zap.String("claim_id", attempt.ClaimID()),
			zap.String("from_state", string(from)),
			zap.String("to_state", string(to)),
		)
		return
	}
	o.record(ctx, attempt, change)
}

func (o *Orchestrator) fail(ctx context.Context, attempt *Attempt, err error) {
	change, ok := attempt.fail(err)
	if !ok {
		return
	}
	o.record(ctx, attempt, change)
	telemetry.Logger.Error("Claim submission failed",
		zap.String("claim_id", attempt.ClaimID()),
		zap.String("failed_in", string(change.From)),
		zap.Error(err),
	)
	telemetry.SubmissionsTotal.WithLabelValues("failed").Inc()
	telemetry.StageFailuresTotal.WithLabelValues(failedStage(err)).Inc()
}

// record mirrors an applied transition to the audit repository and the
// event sink. Neither can fail the attempt.
func (o *Orchestrator) record(ctx context.Context, attempt *Attempt, change models.StateChange) {
	if change.From != models.StateIdle {
		if rows, err := o.repo.TransitionState(ctx, change.ClaimID, change.From, change.To); err != nil {
			telemetry.Logger.Warn("Failed to persist state transition",
				zap.String("claim_id", change.ClaimID),
				zap.Error(err),
			)
		} else if rows == 0 {
			telemetry.Logger.Warn("State transition row not found",
				zap.String("claim_id", change.ClaimID),
				zap.String("from_state", string(change.From)),
			)
		}
	}

	if o.sink != nil {
		if err := o.sink.StateChanged(ctx, change); err != nil {
			telemetry.Logger.Warn("Failed to publish state change",
				zap.String("claim_id", change.ClaimID),
				zap.Error(err),
			)
		}
	}

	telemetry.Logger.Info("Claim state transition",
		zap.String("claim_id", change.ClaimID),
		zap.String("from_state", string(change.From)),
		zap.String("to_state", string(change.To)),
	)
}

func (o *Orchestrator) release(attempt *Attempt) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inflight[attempt.actorID] == attempt {
		delete(o.inflight, attempt.actorID)
	}
}

func failedStage(err error) string {
	switch e := err.(type) {
	case *models.ValidationError:
		return "validation"
	case *models.MediaPipelineError:
		return string(e.Stage)
	case *models.DecisionServiceError:
		return "decision"
	}
	return "unknown"
}
