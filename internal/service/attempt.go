package service

import (
	"sync"
	"time"

	"github.com/claimworks/claims-system/claim-orchestrator/internal/models"
)

// FailureMessage is the generic, retry-eligible message shown for media and
// decision-service failures. It is never the same field the REJECTED
// outcome's next-step guidance arrives in.
const FailureMessage = "we could not submit your claim, please try again"

// An attempt fires at most four transitions, so the buffers below never
// block the pipeline goroutine.
const (
	changeBuffer = 8
	eventBuffer  = 4
)

// Attempt tracks one claim submission from validation to a terminal state.
// The orchestrator goroutine is the only writer; observers read the state
// accessors or consume the Changes and Events channels, which are closed
// once the attempt is terminal.
type Attempt struct {
	claimID string
	actorID string

	mu      sync.Mutex
	state   models.SubmissionState
	result  *models.ApprovalResult
	message string
	err     error

	changes chan models.StateChange
	events  chan models.Event
	done    chan struct{}
}

func newAttempt(claimID, actorID string) *Attempt {
	return &Attempt{
		claimID: claimID,
		actorID: actorID,
		state:   models.StateIdle,
		changes: make(chan models.StateChange, changeBuffer),
		events:  make(chan models.Event, eventBuffer),
		done:    make(chan struct{}),
	}
}

func (a *Attempt) ClaimID() string { return a.claimID }

func (a *Attempt) State() models.SubmissionState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Result is non-nil only once the attempt reached APPROVED.
func (a *Attempt) Result() *models.ApprovalResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result
}

// Message carries the REJECTED next-step guidance or the generic failure
// text, depending on how the attempt ended.
func (a *Attempt) Message() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.message
}

func (a *Attempt) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Done is closed after the terminal state and all notifications have been
// delivered to the channels.
func (a *Attempt) Done() <-chan struct{} { return a.done }

// Changes delivers state transitions in the order they were applied.
func (a *Attempt) Changes() <-chan models.StateChange { return a.changes }

// Events delivers presentation events. An event is only ever sent after the
// state field it follows from has been updated.
func (a *Attempt) Events() <-chan models.Event { return a.events }

// transition advances from -> to. It is from-checked and single-fire: a
// stale completion can never overwrite a state that already moved on.
func (a *Attempt) transition(from, to models.SubmissionState) (models.StateChange, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != from || a.state.Terminal() {
		return models.StateChange{}, false
	}
	return a.applyLocked(to), true
}

// approve stores the approval result before the APPROVED state becomes
// visible, so an observer reacting to the transition never sees a nil result.
func (a *Attempt) approve(result models.ApprovalResult) (models.StateChange, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != models.StateSubmitting {
		return models.StateChange{}, false
	}
	a.result = &result
	return a.applyLocked(models.StateApproved), true
}

func (a *Attempt) reject(nextSteps string) (models.StateChange, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != models.StateSubmitting {
		return models.StateChange{}, false
	}
	a.message = nextSteps
	return a.applyLocked(models.StateRejected), true
}

// fail moves any non-terminal state to FAILED carrying the stage error.
func (a *Attempt) fail(err error) (models.StateChange, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.Terminal() {
		return models.StateChange{}, false
	}
	a.err = err
	a.message = FailureMessage
	return a.applyLocked(models.StateFailed), true
}

func (a *Attempt) applyLocked(to models.SubmissionState) models.StateChange {
	change := models.StateChange{
		ClaimID:   a.claimID,
		From:      a.state,
		To:        to,
		Timestamp: time.Now().UTC(),
	}
	a.state = to
	a.changes <- change
	return change
}

func (a *Attempt) emit(ev models.Event) {
	a.events <- ev
}

func (a *Attempt) finish() {
	close(a.changes)
	close(a.events)
	close(a.done)
}
