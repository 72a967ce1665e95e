package models

import (
	"errors"
	"fmt"
)

// ErrSubmissionInFlight is returned when a second submission is attempted
// for an actor whose previous attempt has not reached a terminal state.
// The in-flight attempt is not disturbed.
var ErrSubmissionInFlight = errors.New("a submission is already in flight for this actor")

// Validation failure fields, surfaced verbatim to the caller.
const (
	FieldAmount       = "amount"
	FieldIncidentDate = "incident_date"
	FieldRateLimit    = "rate_limit"
)

// ValidationError is always recoverable: the caller corrects the input and
// resubmits. It is reported synchronously and nothing else runs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

type MediaStage string

const (
	MediaStageCompress MediaStage = "compress"
	MediaStageUpload   MediaStage = "upload"
)

// MediaPipelineError is terminal for the attempt and names the sub-stage
// that failed. Retries belong to the media pipeline, not here.
type MediaPipelineError struct {
	Stage MediaStage
	Err   error
}

func (e *MediaPipelineError) Error() string {
	return fmt.Sprintf("media pipeline %s failed: %v", e.Stage, e.Err)
}

func (e *MediaPipelineError) Unwrap() error { return e.Err }

// DecisionServiceError marks a failed decision call. A rejected outcome is
// a successful call with a negative business result, never this error.
type DecisionServiceError struct {
	Err error
}

func (e *DecisionServiceError) Error() string {
	return fmt.Sprintf("decision service call failed: %v", e.Err)
}

func (e *DecisionServiceError) Unwrap() error { return e.Err }
