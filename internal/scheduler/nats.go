package scheduler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
)

const SubjectStatusSubscribe = "claims.status.subscribe"

type subscribeRequest struct {
	ClaimID     string    `json:"claim_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// NATSScheduler asks the status-update service to start polling an
// under-review claim. Fire-and-forget: delivery is the broker's problem.
type NATSScheduler struct {
	nc *nats.Conn
}

func NewNATSScheduler(nc *nats.Conn) *NATSScheduler {
	return &NATSScheduler{nc: nc}
}

func (s *NATSScheduler) ScheduleUpdates(_ context.Context, claimID string) error {
	payload, err := json.Marshal(subscribeRequest{
		ClaimID:     claimID,
		RequestedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.nc.Publish(SubjectStatusSubscribe, payload)
}
