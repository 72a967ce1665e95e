package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/claimworks/claims-system/claim-orchestrator/internal/models"
)

const (
	TopicStateChanged    = "claims.state.changed"
	TopicInstantApproved = "claims.instant_approved"
)

// KafkaSink publishes claim lifecycle events for analytics and the
// notification fan-out.
type KafkaSink struct {
	stateWriter    *kafka.Writer
	approvalWriter *kafka.Writer
}

func NewKafkaSink(brokers string) *KafkaSink {
	return &KafkaSink{
		stateWriter: &kafka.Writer{
			Addr:     kafka.TCP(brokers),
			Topic:    TopicStateChanged,
			Balancer: &kafka.LeastBytes{},
		},
		approvalWriter: &kafka.Writer{
			Addr:     kafka.TCP(brokers),
			Topic:    TopicInstantApproved,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (s *KafkaSink) StateChanged(ctx context.Context, change models.StateChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return s.stateWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(change.ClaimID),
		Value: payload,
	})
}

func (s *KafkaSink) InstantApproved(ctx context.Context, claimID string, result models.ApprovalResult) error {
	payload, err := json.Marshal(map[string]interface{}{
		"claim_id":           claimID,
		"amount":             result.Amount,
		"processing_time_ms": result.ProcessingTimeMillis,
		"timestamp":          time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.approvalWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(claimID),
		Value: payload,
	})
}

func (s *KafkaSink) Close() error {
	if err := s.stateWriter.Close(); err != nil {
		return err
	}
	return s.approvalWriter.Close()
}
