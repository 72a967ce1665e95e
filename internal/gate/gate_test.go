package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimworks/claims-system/claim-orchestrator/internal/models"
)

type fakeLimiter struct {
	tooFrequent bool
	err         error
	calls       int
}

func (f *fakeLimiter) TooFrequent(ctx context.Context, actorID string) (bool, error) {
	f.calls++
	return f.tooFrequent, f.err
}

func TestGateCheck(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)

	tests := []struct {
		name          string
		claim         models.ClaimRequest
		limiter       fakeLimiter
		wantField     string
		wantRateCalls int
	}{
		{
			name:          "valid claim passes",
			claim:         models.ClaimRequest{UserID: "usr-1", EstimatedAmount: 1200.00, IncidentDate: yesterday},
			wantRateCalls: 1,
		},
		{
			name:      "zero amount fails before rate check",
			claim:     models.ClaimRequest{UserID: "usr-1", EstimatedAmount: 0, IncidentDate: yesterday},
			wantField: models.FieldAmount,
		},
		{
			name:          "amount boundary just above zero passes",
			claim:         models.ClaimRequest{UserID: "usr-1", EstimatedAmount: 0.01, IncidentDate: yesterday},
			wantRateCalls: 1,
		},
		{
			name:      "negative amount fails",
			claim:     models.ClaimRequest{UserID: "usr-1", EstimatedAmount: -10, IncidentDate: yesterday},
			wantField: models.FieldAmount,
		},
		{
			name:      "amount at claim limit fails",
			claim:     models.ClaimRequest{UserID: "usr-1", EstimatedAmount: MaxEstimatedAmount, IncidentDate: yesterday},
			wantField: models.FieldAmount,
		},
		{
			name:      "future incident date fails before rate check",
			claim:     models.ClaimRequest{UserID: "usr-1", EstimatedAmount: 500, IncidentDate: now.Add(24 * time.Hour)},
			wantField: models.FieldIncidentDate,
		},
		{
			name:      "incident date equal to now fails",
			claim:     models.ClaimRequest{UserID: "usr-1", EstimatedAmount: 500, IncidentDate: now},
			wantField: models.FieldIncidentDate,
		},
		{
			name:          "rate limited actor fails",
			claim:         models.ClaimRequest{UserID: "usr-1", EstimatedAmount: 500, IncidentDate: yesterday},
			limiter:       fakeLimiter{tooFrequent: true},
			wantField:     models.FieldRateLimit,
			wantRateCalls: 1,
		},
		{
			name:          "rate limiter outage fails closed",
			claim:         models.ClaimRequest{UserID: "usr-1", EstimatedAmount: 500, IncidentDate: yesterday},
			limiter:       fakeLimiter{err: errors.New("redis down")},
			wantField:     models.FieldRateLimit,
			wantRateCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithClock(&tt.limiter, func() time.Time { return now })

			err := g.Check(context.Background(), &tt.claim)

			if tt.wantField == "" {
				assert.NoError(t, err)
			} else {
				var vErr *models.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, tt.wantField, vErr.Field)
			}
			assert.Equal(t, tt.wantRateCalls, tt.limiter.calls)
		})
	}
}
