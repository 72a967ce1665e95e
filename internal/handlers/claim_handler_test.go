package handlers_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimworks/claims-system/claim-orchestrator/internal/api"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/gate"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/models"
	"github.com/claimworks/claims-system/claim-orchestrator/internal/service"
)

type stubLimiter struct{ tooFrequent bool }

func (s *stubLimiter) TooFrequent(ctx context.Context, actorID string) (bool, error) {
	return s.tooFrequent, nil
}

type stubMedia struct{}

func (stubMedia) Compress(ctx context.Context, localRef string, maxBytes int64) (string, error) {
	return "compressed:" + localRef, nil
}

func (stubMedia) Upload(ctx context.Context, compressedRef, destination string) (string, error) {
	return "s3://" + destination + "/evidence", nil
}

type stubDecision struct{ status models.DecisionStatus }

func (s *stubDecision) Submit(ctx context.Context, claim *models.ClaimRequest) (*models.DecisionOutcome, error) {
	return &models.DecisionOutcome{ClaimID: claim.ClaimID, Status: s.status}, nil
}

type stubScheduler struct{}

func (stubScheduler) ScheduleUpdates(ctx context.Context, claimID string) error { return nil }

type stubRepo struct {
	states map[string]*models.ClaimStateInfo
}

func (s *stubRepo) InsertInitialState(ctx context.Context, claimID string, state models.SubmissionState) error {
	return nil
}

func (s *stubRepo) TransitionState(ctx context.Context, claimID string, from, to models.SubmissionState) (int64, error) {
	return 1, nil
}

func (s *stubRepo) UpdateDecision(ctx context.Context, claimID string, decision models.DecisionStatus) error {
	return nil
}

func (s *stubRepo) GetByClaimID(ctx context.Context, claimID string) (*models.ClaimStateInfo, error) {
	info, ok := s.states[claimID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return info, nil
}

func newTestRouter(limiter *stubLimiter, repo *stubRepo) http.Handler {
	orchestrator := service.NewOrchestrator(
		gate.New(limiter),
		stubMedia{},
		&stubDecision{status: models.DecisionUnderReview},
		stubScheduler{},
		repo,
		nil,
		service.Options{},
	)
	return api.NewRouter(repo, orchestrator)
}

func postClaim(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/claims", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func claimBody(t *testing.T, claim models.ClaimRequest) string {
	t.Helper()
	data, err := json.Marshal(claim)
	require.NoError(t, err)
	return string(data)
}

func TestSubmitClaimEndpoint(t *testing.T) {
	valid := models.ClaimRequest{
		ClaimID:         "clm-http-1",
		UserID:          "usr-1",
		EstimatedAmount: 500,
		IncidentDate:    time.Now().Add(-48 * time.Hour),
	}

	t.Run("accepted", func(t *testing.T) {
		router := newTestRouter(&stubLimiter{}, &stubRepo{})
		w := postClaim(t, router, claimBody(t, valid))

		assert.Equal(t, http.StatusAccepted, w.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "clm-http-1", resp["claim_id"])
	})

	t.Run("malformed body", func(t *testing.T) {
		router := newTestRouter(&stubLimiter{}, &stubRepo{})
		w := postClaim(t, router, "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid amount", func(t *testing.T) {
		claim := valid
		claim.EstimatedAmount = 0
		router := newTestRouter(&stubLimiter{}, &stubRepo{})
		w := postClaim(t, router, claimBody(t, claim))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, models.FieldAmount, resp["field"])
	})

	t.Run("rate limited", func(t *testing.T) {
		router := newTestRouter(&stubLimiter{tooFrequent: true}, &stubRepo{})
		w := postClaim(t, router, claimBody(t, valid))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}

func TestGetClaimStateEndpoint(t *testing.T) {
	repo := &stubRepo{states: map[string]*models.ClaimStateInfo{
		"clm-http-2": {
			State:         string(models.StateUnderReview),
			PreviousState: string(models.StateSubmitting),
			Decision:      string(models.DecisionUnderReview),
		},
	}}
	router := newTestRouter(&stubLimiter{}, repo)

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/claims/clm-http-2/state", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, string(models.StateUnderReview), resp["state"])
		assert.Equal(t, string(models.DecisionUnderReview), resp["decision"])
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/claims/unknown/state", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
