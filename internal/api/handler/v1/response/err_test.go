package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unidept/evoting/internal/domain"
)

func TestErrVoting(t *testing.T) {
	tests := []struct {
		err         error
		status      int
		code        string
		remediation string
	}{
		{err: &domain.VoteError{Kind: domain.KindNotRegistered}, status: http.StatusForbidden, code: "not_registered", remediation: "register"},
		{err: &domain.VoteError{Kind: domain.KindDuesUnpaid}, status: http.StatusForbidden, code: "dues_unpaid", remediation: "pay_dues"},
		{err: &domain.VoteError{Kind: domain.KindNotVerified}, status: http.StatusForbidden, code: "not_verified", remediation: "await_verification"},
		{err: &domain.VoteError{Kind: domain.KindElectionNotActive}, status: http.StatusConflict, code: "election_not_active"},
		{err: fmt.Errorf("wrapped -> %w", &domain.VoteError{Kind: domain.KindAlreadyVoted}), status: http.StatusConflict, code: "already_voted"},
		{err: &domain.VoteError{Kind: domain.KindTransactionConflict}, status: http.StatusConflict, code: "transaction_conflict"},
		{err: &domain.VoteError{Kind: domain.KindInvalidCandidate}, status: http.StatusBadRequest, code: "invalid_candidate"},
		{err: domain.ErrEmptySelection, status: http.StatusBadRequest, code: "empty_selection"},
		{err: &domain.VoteError{Kind: domain.KindValidationFailed}, status: http.StatusBadRequest, code: "validation_failed"},
		{err: errors.New("db down"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got := ErrVoting(tt.err)
			assert.Equal(t, tt.status, got.StatusCode)
			assert.Equal(t, tt.code, got.ErrorCode)
			assert.Equal(t, tt.remediation, got.Remediation)
		})
	}
}

func TestErrVoting_Context(t *testing.T) {
	got := ErrVoting(&domain.VoteError{
		Kind:       domain.KindAlreadyVoted,
		ElectionID: 3,
		PositionID: 12,
		Position:   domain.PositionTreasurer,
	})

	assert.Equal(t, "already voted for Treasurer in election 3", got.ErrorMsg)
	assert.Equal(t, map[string]interface{}{
		"election_id": uint(3),
		"position_id": uint(12),
		"position":    domain.PositionTreasurer,
	}, got.Context)
}

func TestRenderErr(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	RenderErr(ctx, ErrVoting(&domain.VoteError{Kind: domain.KindDuesUnpaid}))

	assert.Equal(t, http.StatusForbidden, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "dues_unpaid", body["error_code"])
	assert.Equal(t, "pay_dues", body["remediation"])
	assert.True(t, ctx.IsAborted())
}
