package v1

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/unidept/evoting/internal/domain"
)

func newBallotRouter(svc *mockBallotService, userID uint) http.Handler {
	h := NewBallotHandler(svc)
	r := newTestRouter(userID, false)
	r.POST("/elections/:electionID/ballot", h.HandleCastBallot)
	r.POST("/candidates/:candidateID/vote", h.HandleCastVote)

	return r
}

func TestHandleCastBallot_Success(t *testing.T) {
	svc := &mockBallotService{}
	want := domain.Ballot{
		VoterID:    7,
		ElectionID: 3,
		Selections: map[uint]uint{10: 100, 11: 110},
		IPAddress:  "192.0.2.10",
	}
	svc.On("CastBallot", mock.Anything, want).
		Return(domain.BallotResult{VotesCast: 2, VoteIDs: []uint{1, 2}, SessionID: 5}, nil)

	w, body := doRequest(t, newBallotRouter(svc, 7), http.MethodPost, "/elections/3/ballot",
		`{"selections": {"10": 100, "11": 110}}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(2), body["votes_cast"])
	assert.Equal(t, float64(5), body["session_id"])
	assert.Equal(t, []interface{}{float64(1), float64(2)}, body["vote_ids"])
	svc.AssertExpectations(t)
}

func TestHandleCastBallot_Errors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		status      int
		code        string
		remediation string
	}{
		{
			name:        "not registered",
			err:         &domain.VoteError{Kind: domain.KindNotRegistered},
			status:      http.StatusForbidden,
			code:        "not_registered",
			remediation: "register",
		},
		{
			name:        "dues unpaid",
			err:         &domain.VoteError{Kind: domain.KindDuesUnpaid},
			status:      http.StatusForbidden,
			code:        "dues_unpaid",
			remediation: "pay_dues",
		},
		{
			name:   "already voted",
			err:    &domain.VoteError{Kind: domain.KindAlreadyVoted, PositionID: 10},
			status: http.StatusConflict,
			code:   "already_voted",
		},
		{
			name:   "election closed",
			err:    &domain.VoteError{Kind: domain.KindElectionNotActive, ElectionID: 3},
			status: http.StatusConflict,
			code:   "election_not_active",
		},
		{
			name:   "invalid candidate",
			err:    &domain.VoteError{Kind: domain.KindInvalidCandidate, CandidateID: 100},
			status: http.StatusBadRequest,
			code:   "invalid_candidate",
		},
		{
			name:   "storage failure",
			err:    errors.New("connection reset"),
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBallotService{}
			svc.On("CastBallot", mock.Anything, mock.Anything).Return(domain.BallotResult{}, tt.err)

			w, body := doRequest(t, newBallotRouter(svc, 7), http.MethodPost, "/elections/3/ballot",
				`{"selections": {"10": 100}}`)

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, body["error_code"])
			}
			if tt.remediation != "" {
				assert.Equal(t, tt.remediation, body["remediation"])
			}
		})
	}
}

func TestHandleCastBallot_EmptySelectionReachesService(t *testing.T) {
	svc := &mockBallotService{}
	svc.On("CastBallot", mock.Anything, mock.MatchedBy(func(b domain.Ballot) bool {
		return len(b.Selections) == 0
	})).Return(domain.BallotResult{}, &domain.VoteError{Kind: domain.KindEmptySelection})

	w, body := doRequest(t, newBallotRouter(svc, 7), http.MethodPost, "/elections/3/ballot", `{"selections": {}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "empty_selection", body["error_code"])
	svc.AssertExpectations(t)
}

func TestHandleCastBallot_BadInput(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "non numeric position", path: "/elections/3/ballot", body: `{"selections": {"abc": 100}}`},
		{name: "same position spelled twice", path: "/elections/3/ballot", body: `{"selections": {"12": 5, "012": 6}}`},
		{name: "zero candidate", path: "/elections/3/ballot", body: `{"selections": {"10": 0}}`},
		{name: "bad election id", path: "/elections/x/ballot", body: `{"selections": {"10": 100}}`},
		{name: "malformed json", path: "/elections/3/ballot", body: `{"selections":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBallotService{}

			w, _ := doRequest(t, newBallotRouter(svc, 7), http.MethodPost, tt.path, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			svc.AssertNotCalled(t, "CastBallot", mock.Anything, mock.Anything)
		})
	}
}

func TestHandleCastBallot_Unauthenticated(t *testing.T) {
	svc := &mockBallotService{}

	w, _ := doRequest(t, newBallotRouter(svc, 0), http.MethodPost, "/elections/3/ballot", `{"selections": {"10": 100}}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "CastBallot", mock.Anything, mock.Anything)
}

func TestHandleCastBallot_ElectionNotFound(t *testing.T) {
	svc := &mockBallotService{}
	svc.On("CastBallot", mock.Anything, mock.Anything).Return(domain.BallotResult{}, domain.ErrElectionNotFound)

	w, _ := doRequest(t, newBallotRouter(svc, 7), http.MethodPost, "/elections/99/ballot", `{"selections": {"10": 100}}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleCastVote(t *testing.T) {
	svc := &mockBallotService{}
	svc.On("CastSingleVote", mock.Anything, uint(7), uint(100), "192.0.2.10").
		Return(domain.BallotResult{VotesCast: 1, VoteIDs: []uint{9}, SessionID: 4}, nil)

	w, body := doRequest(t, newBallotRouter(svc, 7), http.MethodPost, "/candidates/100/vote", "")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(1), body["votes_cast"])
	svc.AssertExpectations(t)
}

func TestHandleCastVote_CandidateNotFound(t *testing.T) {
	svc := &mockBallotService{}
	svc.On("CastSingleVote", mock.Anything, uint(7), uint(100), mock.Anything).
		Return(domain.BallotResult{}, domain.ErrCandidateNotFound)

	w, _ := doRequest(t, newBallotRouter(svc, 7), http.MethodPost, "/candidates/100/vote", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
