package v1

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/unidept/evoting/internal/api/middleware"
	"github.com/unidept/evoting/internal/domain"
	"github.com/unidept/evoting/internal/service"
)

type mockBallotService struct {
	mock.Mock
}

func (m *mockBallotService) CastBallot(ctx context.Context, ballot domain.Ballot) (domain.BallotResult, error) {
	args := m.Called(ctx, ballot)
	return args.Get(0).(domain.BallotResult), args.Error(1)
}

func (m *mockBallotService) CastSingleVote(ctx context.Context, voterID, candidateID uint, ip string) (domain.BallotResult, error) {
	args := m.Called(ctx, voterID, candidateID, ip)
	return args.Get(0).(domain.BallotResult), args.Error(1)
}

type mockElectionService struct {
	mock.Mock
}

func (m *mockElectionService) ListElections(ctx context.Context) ([]domain.Election, error) {
	args := m.Called(ctx)
	elections, _ := args.Get(0).([]domain.Election)
	return elections, args.Error(1)
}

func (m *mockElectionService) GetElection(ctx context.Context, electionID uint) (domain.Election, error) {
	args := m.Called(ctx, electionID)
	return args.Get(0).(domain.Election), args.Error(1)
}

func (m *mockElectionService) GetElectionDetail(ctx context.Context, electionID, voterID uint) (service.ElectionDetail, error) {
	args := m.Called(ctx, electionID, voterID)
	return args.Get(0).(service.ElectionDetail), args.Error(1)
}

func (m *mockElectionService) Close(ctx context.Context, electionID uint) error {
	return m.Called(ctx, electionID).Error(0)
}

type mockEligibilityService struct {
	mock.Mock
}

func (m *mockEligibilityService) CanVote(ctx context.Context, voterID, electionID uint, positionIDs []uint) (service.Eligibility, error) {
	args := m.Called(ctx, voterID, electionID, positionIDs)
	return args.Get(0).(service.Eligibility), args.Error(1)
}

type mockResultsService struct {
	mock.Mock
}

func (m *mockResultsService) Tally(ctx context.Context, positionID uint) (domain.PositionResult, error) {
	args := m.Called(ctx, positionID)
	return args.Get(0).(domain.PositionResult), args.Error(1)
}

func (m *mockResultsService) ElectionResults(ctx context.Context, electionID uint) (domain.ElectionResults, error) {
	args := m.Called(ctx, electionID)
	return args.Get(0).(domain.ElectionResults), args.Error(1)
}

type mockAdminService struct {
	mock.Mock
}

func (m *mockAdminService) CreateElection(ctx context.Context, election domain.Election) (domain.Election, error) {
	args := m.Called(ctx, election)
	return args.Get(0).(domain.Election), args.Error(1)
}

func (m *mockAdminService) AddPosition(ctx context.Context, position domain.Position) (domain.Position, error) {
	args := m.Called(ctx, position)
	return args.Get(0).(domain.Position), args.Error(1)
}

func (m *mockAdminService) AddCandidate(ctx context.Context, candidate domain.Candidate) (domain.Candidate, error) {
	args := m.Called(ctx, candidate)
	return args.Get(0).(domain.Candidate), args.Error(1)
}

// newTestRouter stands in for VerifyJWT. A zero userID leaves the request
// unauthenticated.
func newTestRouter(userID uint, isStaff bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(ctx *gin.Context) {
		if userID != 0 {
			ctx.Set(middleware.ContextUserID, userID)
		}
		ctx.Set(middleware.ContextIsStaff, isStaff)
		ctx.Next()
	})

	return r
}

func doRequest(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.10:52000"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var got map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	}

	return w, got
}
