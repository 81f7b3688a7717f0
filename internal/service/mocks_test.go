package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/unidept/evoting/internal/domain"
)

type mockElectionRepository struct {
	mock.Mock
}

func (m *mockElectionRepository) FindAll(ctx context.Context) ([]domain.Election, error) {
	args := m.Called(ctx)
	elections, _ := args.Get(0).([]domain.Election)
	return elections, args.Error(1)
}

func (m *mockElectionRepository) FindByID(ctx context.Context, id uint) (domain.Election, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Election), args.Error(1)
}

func (m *mockElectionRepository) UpdateStatus(ctx context.Context, id uint, status domain.ElectionStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockElectionRepository) Close(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockElectionRepository) FindPositions(ctx context.Context, electionID uint) ([]domain.Position, error) {
	args := m.Called(ctx, electionID)
	positions, _ := args.Get(0).([]domain.Position)
	return positions, args.Error(1)
}

func (m *mockElectionRepository) FindPositionByID(ctx context.Context, id uint) (domain.Position, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Position), args.Error(1)
}

func (m *mockElectionRepository) FindCandidateByID(ctx context.Context, id uint) (domain.Candidate, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Candidate), args.Error(1)
}

func (m *mockElectionRepository) FindCandidates(ctx context.Context, ids []uint) (map[uint]domain.Candidate, error) {
	args := m.Called(ctx, ids)
	candidates, _ := args.Get(0).(map[uint]domain.Candidate)
	return candidates, args.Error(1)
}

type mockBallotRepository struct {
	mock.Mock
}

func (m *mockBallotRepository) VotedPositions(ctx context.Context, voterID uint, positionIDs []uint) ([]uint, error) {
	args := m.Called(ctx, voterID, positionIDs)
	voted, _ := args.Get(0).([]uint)
	return voted, args.Error(1)
}

func (m *mockBallotRepository) FindVotes(ctx context.Context, voterID, electionID uint) ([]domain.Vote, error) {
	args := m.Called(ctx, voterID, electionID)
	votes, _ := args.Get(0).([]domain.Vote)
	return votes, args.Error(1)
}

func (m *mockBallotRepository) StartSession(ctx context.Context, voterID, electionID uint, ip string, now time.Time) (domain.VotingSession, error) {
	args := m.Called(ctx, voterID, electionID, ip, now)
	return args.Get(0).(domain.VotingSession), args.Error(1)
}

func (m *mockBallotRepository) Cast(ctx context.Context, ballot domain.Ballot, sessionID uint, now time.Time) ([]domain.Vote, error) {
	args := m.Called(ctx, ballot, sessionID, now)
	votes, _ := args.Get(0).([]domain.Vote)
	return votes, args.Error(1)
}

func (m *mockBallotRepository) CountVotesByCandidate(ctx context.Context, positionID uint) (map[uint]int, error) {
	args := m.Called(ctx, positionID)
	counts, _ := args.Get(0).(map[uint]int)
	return counts, args.Error(1)
}

func (m *mockBallotRepository) CountVoters(ctx context.Context, electionID uint) (int, error) {
	args := m.Called(ctx, electionID)
	return args.Int(0), args.Error(1)
}

type mockVoterRepository struct {
	mock.Mock
}

func (m *mockVoterRepository) Create(ctx context.Context, profile domain.VoterProfile) (domain.VoterProfile, error) {
	args := m.Called(ctx, profile)
	return args.Get(0).(domain.VoterProfile), args.Error(1)
}

func (m *mockVoterRepository) FindByUserID(ctx context.Context, userID uint) (domain.VoterProfile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.VoterProfile), args.Error(1)
}

func (m *mockVoterRepository) MarkDuesPaid(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockVoterRepository) SetVerified(ctx context.Context, userID uint, verified bool) error {
	return m.Called(ctx, userID, verified).Error(0)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

type observation struct {
	outcome string
	votes   int
}

type fakeRecorder struct {
	observed []observation
}

func (r *fakeRecorder) ObserveBallot(outcome string, votes int, _ time.Duration) {
	r.observed = append(r.observed, observation{outcome: outcome, votes: votes})
}

var testNow = time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func activeElection(id uint) domain.Election {
	return domain.Election{
		ID:      id,
		Title:   "SUG 2024",
		StartAt: testNow.Add(-time.Hour),
		EndAt:   testNow.Add(time.Hour),
		Status:  domain.ElectionActive,
	}
}

func eligibleProfile(userID uint) domain.VoterProfile {
	return domain.VoterProfile{ID: 1, UserID: userID, RegistrationNumber: "22U/360016", HasPaidDues: true, IsVerified: true}
}

// mockElectionWriter reuses the read side of mockElectionRepository.
type mockElectionWriter struct {
	mockElectionRepository
}

func (m *mockElectionWriter) CreateElection(ctx context.Context, election domain.Election) (domain.Election, error) {
	args := m.Called(ctx, election)
	return args.Get(0).(domain.Election), args.Error(1)
}

func (m *mockElectionWriter) CreatePosition(ctx context.Context, position domain.Position) (domain.Position, error) {
	args := m.Called(ctx, position)
	return args.Get(0).(domain.Position), args.Error(1)
}

func (m *mockElectionWriter) CreateCandidate(ctx context.Context, candidate domain.Candidate) (domain.Candidate, error) {
	args := m.Called(ctx, candidate)
	return args.Get(0).(domain.Candidate), args.Error(1)
}
