package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/unidept/evoting/internal/domain"
)

// Clock returns the current time. Every status and eligibility decision is
// taken against it, never against a stored status.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

type ElectionRepository interface {
	FindAll(ctx context.Context) ([]domain.Election, error)
	FindByID(ctx context.Context, id uint) (domain.Election, error)
	UpdateStatus(ctx context.Context, id uint, status domain.ElectionStatus) error
	Close(ctx context.Context, id uint) error
	FindPositions(ctx context.Context, electionID uint) ([]domain.Position, error)
	FindPositionByID(ctx context.Context, id uint) (domain.Position, error)
	FindCandidateByID(ctx context.Context, id uint) (domain.Candidate, error)
	FindCandidates(ctx context.Context, ids []uint) (map[uint]domain.Candidate, error)
}

type VoteReader interface {
	VotedPositions(ctx context.Context, voterID uint, positionIDs []uint) ([]uint, error)
	FindVotes(ctx context.Context, voterID, electionID uint) ([]domain.Vote, error)
}

// ElectionDetail is an election's ballot as seen by one voter.
type ElectionDetail struct {
	Election       domain.Election `json:"election"`
	VotedPositions map[uint]bool   `json:"voted_positions"`
	Selections     map[uint]uint   `json:"selections"`
}

type ElectionService struct {
	repo  ElectionRepository
	votes VoteReader
	clock Clock
}

func NewElectionService(repo ElectionRepository, votes VoteReader, clock Clock) *ElectionService {
	return &ElectionService{
		repo:  repo,
		votes: votes,
		clock: clock,
	}
}

// RefreshStatus recomputes the status from the clock and persists it when
// the stored copy is stale.
func (s *ElectionService) RefreshStatus(ctx context.Context, election domain.Election) (domain.Election, error) {
	status := election.StatusAt(s.clock.now())
	if status == election.Status {
		return election, nil
	}

	if err := s.repo.UpdateStatus(ctx, election.ID, status); err != nil {
		return domain.Election{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	zap.L().Debug("election status refreshed",
		zap.Uint("election_id", election.ID),
		zap.String("from", string(election.Status)),
		zap.String("to", string(status)))

	election.Status = status

	return election, nil
}

func (s *ElectionService) ListElections(ctx context.Context) ([]domain.Election, error) {
	elections, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	for i := range elections {
		refreshed, err := s.RefreshStatus(ctx, elections[i])
		if err != nil {
			return nil, fmt.Errorf("s.RefreshStatus -> %w", err)
		}
		elections[i] = refreshed
	}

	return elections, nil
}

func (s *ElectionService) GetElection(ctx context.Context, electionID uint) (domain.Election, error) {
	election, err := s.repo.FindByID(ctx, electionID)
	if err != nil {
		return domain.Election{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	election, err = s.RefreshStatus(ctx, election)
	if err != nil {
		return domain.Election{}, fmt.Errorf("s.RefreshStatus -> %w", err)
	}

	return election, nil
}

// GetElectionDetail loads the ballot of an election together with what the
// voter has already chosen on it.
func (s *ElectionService) GetElectionDetail(ctx context.Context, electionID, voterID uint) (ElectionDetail, error) {
	election, err := s.GetElection(ctx, electionID)
	if err != nil {
		return ElectionDetail{}, err
	}

	election.Positions, err = s.repo.FindPositions(ctx, electionID)
	if err != nil {
		return ElectionDetail{}, fmt.Errorf("s.repo.FindPositions -> %w", err)
	}

	votes, err := s.votes.FindVotes(ctx, voterID, electionID)
	if err != nil {
		return ElectionDetail{}, fmt.Errorf("s.votes.FindVotes -> %w", err)
	}

	detail := ElectionDetail{
		Election:       election,
		VotedPositions: make(map[uint]bool, len(election.Positions)),
		Selections:     make(map[uint]uint, len(votes)),
	}
	for _, p := range election.Positions {
		detail.VotedPositions[p.ID] = false
	}
	for _, v := range votes {
		detail.VotedPositions[v.PositionID] = true
		detail.Selections[v.PositionID] = v.CandidateID
	}

	return detail, nil
}

// Close ends voting on an election regardless of its window.
func (s *ElectionService) Close(ctx context.Context, electionID uint) error {
	if err := s.repo.Close(ctx, electionID); err != nil {
		return fmt.Errorf("s.repo.Close -> %w", err)
	}

	zap.L().Info("election closed", zap.Uint("election_id", electionID))

	return nil
}
