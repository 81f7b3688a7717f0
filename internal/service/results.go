package service

import (
	"context"
	"fmt"

	"github.com/unidept/evoting/internal/domain"
)

type VoteCounter interface {
	CountVotesByCandidate(ctx context.Context, positionID uint) (map[uint]int, error)
	CountVoters(ctx context.Context, electionID uint) (int, error)
}

// ResultsService tallies votes. Whether a caller may see the result is
// decided by the caller.
type ResultsService struct {
	elections ElectionRepository
	counter   VoteCounter
}

func NewResultsService(elections ElectionRepository, counter VoteCounter) *ResultsService {
	return &ResultsService{
		elections: elections,
		counter:   counter,
	}
}

func (s *ResultsService) Tally(ctx context.Context, positionID uint) (domain.PositionResult, error) {
	position, err := s.elections.FindPositionByID(ctx, positionID)
	if err != nil {
		return domain.PositionResult{}, fmt.Errorf("s.elections.FindPositionByID -> %w", err)
	}

	return s.tallyPosition(ctx, position)
}

// ElectionResults tallies every position of the election in ballot order.
func (s *ResultsService) ElectionResults(ctx context.Context, electionID uint) (domain.ElectionResults, error) {
	election, err := s.elections.FindByID(ctx, electionID)
	if err != nil {
		return domain.ElectionResults{}, fmt.Errorf("s.elections.FindByID -> %w", err)
	}

	positions, err := s.elections.FindPositions(ctx, electionID)
	if err != nil {
		return domain.ElectionResults{}, fmt.Errorf("s.elections.FindPositions -> %w", err)
	}

	results := domain.ElectionResults{
		Election:  election,
		Positions: make([]domain.PositionResult, 0, len(positions)),
	}
	for _, p := range positions {
		tallied, err := s.tallyPosition(ctx, p)
		if err != nil {
			return domain.ElectionResults{}, err
		}
		results.Positions = append(results.Positions, tallied)
	}

	results.TotalVoters, err = s.counter.CountVoters(ctx, electionID)
	if err != nil {
		return domain.ElectionResults{}, fmt.Errorf("s.counter.CountVoters -> %w", err)
	}

	return results, nil
}

func (s *ResultsService) tallyPosition(ctx context.Context, position domain.Position) (domain.PositionResult, error) {
	counts, err := s.counter.CountVotesByCandidate(ctx, position.ID)
	if err != nil {
		return domain.PositionResult{}, fmt.Errorf("s.counter.CountVotesByCandidate -> %w", err)
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	candidates := position.Candidates
	position.Candidates = nil

	return domain.PositionResult{
		Position:   position,
		Candidates: domain.Tally(candidates, counts, total),
		TotalVotes: total,
	}, nil
}
