package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/unidept/evoting/internal/domain"
	"github.com/unidept/evoting/internal/repository"
)

var (
	ErrPositionExists = repository.ErrPositionExists
)

type ElectionWriter interface {
	CreateElection(ctx context.Context, election domain.Election) (domain.Election, error)
	CreatePosition(ctx context.Context, position domain.Position) (domain.Position, error)
	CreateCandidate(ctx context.Context, candidate domain.Candidate) (domain.Candidate, error)
	FindByID(ctx context.Context, id uint) (domain.Election, error)
	FindPositionByID(ctx context.Context, id uint) (domain.Position, error)
}

// ElectionAdminService sets up the ballot of an election: the election
// itself, its positions and their candidates.
type ElectionAdminService struct {
	repo  ElectionWriter
	clock Clock
}

func NewElectionAdminService(repo ElectionWriter, clock Clock) *ElectionAdminService {
	return &ElectionAdminService{
		repo:  repo,
		clock: clock,
	}
}

func (s *ElectionAdminService) CreateElection(ctx context.Context, election domain.Election) (domain.Election, error) {
	if err := election.Validate(); err != nil {
		return domain.Election{}, err
	}

	election.Status = election.StatusAt(s.clock.now())

	created, err := s.repo.CreateElection(ctx, election)
	if err != nil {
		return domain.Election{}, fmt.Errorf("s.repo.CreateElection -> %w", err)
	}

	zap.L().Info("election created", zap.Uint("election_id", created.ID), zap.String("title", created.Title))

	return created, nil
}

func (s *ElectionAdminService) AddPosition(ctx context.Context, position domain.Position) (domain.Position, error) {
	if err := position.Validate(); err != nil {
		return domain.Position{}, err
	}

	if _, err := s.repo.FindByID(ctx, position.ElectionID); err != nil {
		return domain.Position{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	created, err := s.repo.CreatePosition(ctx, position)
	if err != nil {
		if errors.Is(err, ErrPositionExists) {
			return domain.Position{}, &domain.VoteError{
				Kind:       domain.KindValidationFailed,
				ElectionID: position.ElectionID,
				Position:   position.Name,
				Field:      "name",
				Reason:     "position already exists",
			}
		}

		return domain.Position{}, fmt.Errorf("s.repo.CreatePosition -> %w", err)
	}

	return created, nil
}

// AddCandidate registers a candidate for a position. Candidates are active
// unless the caller says otherwise.
func (s *ElectionAdminService) AddCandidate(ctx context.Context, candidate domain.Candidate) (domain.Candidate, error) {
	candidate.RegistrationNumber = domain.NormalizeRegistrationNumber(candidate.RegistrationNumber)
	if err := candidate.Validate(); err != nil {
		return domain.Candidate{}, err
	}

	position, err := s.repo.FindPositionByID(ctx, candidate.PositionID)
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("s.repo.FindPositionByID -> %w", err)
	}
	candidate.ElectionID = position.ElectionID

	created, err := s.repo.CreateCandidate(ctx, candidate)
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("s.repo.CreateCandidate -> %w", err)
	}

	zap.L().Info("candidate added",
		zap.Uint("candidate_id", created.ID),
		zap.Uint("position_id", created.PositionID),
		zap.Uint("election_id", created.ElectionID))

	return created, nil
}
