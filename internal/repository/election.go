package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/unidept/evoting/internal/domain"
	"github.com/unidept/evoting/internal/repository/dao"
)

var (
	ErrPositionExists = dao.ErrPositionExists
)

type ElectionDAO interface {
	InsertElection(ctx context.Context, election dao.Election) (dao.Election, error)
	InsertPosition(ctx context.Context, position dao.Position) (dao.Position, error)
	InsertCandidate(ctx context.Context, candidate dao.Candidate) (dao.Candidate, error)
	FindElections(ctx context.Context) ([]dao.Election, error)
	FindElectionByID(ctx context.Context, id uint) (dao.Election, error)
	UpdateElectionStatus(ctx context.Context, id uint, status string) error
	CloseElection(ctx context.Context, id uint) error
	FindPositionsByElectionID(ctx context.Context, electionID uint) ([]dao.Position, error)
	FindPositionByID(ctx context.Context, id uint) (dao.Position, error)
	FindCandidateByID(ctx context.Context, id uint) (dao.Candidate, error)
	FindCandidatesByIDs(ctx context.Context, ids []uint) ([]dao.Candidate, error)
}

type ElectionRepository struct {
	dao ElectionDAO
}

func NewElectionRepository(dao ElectionDAO) *ElectionRepository {
	return &ElectionRepository{
		dao: dao,
	}
}

func (r *ElectionRepository) CreateElection(ctx context.Context, election domain.Election) (domain.Election, error) {
	status := election.Status
	if status == "" {
		status = domain.ElectionUpcoming
	}

	created, err := r.dao.InsertElection(ctx, dao.Election{
		Title:            election.Title,
		Description:      election.Description,
		StartAt:          election.StartAt,
		EndAt:            election.EndAt,
		Status:           string(status),
		ManuallyClosed:   election.ManuallyClosed,
		ShowResults:      election.ShowResults,
		ResultsPublished: election.ResultsPublished,
	})
	if err != nil {
		return domain.Election{}, fmt.Errorf("r.dao.InsertElection -> %w", err)
	}

	return r.electionDaoToDomain(created), nil
}

func (r *ElectionRepository) CreatePosition(ctx context.Context, position domain.Position) (domain.Position, error) {
	created, err := r.dao.InsertPosition(ctx, dao.Position{
		ElectionID:   position.ElectionID,
		Name:         string(position.Name),
		DisplayOrder: position.DisplayOrder,
	})
	if err != nil {
		return domain.Position{}, fmt.Errorf("r.dao.InsertPosition -> %w", err)
	}

	return r.positionDaoToDomain(created), nil
}

func (r *ElectionRepository) CreateCandidate(ctx context.Context, candidate domain.Candidate) (domain.Candidate, error) {
	created, err := r.dao.InsertCandidate(ctx, dao.Candidate{
		PositionID:         candidate.PositionID,
		Name:               candidate.Name,
		RegistrationNumber: candidate.RegistrationNumber,
		Level:              candidate.Level,
		Manifesto:          candidate.Manifesto,
		Slogan:             candidate.Slogan,
		IsActive:           candidate.IsActive,
	})
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("r.dao.InsertCandidate -> %w", err)
	}

	c := r.candidateDaoToDomain(created)
	c.ElectionID = candidate.ElectionID

	return c, nil
}

func (r *ElectionRepository) FindAll(ctx context.Context) ([]domain.Election, error) {
	found, err := r.dao.FindElections(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindElections -> %w", err)
	}

	elections := make([]domain.Election, 0, len(found))
	for _, e := range found {
		elections = append(elections, r.electionDaoToDomain(e))
	}

	return elections, nil
}

func (r *ElectionRepository) FindByID(ctx context.Context, id uint) (domain.Election, error) {
	found, err := r.dao.FindElectionByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrElectionNotFound) {
			return domain.Election{}, fmt.Errorf("r.dao.FindElectionByID -> %w", domain.ErrElectionNotFound)
		}

		return domain.Election{}, fmt.Errorf("r.dao.FindElectionByID -> %w", err)
	}

	return r.electionDaoToDomain(found), nil
}

func (r *ElectionRepository) UpdateStatus(ctx context.Context, id uint, status domain.ElectionStatus) error {
	if err := r.dao.UpdateElectionStatus(ctx, id, string(status)); err != nil {
		if errors.Is(err, dao.ErrElectionNotFound) {
			return fmt.Errorf("r.dao.UpdateElectionStatus -> %w", domain.ErrElectionNotFound)
		}

		return fmt.Errorf("r.dao.UpdateElectionStatus -> %w", err)
	}

	return nil
}

func (r *ElectionRepository) Close(ctx context.Context, id uint) error {
	if err := r.dao.CloseElection(ctx, id); err != nil {
		if errors.Is(err, dao.ErrElectionNotFound) {
			return fmt.Errorf("r.dao.CloseElection -> %w", domain.ErrElectionNotFound)
		}

		return fmt.Errorf("r.dao.CloseElection -> %w", err)
	}

	return nil
}

// FindPositions returns the election's positions in ballot order, each with
// its active candidates.
func (r *ElectionRepository) FindPositions(ctx context.Context, electionID uint) ([]domain.Position, error) {
	found, err := r.dao.FindPositionsByElectionID(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPositionsByElectionID -> %w", err)
	}

	positions := make([]domain.Position, 0, len(found))
	for _, p := range found {
		positions = append(positions, r.positionDaoToDomain(p))
	}

	return positions, nil
}

func (r *ElectionRepository) FindPositionByID(ctx context.Context, id uint) (domain.Position, error) {
	found, err := r.dao.FindPositionByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrPositionNotFound) {
			return domain.Position{}, fmt.Errorf("r.dao.FindPositionByID -> %w", domain.ErrPositionNotFound)
		}

		return domain.Position{}, fmt.Errorf("r.dao.FindPositionByID -> %w", err)
	}

	return r.positionDaoToDomain(found), nil
}

func (r *ElectionRepository) FindCandidateByID(ctx context.Context, id uint) (domain.Candidate, error) {
	found, err := r.dao.FindCandidateByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrCandidateNotFound) {
			return domain.Candidate{}, fmt.Errorf("r.dao.FindCandidateByID -> %w", domain.ErrCandidateNotFound)
		}

		return domain.Candidate{}, fmt.Errorf("r.dao.FindCandidateByID -> %w", err)
	}

	return r.candidateDaoToDomain(found), nil
}

// FindCandidates maps candidate id to candidate for the ids that exist.
func (r *ElectionRepository) FindCandidates(ctx context.Context, ids []uint) (map[uint]domain.Candidate, error) {
	found, err := r.dao.FindCandidatesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCandidatesByIDs -> %w", err)
	}

	candidates := make(map[uint]domain.Candidate, len(found))
	for _, c := range found {
		candidates[c.ID] = r.candidateDaoToDomain(c)
	}

	return candidates, nil
}

func (r *ElectionRepository) electionDaoToDomain(e dao.Election) domain.Election {
	election := domain.Election{
		ID:               e.ID,
		Title:            e.Title,
		Description:      e.Description,
		StartAt:          e.StartAt,
		EndAt:            e.EndAt,
		Status:           domain.ElectionStatus(e.Status),
		ManuallyClosed:   e.ManuallyClosed,
		ShowResults:      e.ShowResults,
		ResultsPublished: e.ResultsPublished,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
	for _, p := range e.Positions {
		election.Positions = append(election.Positions, r.positionDaoToDomain(p))
	}

	return election
}

func (r *ElectionRepository) positionDaoToDomain(p dao.Position) domain.Position {
	name := domain.PositionName(p.Name)
	position := domain.Position{
		ID:           p.ID,
		ElectionID:   p.ElectionID,
		Name:         name,
		Label:        name.Label(),
		DisplayOrder: p.DisplayOrder,
		Candidates:   make([]domain.Candidate, 0, len(p.Candidates)),
	}
	for _, c := range p.Candidates {
		candidate := r.candidateDaoToDomain(c)
		candidate.ElectionID = p.ElectionID
		position.Candidates = append(position.Candidates, candidate)
	}

	return position
}

func (r *ElectionRepository) candidateDaoToDomain(c dao.Candidate) domain.Candidate {
	return domain.Candidate{
		ID:                 c.ID,
		PositionID:         c.PositionID,
		ElectionID:         c.Position.ElectionID,
		Name:               c.Name,
		RegistrationNumber: c.RegistrationNumber,
		Level:              c.Level,
		Manifesto:          c.Manifesto,
		Slogan:             c.Slogan,
		IsActive:           c.IsActive,
		CreatedAt:          c.CreatedAt,
	}
}
