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
	ErrAlreadyRegistered = repository.ErrVoterProfileExists
)

type VoterRepository interface {
	Create(ctx context.Context, profile domain.VoterProfile) (domain.VoterProfile, error)
	FindByUserID(ctx context.Context, userID uint) (domain.VoterProfile, error)
	MarkDuesPaid(ctx context.Context, userID uint) error
	SetVerified(ctx context.Context, userID uint, verified bool) error
}

type VoterService struct {
	repo VoterRepository
}

func NewVoterService(repo VoterRepository) *VoterService {
	return &VoterService{
		repo: repo,
	}
}

// Register creates the voter profile of a user. New profiles start unpaid
// and unverified.
func (s *VoterService) Register(ctx context.Context, profile domain.VoterProfile) (domain.VoterProfile, error) {
	profile.RegistrationNumber = domain.NormalizeRegistrationNumber(profile.RegistrationNumber)
	profile.HasPaidDues = false
	profile.IsVerified = false

	if err := profile.Validate(); err != nil {
		return domain.VoterProfile{}, err
	}

	created, err := s.repo.Create(ctx, profile)
	if err != nil {
		return domain.VoterProfile{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	zap.L().Info("voter registered",
		zap.Uint("user_id", created.UserID),
		zap.String("registration_number", created.RegistrationNumber))

	return created, nil
}

func (s *VoterService) GetProfile(ctx context.Context, userID uint) (domain.VoterProfile, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return domain.VoterProfile{}, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return profile, nil
}

// MarkDuesPaid is driven by payment events. A payment from a user without a
// voter profile is ignored.
func (s *VoterService) MarkDuesPaid(ctx context.Context, userID uint) error {
	err := s.repo.MarkDuesPaid(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrVoterProfileNotFound) {
			zap.L().Info("payment for user without voter profile", zap.Uint("user_id", userID))
			return nil
		}

		return fmt.Errorf("s.repo.MarkDuesPaid -> %w", err)
	}

	zap.L().Info("dues marked paid", zap.Uint("user_id", userID))

	return nil
}

func (s *VoterService) Verify(ctx context.Context, userID uint) error {
	err := s.repo.SetVerified(ctx, userID, true)
	if err != nil {
		if errors.Is(err, repository.ErrVoterProfileNotFound) {
			return &domain.VoteError{Kind: domain.KindNotRegistered}
		}

		return fmt.Errorf("s.repo.SetVerified -> %w", err)
	}

	zap.L().Info("voter verified", zap.Uint("user_id", userID))

	return nil
}
