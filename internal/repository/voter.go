package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/unidept/evoting/internal/domain"
	"github.com/unidept/evoting/internal/repository/dao"
)

var (
	ErrVoterProfileExists      = dao.ErrVoterProfileExists
	ErrVoterProfileNotFound    = dao.ErrVoterProfileNotFound
	ErrRegistrationNumberTaken = dao.ErrRegistrationNumberTaken
)

type VoterDAO interface {
	Insert(ctx context.Context, profile dao.VoterProfile) (dao.VoterProfile, error)
	FindByUserID(ctx context.Context, userID uint) (dao.VoterProfile, error)
	SetDuesPaid(ctx context.Context, userID uint) error
	SetVerified(ctx context.Context, userID uint, verified bool) error
}

type VoterRepository struct {
	dao VoterDAO
}

func NewVoterRepository(dao VoterDAO) *VoterRepository {
	return &VoterRepository{
		dao: dao,
	}
}

func (r *VoterRepository) Create(ctx context.Context, profile domain.VoterProfile) (domain.VoterProfile, error) {
	created, err := r.dao.Insert(ctx, dao.VoterProfile{
		UserID:             profile.UserID,
		RegistrationNumber: profile.RegistrationNumber,
		Phone:              profile.Phone,
		Level:              profile.Level,
		HasPaidDues:        profile.HasPaidDues,
		IsVerified:         profile.IsVerified,
	})
	if err != nil {
		if errors.Is(err, dao.ErrRegistrationNumberTaken) {
			return domain.VoterProfile{}, &domain.VoteError{
				Kind:   domain.KindValidationFailed,
				Field:  "registration_number",
				Reason: err.Error(),
			}
		}

		return domain.VoterProfile{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

// FindByUserID returns domain.ErrNotRegistered when the user has no profile.
func (r *VoterRepository) FindByUserID(ctx context.Context, userID uint) (domain.VoterProfile, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, dao.ErrVoterProfileNotFound) {
			return domain.VoterProfile{}, &domain.VoteError{Kind: domain.KindNotRegistered}
		}

		return domain.VoterProfile{}, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *VoterRepository) MarkDuesPaid(ctx context.Context, userID uint) error {
	if err := r.dao.SetDuesPaid(ctx, userID); err != nil {
		return fmt.Errorf("r.dao.SetDuesPaid -> %w", err)
	}

	return nil
}

func (r *VoterRepository) SetVerified(ctx context.Context, userID uint, verified bool) error {
	if err := r.dao.SetVerified(ctx, userID, verified); err != nil {
		return fmt.Errorf("r.dao.SetVerified -> %w", err)
	}

	return nil
}

func (r *VoterRepository) daoToDomain(p dao.VoterProfile) domain.VoterProfile {
	return domain.VoterProfile{
		ID:                 p.ID,
		UserID:             p.UserID,
		RegistrationNumber: p.RegistrationNumber,
		Phone:              p.Phone,
		Level:              p.Level,
		HasPaidDues:        p.HasPaidDues,
		IsVerified:         p.IsVerified,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
