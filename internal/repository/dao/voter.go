package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrVoterProfileExists      = errors.New("voter profile already exists")
	ErrVoterProfileNotFound    = errors.New("voter profile not found")
	ErrRegistrationNumberTaken = errors.New("registration number already registered")
)

type VoterProfile struct {
	ID                 uint   `gorm:"primaryKey"`
	UserID             uint   `gorm:"unique;not null"`
	RegistrationNumber string `gorm:"unique;not null"`
	Phone              string `gorm:"not null;default:''"`
	Level              string `gorm:"not null;default:''"`
	HasPaidDues        bool   `gorm:"not null;default:false"`
	IsVerified         bool   `gorm:"not null;default:false"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (VoterProfile) TableName() string {
	return "voter_profiles"
}

type VoterDAO struct {
	db *gorm.DB
}

func NewVoterDAO(db *gorm.DB) *VoterDAO {
	return &VoterDAO{
		db: db,
	}
}

func (d *VoterDAO) Insert(ctx context.Context, profile VoterProfile) (VoterProfile, error) {
	result := d.db.WithContext(ctx).Create(&profile)
	if result.Error != nil {
		switch {
		case isUniqueViolation(result.Error, "uni_voter_profiles_user_id"):
			return VoterProfile{}, ErrVoterProfileExists
		case isUniqueViolation(result.Error, "uni_voter_profiles_registration_number"):
			return VoterProfile{}, ErrRegistrationNumberTaken
		}

		return VoterProfile{}, result.Error
	}

	return profile, nil
}

func (d *VoterDAO) FindByUserID(ctx context.Context, userID uint) (VoterProfile, error) {
	var profile VoterProfile

	result := d.db.WithContext(ctx).First(&profile, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return VoterProfile{}, ErrVoterProfileNotFound
		}

		return VoterProfile{}, result.Error
	}

	return profile, nil
}

func (d *VoterDAO) SetDuesPaid(ctx context.Context, userID uint) error {
	return d.updateFlag(ctx, userID, "has_paid_dues", true)
}

func (d *VoterDAO) SetVerified(ctx context.Context, userID uint, verified bool) error {
	return d.updateFlag(ctx, userID, "is_verified", verified)
}

func (d *VoterDAO) updateFlag(ctx context.Context, userID uint, column string, value bool) error {
	result := d.db.WithContext(ctx).Model(&VoterProfile{}).Where("user_id = ?", userID).Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVoterProfileNotFound
	}

	return nil
}
