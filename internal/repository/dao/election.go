package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrElectionNotFound  = errors.New("election not found")
	ErrPositionNotFound  = errors.New("position not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrPositionExists    = errors.New("position already exists in election")
)

type Election struct {
	ID               uint       `gorm:"primaryKey"`
	Title            string     `gorm:"not null"`
	Description      string     `gorm:"not null;default:''"`
	StartAt          time.Time  `gorm:"not null"`
	EndAt            time.Time  `gorm:"not null"`
	Status           string     `gorm:"not null;default:upcoming"`
	ManuallyClosed   bool       `gorm:"not null;default:false"`
	ShowResults      bool       `gorm:"not null;default:false"`
	ResultsPublished bool       `gorm:"not null;default:false"`
	Positions        []Position `gorm:"foreignKey:ElectionID"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Position struct {
	ID           uint        `gorm:"primaryKey"`
	ElectionID   uint        `gorm:"not null"`
	Name         string      `gorm:"not null"`
	DisplayOrder int         `gorm:"not null;default:0"`
	Candidates   []Candidate `gorm:"foreignKey:PositionID"`
}

type Candidate struct {
	ID                 uint     `gorm:"primaryKey"`
	PositionID         uint     `gorm:"not null"`
	Position           Position `gorm:"foreignKey:PositionID"`
	Name               string   `gorm:"not null"`
	RegistrationNumber string   `gorm:"not null"`
	Level              string   `gorm:"not null;default:''"`
	Manifesto          string   `gorm:"not null;default:''"`
	Slogan             string   `gorm:"not null;default:''"`
	IsActive           bool     `gorm:"not null"`
	CreatedAt          time.Time
}

type ElectionDAO struct {
	db *gorm.DB
}

func NewElectionDAO(db *gorm.DB) *ElectionDAO {
	return &ElectionDAO{
		db: db,
	}
}

func (d *ElectionDAO) InsertElection(ctx context.Context, election Election) (Election, error) {
	result := d.db.WithContext(ctx).Omit("Positions").Create(&election)
	if result.Error != nil {
		return Election{}, result.Error
	}

	return election, nil
}

func (d *ElectionDAO) InsertPosition(ctx context.Context, position Position) (Position, error) {
	result := d.db.WithContext(ctx).Omit("Candidates").Create(&position)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_positions_election_name") {
			return Position{}, ErrPositionExists
		}

		return Position{}, result.Error
	}

	return position, nil
}

func (d *ElectionDAO) InsertCandidate(ctx context.Context, candidate Candidate) (Candidate, error) {
	result := d.db.WithContext(ctx).Omit("Position").Create(&candidate)
	if result.Error != nil {
		return Candidate{}, result.Error
	}

	return candidate, nil
}

func (d *ElectionDAO) FindElections(ctx context.Context) ([]Election, error) {
	var elections []Election

	result := d.db.WithContext(ctx).Order("start_at DESC").Find(&elections)
	if result.Error != nil {
		return nil, result.Error
	}

	return elections, nil
}

func (d *ElectionDAO) FindElectionByID(ctx context.Context, id uint) (Election, error) {
	var election Election

	result := d.db.WithContext(ctx).First(&election, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Election{}, ErrElectionNotFound
		}

		return Election{}, result.Error
	}

	return election, nil
}

// UpdateElectionStatus stores the cached status without touching updated_at.
func (d *ElectionDAO) UpdateElectionStatus(ctx context.Context, id uint, status string) error {
	result := d.db.WithContext(ctx).Model(&Election{}).Where("id = ?", id).UpdateColumn("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrElectionNotFound
	}

	return nil
}

func (d *ElectionDAO) CloseElection(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Model(&Election{}).Where("id = ?", id).Updates(map[string]interface{}{
		"manually_closed": true,
		"status":          "closed",
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrElectionNotFound
	}

	return nil
}

// FindPositionsByElectionID returns the ballot in display order with the
// active candidates of every position, ordered by name.
func (d *ElectionDAO) FindPositionsByElectionID(ctx context.Context, electionID uint) ([]Position, error) {
	var positions []Position

	result := d.db.WithContext(ctx).
		Preload("Candidates", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("name, id")
		}).
		Where("election_id = ?", electionID).
		Order("display_order, name").
		Find(&positions)
	if result.Error != nil {
		return nil, result.Error
	}

	return positions, nil
}

func (d *ElectionDAO) FindPositionByID(ctx context.Context, id uint) (Position, error) {
	var position Position

	result := d.db.WithContext(ctx).
		Preload("Candidates", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("name, id")
		}).
		First(&position, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Position{}, ErrPositionNotFound
		}

		return Position{}, result.Error
	}

	return position, nil
}

func (d *ElectionDAO) FindCandidateByID(ctx context.Context, id uint) (Candidate, error) {
	var candidate Candidate

	result := d.db.WithContext(ctx).Joins("Position").First(&candidate, "candidates.id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Candidate{}, ErrCandidateNotFound
		}

		return Candidate{}, result.Error
	}

	return candidate, nil
}

// FindCandidatesByIDs loads the candidates with their position. Unknown ids
// are simply absent from the result.
func (d *ElectionDAO) FindCandidatesByIDs(ctx context.Context, ids []uint) ([]Candidate, error) {
	var candidates []Candidate
	if len(ids) == 0 {
		return candidates, nil
	}

	result := d.db.WithContext(ctx).Joins("Position").Where("candidates.id IN ?", ids).Find(&candidates)
	if result.Error != nil {
		return nil, result.Error
	}

	return candidates, nil
}
