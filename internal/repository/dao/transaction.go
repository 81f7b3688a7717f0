package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrDuesUnpaid        = errors.New("dues not paid")
	ErrVoterNotVerified  = errors.New("voter not verified")
	ErrElectionNotOpen   = errors.New("election not open for voting")
	ErrDuplicateVote     = errors.New("duplicate vote")
	ErrCandidateMismatch = errors.New("candidate does not belong to position")
	ErrCandidateInactive = errors.New("candidate is no longer active")
	ErrTxConflict        = errors.New("transaction conflict")
)

// DuplicateVoteError is returned when the voter already holds a vote for
// one of the ballot's positions.
type DuplicateVoteError struct {
	PositionID uint
}

func (e *DuplicateVoteError) Error() string {
	return fmt.Sprintf("duplicate vote for position %d", e.PositionID)
}

func (e *DuplicateVoteError) Unwrap() error {
	return ErrDuplicateVote
}

// InactiveCandidateError is returned when a selected candidate was
// withdrawn or no longer exists.
type InactiveCandidateError struct {
	CandidateID uint
}

func (e *InactiveCandidateError) Error() string {
	return fmt.Sprintf("candidate %d is not active", e.CandidateID)
}

func (e *InactiveCandidateError) Unwrap() error {
	return ErrCandidateInactive
}

type Vote struct {
	ID          uint      `gorm:"primaryKey"`
	VoterID     uint      `gorm:"not null"`
	CandidateID uint      `gorm:"not null"`
	PositionID  uint      `gorm:"not null"`
	ElectionID  uint      `gorm:"not null"`
	IPAddress   string    `gorm:"column:ip_address;not null;default:''"`
	CastAt      time.Time `gorm:"not null"`
}

type VotingSession struct {
	ID          uint      `gorm:"primaryKey"`
	VoterID     uint      `gorm:"not null"`
	ElectionID  uint      `gorm:"not null"`
	IPAddress   string    `gorm:"column:ip_address;not null;default:''"`
	StartedAt   time.Time `gorm:"not null"`
	CompletedAt *time.Time
	IsCompleted bool `gorm:"not null;default:false"`
}

func (VotingSession) TableName() string {
	return "voting_sessions"
}

// BallotInsert is everything the ballot transaction writes.
type BallotInsert struct {
	VoterID    uint
	ElectionID uint
	SessionID  uint
	Votes      []Vote
	Now        time.Time
}

type VoteDAO struct {
	db *gorm.DB
}

func NewVoteDAO(db *gorm.DB) *VoteDAO {
	return &VoteDAO{
		db: db,
	}
}

// FindVotedPositions returns, in ascending order, the positions among
// positionIDs for which the voter already has a vote.
func (d *VoteDAO) FindVotedPositions(ctx context.Context, voterID uint, positionIDs []uint) ([]uint, error) {
	return findVotedPositions(d.db.WithContext(ctx), voterID, positionIDs)
}

func findVotedPositions(db *gorm.DB, voterID uint, positionIDs []uint) ([]uint, error) {
	voted := []uint{}
	if len(positionIDs) == 0 {
		return voted, nil
	}

	result := db.Model(&Vote{}).
		Where("voter_id = ? AND position_id IN ?", voterID, positionIDs).
		Order("position_id").
		Pluck("position_id", &voted)
	if result.Error != nil {
		return nil, result.Error
	}

	return voted, nil
}

func (d *VoteDAO) FindVotesByVoterAndElection(ctx context.Context, voterID, electionID uint) ([]Vote, error) {
	var votes []Vote

	result := d.db.WithContext(ctx).
		Where("voter_id = ? AND election_id = ?", voterID, electionID).
		Order("position_id").
		Find(&votes)
	if result.Error != nil {
		return nil, result.Error
	}

	return votes, nil
}

// CountVotesByCandidate counts every vote of a position, grouped by candidate.
func (d *VoteDAO) CountVotesByCandidate(ctx context.Context, positionID uint) (map[uint]int, error) {
	var rows []struct {
		CandidateID uint
		Votes       int
	}

	result := d.db.WithContext(ctx).Model(&Vote{}).
		Select("candidate_id, COUNT(*) AS votes").
		Where("position_id = ?", positionID).
		Group("candidate_id").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[uint]int, len(rows))
	for _, row := range rows {
		counts[row.CandidateID] = row.Votes
	}

	return counts, nil
}

// CountCompletedSessions is the number of voters whose ballot for the
// election committed.
func (d *VoteDAO) CountCompletedSessions(ctx context.Context, electionID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&VotingSession{}).
		Where("election_id = ? AND is_completed = ?", electionID, true).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// GetOrCreateSession records the attempt outside the ballot transaction so
// it survives a rollback.
func (d *VoteDAO) GetOrCreateSession(ctx context.Context, session VotingSession) (VotingSession, error) {
	db := d.db.WithContext(ctx)

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "voter_id"}, {Name: "election_id"}},
		DoNothing: true,
	}).Create(&session)
	if result.Error != nil {
		return VotingSession{}, result.Error
	}

	var found VotingSession
	result = db.Where("voter_id = ? AND election_id = ?", session.VoterID, session.ElectionID).First(&found)
	if result.Error != nil {
		return VotingSession{}, result.Error
	}

	return found, nil
}

// InsertBallot writes all votes of a ballot or none of them. The voter's
// profile row is locked for the duration, so two submissions by the same
// voter are serialized and the second one sees the first one's votes.
func (d *VoteDAO) InsertBallot(ctx context.Context, ballot BallotInsert) ([]Vote, error) {
	votes := make([]Vote, len(ballot.Votes))
	copy(votes, ballot.Votes)

	positionIDs := make([]uint, 0, len(votes))
	candidateIDs := make([]uint, 0, len(votes))
	for i := range votes {
		votes[i].VoterID = ballot.VoterID
		votes[i].ElectionID = ballot.ElectionID
		votes[i].CastAt = ballot.Now
		positionIDs = append(positionIDs, votes[i].PositionID)
		candidateIDs = append(candidateIDs, votes[i].CandidateID)
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile VoterProfile
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", ballot.VoterID).
			First(&profile).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVoterProfileNotFound
			}
			return err
		}
		if !profile.HasPaidDues {
			return ErrDuesUnpaid
		}
		if !profile.IsVerified {
			return ErrVoterNotVerified
		}

		var election Election
		if err = tx.First(&election, ballot.ElectionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrElectionNotFound
			}
			return err
		}
		if election.ManuallyClosed || ballot.Now.Before(election.StartAt) || ballot.Now.After(election.EndAt) {
			return ErrElectionNotOpen
		}

		voted, err := findVotedPositions(tx, ballot.VoterID, positionIDs)
		if err != nil {
			return err
		}
		if len(voted) > 0 {
			return &DuplicateVoteError{PositionID: voted[0]}
		}

		if err = checkCandidatesActive(tx, candidateIDs); err != nil {
			return err
		}

		if err = tx.Omit(clause.Associations).Create(&votes).Error; err != nil {
			return err
		}

		return tx.Model(&VotingSession{}).
			Where("id = ? AND is_completed = ?", ballot.SessionID, false).
			Updates(map[string]interface{}{
				"is_completed": true,
				"completed_at": ballot.Now,
			}).Error
	}, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, mapBallotError(err)
	}

	return votes, nil
}

// checkCandidatesActive share-locks the selected candidates so that they
// cannot be withdrawn before the votes commit.
func checkCandidatesActive(tx *gorm.DB, candidateIDs []uint) error {
	var active []uint
	err := tx.Model(&Candidate{}).
		Clauses(clause.Locking{Strength: "SHARE"}).
		Where("id IN ? AND is_active = ?", candidateIDs, true).
		Pluck("id", &active).Error
	if err != nil {
		return err
	}

	seen := make(map[uint]bool, len(active))
	for _, id := range active {
		seen[id] = true
	}
	for _, id := range candidateIDs {
		if !seen[id] {
			return &InactiveCandidateError{CandidateID: id}
		}
	}

	return nil
}

func mapBallotError(err error) error {
	switch {
	case isUniqueViolation(err, "uni_votes_voter_position"), isUniqueViolation(err, "uni_votes_voter_candidate"):
		return ErrDuplicateVote
	case isRetryableConflict(err):
		return ErrTxConflict
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		return ErrCandidateMismatch
	}

	return err
}
