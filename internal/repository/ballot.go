package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/unidept/evoting/internal/domain"
	"github.com/unidept/evoting/internal/repository/dao"
)

type VoteDAO interface {
	FindVotedPositions(ctx context.Context, voterID uint, positionIDs []uint) ([]uint, error)
	FindVotesByVoterAndElection(ctx context.Context, voterID, electionID uint) ([]dao.Vote, error)
	CountVotesByCandidate(ctx context.Context, positionID uint) (map[uint]int, error)
	CountCompletedSessions(ctx context.Context, electionID uint) (int64, error)
	GetOrCreateSession(ctx context.Context, session dao.VotingSession) (dao.VotingSession, error)
	InsertBallot(ctx context.Context, ballot dao.BallotInsert) ([]dao.Vote, error)
}

type BallotRepository struct {
	dao VoteDAO
}

func NewBallotRepository(dao VoteDAO) *BallotRepository {
	return &BallotRepository{
		dao: dao,
	}
}

func (r *BallotRepository) VotedPositions(ctx context.Context, voterID uint, positionIDs []uint) ([]uint, error) {
	voted, err := r.dao.FindVotedPositions(ctx, voterID, positionIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindVotedPositions -> %w", err)
	}

	return voted, nil
}

func (r *BallotRepository) FindVotes(ctx context.Context, voterID, electionID uint) ([]domain.Vote, error) {
	found, err := r.dao.FindVotesByVoterAndElection(ctx, voterID, electionID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindVotesByVoterAndElection -> %w", err)
	}

	votes := make([]domain.Vote, 0, len(found))
	for _, v := range found {
		votes = append(votes, r.voteDaoToDomain(v))
	}

	return votes, nil
}

func (r *BallotRepository) CountVotesByCandidate(ctx context.Context, positionID uint) (map[uint]int, error) {
	counts, err := r.dao.CountVotesByCandidate(ctx, positionID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CountVotesByCandidate -> %w", err)
	}

	return counts, nil
}

func (r *BallotRepository) CountVoters(ctx context.Context, electionID uint) (int, error) {
	count, err := r.dao.CountCompletedSessions(ctx, electionID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountCompletedSessions -> %w", err)
	}

	return int(count), nil
}

// StartSession returns the voter's session for the election, creating it on
// the first attempt.
func (r *BallotRepository) StartSession(ctx context.Context, voterID, electionID uint, ip string, now time.Time) (domain.VotingSession, error) {
	session, err := r.dao.GetOrCreateSession(ctx, dao.VotingSession{
		VoterID:    voterID,
		ElectionID: electionID,
		IPAddress:  ip,
		StartedAt:  now,
	})
	if err != nil {
		return domain.VotingSession{}, fmt.Errorf("r.dao.GetOrCreateSession -> %w", err)
	}

	return domain.VotingSession{
		ID:          session.ID,
		VoterID:     session.VoterID,
		ElectionID:  session.ElectionID,
		IPAddress:   session.IPAddress,
		StartedAt:   session.StartedAt,
		CompletedAt: session.CompletedAt,
		IsCompleted: session.IsCompleted,
	}, nil
}

// Cast persists every selection of the ballot in one transaction. Failures
// come back as *domain.VoteError with nothing written.
func (r *BallotRepository) Cast(ctx context.Context, ballot domain.Ballot, sessionID uint, now time.Time) ([]domain.Vote, error) {
	positionIDs := ballot.PositionIDs()

	votes := make([]dao.Vote, 0, len(positionIDs))
	for _, positionID := range positionIDs {
		votes = append(votes, dao.Vote{
			CandidateID: ballot.Selections[positionID],
			PositionID:  positionID,
			IPAddress:   ballot.IPAddress,
		})
	}

	inserted, err := r.dao.InsertBallot(ctx, dao.BallotInsert{
		VoterID:    ballot.VoterID,
		ElectionID: ballot.ElectionID,
		SessionID:  sessionID,
		Votes:      votes,
		Now:        now,
	})
	if err != nil {
		return nil, r.ballotError(ctx, ballot, positionIDs, err)
	}

	cast := make([]domain.Vote, 0, len(inserted))
	for _, v := range inserted {
		cast = append(cast, r.voteDaoToDomain(v))
	}

	return cast, nil
}

func (r *BallotRepository) ballotError(ctx context.Context, ballot domain.Ballot, positionIDs []uint, err error) error {
	var (
		dup      *dao.DuplicateVoteError
		inactive *dao.InactiveCandidateError
	)

	switch {
	case errors.As(err, &dup):
		return &domain.VoteError{Kind: domain.KindAlreadyVoted, ElectionID: ballot.ElectionID, PositionID: dup.PositionID}
	case errors.As(err, &inactive):
		return &domain.VoteError{
			Kind:        domain.KindInvalidCandidate,
			ElectionID:  ballot.ElectionID,
			CandidateID: inactive.CandidateID,
			Reason:      "candidate is not active",
		}
	case errors.Is(err, dao.ErrVoterProfileNotFound):
		return &domain.VoteError{Kind: domain.KindNotRegistered}
	case errors.Is(err, dao.ErrDuesUnpaid):
		return &domain.VoteError{Kind: domain.KindDuesUnpaid}
	case errors.Is(err, dao.ErrVoterNotVerified):
		return &domain.VoteError{Kind: domain.KindNotVerified}
	case errors.Is(err, dao.ErrElectionNotOpen):
		return &domain.VoteError{Kind: domain.KindElectionNotActive, ElectionID: ballot.ElectionID}
	case errors.Is(err, dao.ErrElectionNotFound):
		return fmt.Errorf("r.dao.InsertBallot -> %w", domain.ErrElectionNotFound)
	case errors.Is(err, dao.ErrCandidateMismatch):
		return &domain.VoteError{Kind: domain.KindInvalidCandidate, ElectionID: ballot.ElectionID}
	case errors.Is(err, dao.ErrDuplicateVote), errors.Is(err, dao.ErrTxConflict):
		// The transaction lost a race. Whatever committed first decides
		// what the caller is told.
		voted, readErr := r.dao.FindVotedPositions(ctx, ballot.VoterID, positionIDs)
		if readErr == nil && len(voted) > 0 {
			return &domain.VoteError{Kind: domain.KindAlreadyVoted, ElectionID: ballot.ElectionID, PositionID: voted[0]}
		}
		return &domain.VoteError{Kind: domain.KindTransactionConflict, ElectionID: ballot.ElectionID}
	}

	return fmt.Errorf("r.dao.InsertBallot -> %w", err)
}

func (r *BallotRepository) voteDaoToDomain(v dao.Vote) domain.Vote {
	return domain.Vote{
		ID:          v.ID,
		VoterID:     v.VoterID,
		CandidateID: v.CandidateID,
		PositionID:  v.PositionID,
		ElectionID:  v.ElectionID,
		IPAddress:   v.IPAddress,
		CastAt:      v.CastAt,
	}
}
