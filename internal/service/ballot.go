package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/unidept/evoting/internal/domain"
)

type BallotRepository interface {
	VoteReader
	StartSession(ctx context.Context, voterID, electionID uint, ip string, now time.Time) (domain.VotingSession, error)
	Cast(ctx context.Context, ballot domain.Ballot, sessionID uint, now time.Time) ([]domain.Vote, error)
}

type BallotRecorder interface {
	ObserveBallot(outcome string, votes int, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveBallot(string, int, time.Duration) {}

// BallotService casts ballots. All checks run before the first write and are
// repeated inside the write transaction.
type BallotService struct {
	checker   *EligibilityChecker
	elections ElectionRepository
	ballots   BallotRepository
	recorder  BallotRecorder
	clock     Clock
}

func NewBallotService(checker *EligibilityChecker, elections ElectionRepository, ballots BallotRepository, recorder BallotRecorder, clock Clock) *BallotService {
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &BallotService{
		checker:   checker,
		elections: elections,
		ballots:   ballots,
		recorder:  recorder,
		clock:     clock,
	}
}

// CastBallot persists every selection of the ballot or none of them.
func (s *BallotService) CastBallot(ctx context.Context, ballot domain.Ballot) (result domain.BallotResult, err error) {
	started := time.Now()
	defer func() {
		s.recorder.ObserveBallot(outcome(err), result.VotesCast, time.Since(started))
	}()

	if len(ballot.Selections) == 0 {
		return domain.BallotResult{}, &domain.VoteError{Kind: domain.KindEmptySelection, ElectionID: ballot.ElectionID}
	}

	election, err := s.checker.checkVoterAndElection(ctx, ballot.VoterID, ballot.ElectionID)
	if err != nil {
		return domain.BallotResult{}, err
	}

	positionIDs := ballot.PositionIDs()
	positions, err := s.validateSelections(ctx, election, ballot, positionIDs)
	if err != nil {
		return domain.BallotResult{}, err
	}

	if err = s.checker.checkNotVoted(ctx, ballot.VoterID, election.ID, positionIDs, positions); err != nil {
		return domain.BallotResult{}, err
	}

	now := s.clock.now()
	session, err := s.ballots.StartSession(ctx, ballot.VoterID, election.ID, ballot.IPAddress, now)
	if err != nil {
		return domain.BallotResult{}, fmt.Errorf("s.ballots.StartSession -> %w", err)
	}

	votes, err := s.ballots.Cast(ctx, ballot, session.ID, now)
	if err != nil {
		var ve *domain.VoteError
		if errors.As(err, &ve) {
			if ve.PositionID != 0 && ve.Position == "" {
				ve.Position = positions[ve.PositionID].Name
			}
			zap.L().Info("ballot rejected",
				zap.Uint("voter_id", ballot.VoterID),
				zap.Uint("election_id", election.ID),
				zap.Uint("session_id", session.ID),
				zap.Stringer("kind", ve.Kind))
			return domain.BallotResult{}, ve
		}

		return domain.BallotResult{}, fmt.Errorf("s.ballots.Cast -> %w", err)
	}

	result = domain.BallotResult{
		VotesCast: len(votes),
		VoteIDs:   make([]uint, 0, len(votes)),
		SessionID: session.ID,
	}
	for _, v := range votes {
		result.VoteIDs = append(result.VoteIDs, v.ID)
	}

	zap.L().Info("ballot cast",
		zap.Uint("voter_id", ballot.VoterID),
		zap.Uint("election_id", election.ID),
		zap.Uint("session_id", session.ID),
		zap.Int("votes", result.VotesCast))

	return result, nil
}

// CastSingleVote votes for one candidate through the same path as a full
// ballot.
func (s *BallotService) CastSingleVote(ctx context.Context, voterID, candidateID uint, ip string) (domain.BallotResult, error) {
	candidate, err := s.elections.FindCandidateByID(ctx, candidateID)
	if err != nil {
		return domain.BallotResult{}, fmt.Errorf("s.elections.FindCandidateByID -> %w", err)
	}

	return s.CastBallot(ctx, domain.Ballot{
		VoterID:    voterID,
		ElectionID: candidate.ElectionID,
		Selections: map[uint]uint{candidate.PositionID: candidate.ID},
		IPAddress:  ip,
	})
}

// validateSelections rejects any candidate that is unknown, withdrawn, or
// not standing for the selected position of this election.
func (s *BallotService) validateSelections(ctx context.Context, election domain.Election, ballot domain.Ballot, positionIDs []uint) (map[uint]domain.Position, error) {
	candidateIDs := make([]uint, 0, len(positionIDs))
	for _, positionID := range positionIDs {
		candidateIDs = append(candidateIDs, ballot.Selections[positionID])
	}

	candidates, err := s.elections.FindCandidates(ctx, candidateIDs)
	if err != nil {
		return nil, fmt.Errorf("s.elections.FindCandidates -> %w", err)
	}

	ballotPositions, err := s.elections.FindPositions(ctx, election.ID)
	if err != nil {
		return nil, fmt.Errorf("s.elections.FindPositions -> %w", err)
	}
	positions := make(map[uint]domain.Position, len(ballotPositions))
	for _, p := range ballotPositions {
		positions[p.ID] = p
	}

	for _, positionID := range positionIDs {
		candidateID := ballot.Selections[positionID]
		invalid := &domain.VoteError{
			Kind:        domain.KindInvalidCandidate,
			ElectionID:  election.ID,
			PositionID:  positionID,
			Position:    positions[positionID].Name,
			CandidateID: candidateID,
		}

		candidate, ok := candidates[candidateID]
		switch {
		case candidateID == 0 || !ok:
			invalid.Reason = "candidate does not exist"
		case candidate.ElectionID != election.ID:
			invalid.Reason = "candidate belongs to another election"
		case candidate.PositionID != positionID:
			invalid.Reason = "candidate is not standing for this position"
		case !candidate.IsActive:
			invalid.Reason = "candidate is not active"
		default:
			continue
		}

		return nil, invalid
	}

	return positions, nil
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	return domain.KindOf(err).String()
}
