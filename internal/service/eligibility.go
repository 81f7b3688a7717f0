package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/unidept/evoting/internal/domain"
)

type VoterProfileReader interface {
	FindByUserID(ctx context.Context, userID uint) (domain.VoterProfile, error)
}

// Eligibility is the answer to "may this voter vote now". Kind is the
// first failing rule, KindUnknown when Eligible.
type Eligibility struct {
	Eligible       bool             `json:"eligible"`
	Kind           domain.ErrorKind `json:"-"`
	Reason         string           `json:"reason,omitempty"`
	VotedPositions []uint           `json:"voted_positions"`
}

// EligibilityChecker re-reads the voter profile and the election on every
// call.
type EligibilityChecker struct {
	voters    VoterProfileReader
	elections ElectionRepository
	votes     VoteReader
	clock     Clock
}

func NewEligibilityChecker(voters VoterProfileReader, elections ElectionRepository, votes VoteReader, clock Clock) *EligibilityChecker {
	return &EligibilityChecker{
		voters:    voters,
		elections: elections,
		votes:     votes,
		clock:     clock,
	}
}

// CheckEligibility returns nil when the voter may vote for every position in
// positionIDs. With no positions it asks whether any position of the
// election is still open to the voter.
//
// Rules are applied in order: registered, dues paid, verified, election
// active, not already voted.
func (c *EligibilityChecker) CheckEligibility(ctx context.Context, voterID, electionID uint, positionIDs []uint) error {
	election, err := c.checkVoterAndElection(ctx, voterID, electionID)
	if err != nil {
		return err
	}

	positions, err := c.elections.FindPositions(ctx, election.ID)
	if err != nil {
		return fmt.Errorf("c.elections.FindPositions -> %w", err)
	}
	byID := make(map[uint]domain.Position, len(positions))
	for _, p := range positions {
		byID[p.ID] = p
	}

	if len(positionIDs) == 0 {
		all := make([]uint, 0, len(positions))
		for _, p := range positions {
			all = append(all, p.ID)
		}

		voted, err := c.votes.VotedPositions(ctx, voterID, all)
		if err != nil {
			return fmt.Errorf("c.votes.VotedPositions -> %w", err)
		}
		if len(all) > 0 && len(voted) == len(all) {
			return &domain.VoteError{Kind: domain.KindAlreadyVoted, ElectionID: election.ID, Reason: "every position has been voted"}
		}

		return nil
	}

	for _, id := range positionIDs {
		if _, ok := byID[id]; !ok {
			return &domain.VoteError{
				Kind:       domain.KindInvalidCandidate,
				ElectionID: election.ID,
				PositionID: id,
				Reason:     "position is not part of this election",
			}
		}
	}

	return c.checkNotVoted(ctx, voterID, election.ID, positionIDs, byID)
}

// CanVote reports eligibility as a value. Only infrastructure failures and
// unknown elections are returned as errors.
func (c *EligibilityChecker) CanVote(ctx context.Context, voterID, electionID uint, positionIDs []uint) (Eligibility, error) {
	result := Eligibility{VotedPositions: []uint{}}

	err := c.CheckEligibility(ctx, voterID, electionID, positionIDs)
	if err != nil {
		var ve *domain.VoteError
		if !errors.As(err, &ve) {
			return Eligibility{}, err
		}
		result.Kind = ve.Kind
		result.Reason = ve.Error()
	} else {
		result.Eligible = true
	}

	if result.Kind == domain.KindNotRegistered {
		return result, nil
	}

	votes, err := c.votes.FindVotes(ctx, voterID, electionID)
	if err != nil {
		return Eligibility{}, fmt.Errorf("c.votes.FindVotes -> %w", err)
	}
	for _, v := range votes {
		result.VotedPositions = append(result.VotedPositions, v.PositionID)
	}

	return result, nil
}

func (c *EligibilityChecker) checkVoterAndElection(ctx context.Context, voterID, electionID uint) (domain.Election, error) {
	profile, err := c.voters.FindByUserID(ctx, voterID)
	if err != nil {
		return domain.Election{}, fmt.Errorf("c.voters.FindByUserID -> %w", err)
	}
	if !profile.HasPaidDues {
		return domain.Election{}, &domain.VoteError{Kind: domain.KindDuesUnpaid, ElectionID: electionID}
	}
	if !profile.IsVerified {
		return domain.Election{}, &domain.VoteError{Kind: domain.KindNotVerified, ElectionID: electionID}
	}

	election, err := c.elections.FindByID(ctx, electionID)
	if err != nil {
		return domain.Election{}, fmt.Errorf("c.elections.FindByID -> %w", err)
	}
	if !election.CanVoteAt(c.clock.now()) {
		return domain.Election{}, &domain.VoteError{
			Kind:       domain.KindElectionNotActive,
			ElectionID: election.ID,
			Reason:     "status is " + string(election.StatusAt(c.clock.now())),
		}
	}

	return election, nil
}

func (c *EligibilityChecker) checkNotVoted(ctx context.Context, voterID, electionID uint, positionIDs []uint, positions map[uint]domain.Position) error {
	voted, err := c.votes.VotedPositions(ctx, voterID, positionIDs)
	if err != nil {
		return fmt.Errorf("c.votes.VotedPositions -> %w", err)
	}
	if len(voted) > 0 {
		return &domain.VoteError{
			Kind:       domain.KindAlreadyVoted,
			ElectionID: electionID,
			PositionID: voted[0],
			Position:   positions[voted[0]].Name,
		}
	}

	return nil
}
