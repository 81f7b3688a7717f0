package dao

import (
	"context"
	"errors"
	"sync"
	"time"
)

func (s *PostgresSuite) startSession(f fixture) VotingSession {
	session, err := NewVoteDAO(s.db).GetOrCreateSession(context.Background(), VotingSession{
		VoterID:    f.voter.ID,
		ElectionID: f.election.ID,
		StartedAt:  time.Now(),
	})
	s.Require().NoError(err)
	return session
}

func (s *PostgresSuite) TestInsertBallot() {
	f := s.seed(true, true)
	votes := NewVoteDAO(s.db)
	session := s.startSession(f)

	inserted, err := votes.InsertBallot(context.Background(), BallotInsert{
		VoterID:    f.voter.ID,
		ElectionID: f.election.ID,
		SessionID:  session.ID,
		Votes: []Vote{
			{CandidateID: f.presA.ID, PositionID: f.president.ID, IPAddress: "10.0.0.1"},
			{CandidateID: f.treasA.ID, PositionID: f.treasurer.ID, IPAddress: "10.0.0.1"},
		},
		Now: time.Now(),
	})
	s.Require().NoError(err)
	s.Len(inserted, 2)
	s.NotZero(inserted[0].ID)
	s.Equal(f.election.ID, inserted[1].ElectionID)
	s.EqualValues(2, s.countVotes(f.voter.ID))

	var stored VotingSession
	s.Require().NoError(s.db.First(&stored, session.ID).Error)
	s.True(stored.IsCompleted)
	s.NotNil(stored.CompletedAt)
}

func (s *PostgresSuite) TestInsertBallot_DuplicateRollsBackWholeBallot() {
	f := s.seed(true, true)
	votes := NewVoteDAO(s.db)
	session := s.startSession(f)
	ctx := context.Background()

	_, err := votes.InsertBallot(ctx, BallotInsert{
		VoterID:    f.voter.ID,
		ElectionID: f.election.ID,
		SessionID:  session.ID,
		Votes:      []Vote{{CandidateID: f.presA.ID, PositionID: f.president.ID}},
		Now:        time.Now(),
	})
	s.Require().NoError(err)

	_, err = votes.InsertBallot(ctx, BallotInsert{
		VoterID:    f.voter.ID,
		ElectionID: f.election.ID,
		SessionID:  session.ID,
		Votes: []Vote{
			{CandidateID: f.treasA.ID, PositionID: f.treasurer.ID},
			{CandidateID: f.presB.ID, PositionID: f.president.ID},
		},
		Now: time.Now(),
	})
	var dup *DuplicateVoteError
	s.Require().True(errors.As(err, &dup))
	s.Equal(f.president.ID, dup.PositionID)
	s.EqualValues(1, s.countVotes(f.voter.ID))

	voted, err := votes.FindVotedPositions(ctx, f.voter.ID, []uint{f.president.ID, f.treasurer.ID})
	s.Require().NoError(err)
	s.Equal([]uint{f.president.ID}, voted)
}

func (s *PostgresSuite) TestInsertBallot_EligibilityRechecked() {
	tests := []struct {
		name     string
		paid     bool
		verified bool
		want     error
	}{
		{name: "dues unpaid", paid: false, verified: true, want: ErrDuesUnpaid},
		{name: "not verified", paid: true, verified: false, want: ErrVoterNotVerified},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			f := s.seed(tt.paid, tt.verified)
			session := s.startSession(f)

			_, err := NewVoteDAO(s.db).InsertBallot(context.Background(), BallotInsert{
				VoterID:    f.voter.ID,
				ElectionID: f.election.ID,
				SessionID:  session.ID,
				Votes:      []Vote{{CandidateID: f.presA.ID, PositionID: f.president.ID}},
				Now:        time.Now(),
			})
			s.ErrorIs(err, tt.want)
			s.Zero(s.countVotes(f.voter.ID))
		})
	}
}

func (s *PostgresSuite) TestInsertBallot_ElectionWindow() {
	f := s.seed(true, true)
	session := s.startSession(f)

	_, err := NewVoteDAO(s.db).InsertBallot(context.Background(), BallotInsert{
		VoterID:    f.voter.ID,
		ElectionID: f.election.ID,
		SessionID:  session.ID,
		Votes:      []Vote{{CandidateID: f.presA.ID, PositionID: f.president.ID}},
		Now:        time.Now().Add(2 * time.Hour),
	})
	s.ErrorIs(err, ErrElectionNotOpen)

	s.Require().NoError(NewElectionDAO(s.db).CloseElection(context.Background(), f.election.ID))
	_, err = NewVoteDAO(s.db).InsertBallot(context.Background(), BallotInsert{
		VoterID:    f.voter.ID,
		ElectionID: f.election.ID,
		SessionID:  session.ID,
		Votes:      []Vote{{CandidateID: f.presA.ID, PositionID: f.president.ID}},
		Now:        time.Now(),
	})
	s.ErrorIs(err, ErrElectionNotOpen)
	s.Zero(s.countVotes(f.voter.ID))
}

func (s *PostgresSuite) TestInsertBallot_CrossElectionCandidateRejectedByForeignKey() {
	f := s.seed(true, true)
	session := s.startSession(f)

	_, err := NewVoteDAO(s.db).InsertBallot(context.Background(), BallotInsert{
		VoterID:    f.voter.ID,
		ElectionID: f.election.ID,
		SessionID:  session.ID,
		Votes: []Vote{
			{CandidateID: f.treasA.ID, PositionID: f.treasurer.ID},
			{CandidateID: f.otherCand.ID, PositionID: f.president.ID},
		},
		Now: time.Now(),
	})
	s.ErrorIs(err, ErrCandidateMismatch)
	s.Zero(s.countVotes(f.voter.ID))

	var stored VotingSession
	s.Require().NoError(s.db.First(&stored, session.ID).Error)
	s.False(stored.IsCompleted)
}

func (s *PostgresSuite) TestInsertBallot_ConcurrentSameVoter() {
	f := s.seed(true, true)
	session := s.startSession(f)
	votes := NewVoteDAO(s.db)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			candidate := f.presA.ID
			if i%2 == 1 {
				candidate = f.presB.ID
			}
			_, err := votes.InsertBallot(context.Background(), BallotInsert{
				VoterID:    f.voter.ID,
				ElectionID: f.election.ID,
				SessionID:  session.ID,
				Votes:      []Vote{{CandidateID: candidate, PositionID: f.president.ID}},
				Now:        time.Now(),
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			failures = append(failures, err)
		}(i)
	}
	wg.Wait()

	s.Equal(1, successes)
	for _, err := range failures {
		s.ErrorIs(err, ErrDuplicateVote)
	}
	s.EqualValues(1, s.countVotes(f.voter.ID))
}

func (s *PostgresSuite) TestGetOrCreateSession_ReusesSession() {
	f := s.seed(true, true)

	first := s.startSession(f)
	second := s.startSession(f)
	s.Equal(first.ID, second.ID)

	var n int64
	s.Require().NoError(s.db.Model(&VotingSession{}).Count(&n).Error)
	s.EqualValues(1, n)
}

func (s *PostgresSuite) TestCounts() {
	f := s.seed(true, true)
	ctx := context.Background()
	votes := NewVoteDAO(s.db)
	session := s.startSession(f)

	_, err := votes.InsertBallot(ctx, BallotInsert{
		VoterID:    f.voter.ID,
		ElectionID: f.election.ID,
		SessionID:  session.ID,
		Votes:      []Vote{{CandidateID: f.presB.ID, PositionID: f.president.ID}},
		Now:        time.Now(),
	})
	s.Require().NoError(err)

	counts, err := votes.CountVotesByCandidate(ctx, f.president.ID)
	s.Require().NoError(err)
	s.Equal(map[uint]int{f.presB.ID: 1}, counts)

	voters, err := votes.CountCompletedSessions(ctx, f.election.ID)
	s.Require().NoError(err)
	s.EqualValues(1, voters)

	found, err := votes.FindVotesByVoterAndElection(ctx, f.voter.ID, f.election.ID)
	s.Require().NoError(err)
	s.Len(found, 1)
}

func (s *PostgresSuite) TestInsertBallot_WithdrawnCandidateRollsBack() {
	f := s.seed(true, true)
	votes := NewVoteDAO(s.db)
	session := s.startSession(f)

	// Withdrawn after the caller validated the selection.
	s.Require().NoError(s.db.Model(&Candidate{}).Where("id = ?", f.treasA.ID).Update("is_active", false).Error)

	_, err := votes.InsertBallot(context.Background(), BallotInsert{
		VoterID:    f.voter.ID,
		ElectionID: f.election.ID,
		SessionID:  session.ID,
		Votes: []Vote{
			{CandidateID: f.presA.ID, PositionID: f.president.ID},
			{CandidateID: f.treasA.ID, PositionID: f.treasurer.ID},
		},
		Now: time.Now(),
	})

	var inactive *InactiveCandidateError
	s.Require().True(errors.As(err, &inactive))
	s.Equal(f.treasA.ID, inactive.CandidateID)
	s.ErrorIs(err, ErrCandidateInactive)
	s.EqualValues(0, s.countVotes(f.voter.ID))

	var stored VotingSession
	s.Require().NoError(s.db.First(&stored, session.ID).Error)
	s.False(stored.IsCompleted)
}
