package dao

import (
	"context"
)

func (s *PostgresSuite) TestInsertPosition_DuplicateName() {
	f := s.seed(true, true)

	_, err := NewElectionDAO(s.db).InsertPosition(context.Background(), Position{ElectionID: f.election.ID, Name: "president"})
	s.ErrorIs(err, ErrPositionExists)
}

func (s *PostgresSuite) TestFindPositionsByElectionID_ActiveCandidatesOnly() {
	f := s.seed(true, true)
	ctx := context.Background()
	elections := NewElectionDAO(s.db)

	_, err := elections.InsertCandidate(ctx, Candidate{PositionID: f.president.ID, Name: "Withdrawn", RegistrationNumber: "21U/100009", IsActive: false})
	s.Require().NoError(err)

	positions, err := elections.FindPositionsByElectionID(ctx, f.election.ID)
	s.Require().NoError(err)
	s.Require().Len(positions, 2)
	s.Equal("president", positions[0].Name)
	s.Len(positions[0].Candidates, 2)
	s.Equal("treasurer", positions[1].Name)
}

func (s *PostgresSuite) TestFindCandidatesByIDs_LoadsPosition() {
	f := s.seed(true, true)

	candidates, err := NewElectionDAO(s.db).FindCandidatesByIDs(context.Background(), []uint{f.presA.ID, f.otherCand.ID, 9999})
	s.Require().NoError(err)
	s.Require().Len(candidates, 2)

	byID := map[uint]Candidate{}
	for _, c := range candidates {
		byID[c.ID] = c
	}
	s.Equal(f.election.ID, byID[f.presA.ID].Position.ElectionID)
	s.Equal(f.otherElect.ID, byID[f.otherCand.ID].Position.ElectionID)
}

func (s *PostgresSuite) TestElectionStatusAndClose() {
	f := s.seed(true, true)
	ctx := context.Background()
	elections := NewElectionDAO(s.db)

	s.Require().NoError(elections.UpdateElectionStatus(ctx, f.election.ID, "closed"))
	s.ErrorIs(elections.UpdateElectionStatus(ctx, 9999, "closed"), ErrElectionNotFound)

	s.Require().NoError(elections.CloseElection(ctx, f.election.ID))
	found, err := elections.FindElectionByID(ctx, f.election.ID)
	s.Require().NoError(err)
	s.True(found.ManuallyClosed)

	_, err = elections.FindElectionByID(ctx, 9999)
	s.ErrorIs(err, ErrElectionNotFound)
}
