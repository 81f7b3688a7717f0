package dao

import (
	"context"
)

func (s *PostgresSuite) TestVoterDAO_UniqueConstraints() {
	f := s.seed(false, false)
	ctx := context.Background()
	voters := NewVoterDAO(s.db)

	_, err := voters.Insert(ctx, VoterProfile{UserID: f.voter.ID, RegistrationNumber: "FSC/22/360016"})
	s.ErrorIs(err, ErrVoterProfileExists)

	other, err := NewUserDAO(s.db).Insert(ctx, User{Email: "bo@uni.edu", Password: "hash", Name: "Bo"})
	s.Require().NoError(err)
	_, err = voters.Insert(ctx, VoterProfile{UserID: other.ID, RegistrationNumber: f.profile.RegistrationNumber})
	s.ErrorIs(err, ErrRegistrationNumberTaken)
}

func (s *PostgresSuite) TestVoterDAO_Flags() {
	f := s.seed(false, false)
	ctx := context.Background()
	voters := NewVoterDAO(s.db)

	s.Require().NoError(voters.SetDuesPaid(ctx, f.voter.ID))
	s.Require().NoError(voters.SetDuesPaid(ctx, f.voter.ID))
	s.Require().NoError(voters.SetVerified(ctx, f.voter.ID, true))

	found, err := voters.FindByUserID(ctx, f.voter.ID)
	s.Require().NoError(err)
	s.True(found.HasPaidDues)
	s.True(found.IsVerified)

	s.ErrorIs(voters.SetDuesPaid(ctx, 9999), ErrVoterProfileNotFound)
	_, err = voters.FindByUserID(ctx, 9999)
	s.ErrorIs(err, ErrVoterProfileNotFound)
}

func (s *PostgresSuite) TestUserDAO_DuplicateEmail() {
	s.seed(true, true)

	_, err := NewUserDAO(s.db).Insert(context.Background(), User{Email: "ada@uni.edu", Password: "x", Name: "Again"})
	s.ErrorIs(err, ErrUserEmailExists)

	_, err = NewUserDAO(s.db).FindByEmail(context.Background(), "nobody@uni.edu")
	s.ErrorIs(err, ErrUserNotFound)
}
