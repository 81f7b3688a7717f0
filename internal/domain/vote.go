package domain

import (
	"slices"
	"time"
)

type Vote struct {
	ID          uint      `json:"id"`
	VoterID     uint      `json:"voter_id"`
	CandidateID uint      `json:"candidate_id"`
	PositionID  uint      `json:"position_id"`
	ElectionID  uint      `json:"election_id"`
	IPAddress   string    `json:"ip_address,omitempty"`
	CastAt      time.Time `json:"cast_at"`
}

type VotingSession struct {
	ID          uint       `json:"id"`
	VoterID     uint       `json:"voter_id"`
	ElectionID  uint       `json:"election_id"`
	IPAddress   string     `json:"ip_address,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	IsCompleted bool       `json:"is_completed"`
}

// Ballot is one submission: position id -> candidate id.
type Ballot struct {
	VoterID    uint
	ElectionID uint
	Selections map[uint]uint
	IPAddress  string
}

// PositionIDs returns the selected positions in ascending order so that
// validation and error reporting are deterministic.
func (b Ballot) PositionIDs() []uint {
	ids := make([]uint, 0, len(b.Selections))
	for id := range b.Selections {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}

type BallotResult struct {
	VotesCast int    `json:"votes_cast"`
	VoteIDs   []uint `json:"vote_ids"`
	SessionID uint   `json:"session_id"`
}
