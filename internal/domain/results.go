package domain

import (
	"math"
	"sort"
)

type CandidateTally struct {
	Candidate  Candidate `json:"candidate"`
	Votes      int       `json:"votes"`
	Percentage float64   `json:"percentage"`
}

type PositionResult struct {
	Position   Position         `json:"position"`
	Candidates []CandidateTally `json:"candidates"`
	TotalVotes int              `json:"total_votes"`
}

type ElectionResults struct {
	Election    Election         `json:"election"`
	Positions   []PositionResult `json:"positions"`
	TotalVoters int              `json:"total_voters"`
}

// Tally orders candidates by vote count, highest first, breaking ties by
// candidate id. total is the number of votes cast for the position and may
// include votes for candidates not listed.
func Tally(candidates []Candidate, counts map[uint]int, total int) []CandidateTally {
	tallies := make([]CandidateTally, 0, len(candidates))
	for _, c := range candidates {
		votes := counts[c.ID]
		tallies = append(tallies, CandidateTally{
			Candidate:  c,
			Votes:      votes,
			Percentage: Percentage(votes, total),
		})
	}

	sort.SliceStable(tallies, func(i, j int) bool {
		if tallies[i].Votes != tallies[j].Votes {
			return tallies[i].Votes > tallies[j].Votes
		}
		return tallies[i].Candidate.ID < tallies[j].Candidate.ID
	})

	return tallies
}

// Percentage is votes/total*100 rounded to two decimals, 0 when total is 0.
func Percentage(votes, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(votes)/float64(total)*100*100) / 100
}
