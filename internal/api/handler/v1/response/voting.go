package response

type EligibilityResponse struct {
	ElectionID     uint   `json:"election_id"`
	Eligible       bool   `json:"eligible"`
	Reason         string `json:"reason,omitempty"`
	ErrorCode      string `json:"error_code,omitempty"`
	Remediation    string `json:"remediation,omitempty"`
	VotedPositions []uint `json:"voted_positions"`
}

type BallotResponse struct {
	Message   string `json:"message"`
	VotesCast int    `json:"votes_cast"`
	VoteIDs   []uint `json:"vote_ids"`
	SessionID uint   `json:"session_id"`
}
