package request

import (
	"fmt"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
)

type RegisterVoterRequest struct {
	RegistrationNumber string `json:"registration_number"`
	Phone              string `json:"phone"`
	Level              string `json:"level"`
}

// Validate only checks presence; the format rule belongs to the voter
// registry.
func (req *RegisterVoterRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.RegistrationNumber, validation.Required),
	)
}

// BallotRequest maps position ids to candidate ids. JSON object keys are
// strings, so ids arrive as "12": 120.
type BallotRequest struct {
	Selections map[string]uint `json:"selections"`
}

// ParseSelections converts the request into position id -> candidate id.
// Keys must be written in canonical form ("12", not "012" or "+12") so that
// no two keys name the same position. An empty map is returned as is.
func (req *BallotRequest) ParseSelections() (map[uint]uint, error) {
	selections := make(map[uint]uint, len(req.Selections))
	for key, candidateID := range req.Selections {
		positionID, err := strconv.ParseUint(key, 10, 64)
		if err != nil || positionID == 0 || strconv.FormatUint(positionID, 10) != key {
			return nil, fmt.Errorf("invalid position id %q", key)
		}
		if candidateID == 0 {
			return nil, fmt.Errorf("missing candidate for position %d", positionID)
		}
		selections[uint(positionID)] = candidateID
	}

	return selections, nil
}
