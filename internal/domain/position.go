package domain

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type PositionName string

const (
	PositionPresident        PositionName = "president"
	PositionVicePresident    PositionName = "vice_president"
	PositionSocialDirector   PositionName = "social_director"
	PositionPRO1             PositionName = "pro_1"
	PositionPRO2             PositionName = "pro_2"
	PositionSportDirector    PositionName = "sport_director"
	PositionSoftwareDirector PositionName = "software_director"
	PositionAuditor          PositionName = "auditor"
	PositionSecGeneral       PositionName = "sec_general"
	PositionTreasurer        PositionName = "treasurer"
	PositionFinancialSec     PositionName = "financial_sec"
	PositionSenator          PositionName = "senator"
)

var positionLabels = map[PositionName]string{
	PositionPresident:        "President",
	PositionVicePresident:    "Vice President",
	PositionSocialDirector:   "Social Director",
	PositionPRO1:             "PRO 1",
	PositionPRO2:             "PRO 2",
	PositionSportDirector:    "Sport Director",
	PositionSoftwareDirector: "Software Director",
	PositionAuditor:          "Auditor",
	PositionSecGeneral:       "Secretary General",
	PositionTreasurer:        "Treasurer",
	PositionFinancialSec:     "Financial Secretary",
	PositionSenator:          "Senator",
}

func (n PositionName) Valid() bool {
	_, ok := positionLabels[n]
	return ok
}

// Label is the human readable office name, e.g. "Secretary General".
func (n PositionName) Label() string {
	if label, ok := positionLabels[n]; ok {
		return label
	}
	return string(n)
}

type Position struct {
	ID           uint         `json:"id"`
	ElectionID   uint         `json:"election_id"`
	Name         PositionName `json:"name"`
	Label        string       `json:"label"`
	DisplayOrder int          `json:"display_order"`
	Candidates   []Candidate  `json:"candidates,omitempty"`
}

type Candidate struct {
	ID                 uint      `json:"id"`
	PositionID         uint      `json:"position_id"`
	ElectionID         uint      `json:"election_id"`
	Name               string    `json:"name"`
	RegistrationNumber string    `json:"registration_number"`
	Level              string    `json:"level,omitempty"`
	Manifesto          string    `json:"manifesto,omitempty"`
	Slogan             string    `json:"slogan,omitempty"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}

var errUnknownPosition = errors.New("unknown position")

func (p Position) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.ElectionID, validation.Required),
		validation.Field(&p.Name, validation.Required, validation.By(func(interface{}) error {
			if !p.Name.Valid() {
				return errUnknownPosition
			}
			return nil
		})),
		validation.Field(&p.DisplayOrder, validation.Min(0)),
	)
	if err != nil {
		return &VoteError{Kind: KindValidationFailed, Field: "position", Reason: err.Error()}
	}

	return nil
}

// Validate checks a candidate before it is added to a position. The
// registration number must already be normalized.
func (c Candidate) Validate() error {
	if err := ValidateRegistrationNumber(c.RegistrationNumber); err != nil {
		return err
	}

	err := validation.ValidateStruct(&c,
		validation.Field(&c.PositionID, validation.Required),
		validation.Field(&c.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&c.Level, validation.Length(0, 20)),
		validation.Field(&c.Slogan, validation.Length(0, 255)),
	)
	if err != nil {
		return &VoteError{Kind: KindValidationFailed, Field: "candidate", Reason: err.Error()}
	}

	return nil
}
