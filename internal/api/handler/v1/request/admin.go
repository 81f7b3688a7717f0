package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateElectionRequest struct {
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	StartAt          time.Time `json:"start_at"`
	EndAt            time.Time `json:"end_at"`
	ShowResults      bool      `json:"show_results"`
	ResultsPublished bool      `json:"results_published"`
}

func (req *CreateElectionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required),
		validation.Field(&req.StartAt, validation.Required),
		validation.Field(&req.EndAt, validation.Required),
	)
}

type CreatePositionRequest struct {
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

func (req *CreatePositionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required),
		validation.Field(&req.DisplayOrder, validation.Min(0)),
	)
}

// CreateCandidateRequest leaves IsActive nil to mean active.
type CreateCandidateRequest struct {
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number"`
	Level              string `json:"level"`
	Manifesto          string `json:"manifesto"`
	Slogan             string `json:"slogan"`
	IsActive           *bool  `json:"is_active"`
}

func (req *CreateCandidateRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required),
		validation.Field(&req.RegistrationNumber, validation.Required),
	)
}

func (req *CreateCandidateRequest) Active() bool {
	return req.IsActive == nil || *req.IsActive
}
