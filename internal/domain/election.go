package domain

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type ElectionStatus string

const (
	ElectionUpcoming ElectionStatus = "upcoming"
	ElectionActive   ElectionStatus = "active"
	ElectionClosed   ElectionStatus = "closed"
)

type Election struct {
	ID               uint           `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	StartAt          time.Time      `json:"start_at"`
	EndAt            time.Time      `json:"end_at"`
	Status           ElectionStatus `json:"status"`
	ManuallyClosed   bool           `json:"manually_closed"`
	ShowResults      bool           `json:"show_results"`
	ResultsPublished bool           `json:"results_published"`
	Positions        []Position     `json:"positions,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// DeriveStatus maps a point in time onto an election window. Both ends of
// the window are inclusive.
func DeriveStatus(now, start, end time.Time) ElectionStatus {
	switch {
	case now.Before(start):
		return ElectionUpcoming
	case now.After(end):
		return ElectionClosed
	default:
		return ElectionActive
	}
}

// StatusAt ignores the stored Status field; it is only a cache.
func (e Election) StatusAt(now time.Time) ElectionStatus {
	if e.ManuallyClosed {
		return ElectionClosed
	}
	return DeriveStatus(now, e.StartAt, e.EndAt)
}

func (e Election) CanVoteAt(now time.Time) bool {
	return e.StatusAt(now) == ElectionActive
}

// ResultsVisible reports whether non-staff users may see the tallies.
func (e Election) ResultsVisible() bool {
	return e.ShowResults || e.ResultsPublished
}

var errWindow = errors.New("must be after start_at")

// Validate checks the fields an administrator sets when creating an election.
func (e Election) Validate() error {
	err := validation.ValidateStruct(&e,
		validation.Field(&e.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&e.StartAt, validation.Required),
		validation.Field(&e.EndAt, validation.Required, validation.By(func(interface{}) error {
			if !e.EndAt.After(e.StartAt) {
				return errWindow
			}
			return nil
		})),
	)
	if err != nil {
		return &VoteError{Kind: KindValidationFailed, Reason: err.Error()}
	}

	return nil
}
