package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	// 22U/360016
	regNumberSessionPattern = regexp.MustCompile(`^\d{2}[A-Z]/\d{6}$`)
	// FSC/22/360016
	regNumberFacultyPattern = regexp.MustCompile(`^[A-Z]{2,4}/\d{2}/\d{6}$`)

	errRegNumberFormat = errors.New(`invalid registration number format, expected "22U/360016" or "FSC/22/360016"`)
)

type VoterProfile struct {
	ID                 uint      `json:"id"`
	UserID             uint      `json:"user_id"`
	RegistrationNumber string    `json:"registration_number"`
	Phone              string    `json:"phone,omitempty"`
	Level              string    `json:"level,omitempty"`
	HasPaidDues        bool      `json:"has_paid_dues"`
	IsVerified         bool      `json:"is_verified"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NormalizeRegistrationNumber trims and upper-cases user input the way the
// registration form does before validating it.
func NormalizeRegistrationNumber(regNo string) string {
	return strings.ToUpper(strings.TrimSpace(regNo))
}

// ValidateRegistrationNumber accepts exactly the two department formats.
// The value is expected to be normalized already.
func ValidateRegistrationNumber(regNo string) error {
	err := validation.Validate(regNo,
		validation.Required,
		validation.By(func(value interface{}) error {
			s, _ := value.(string)
			if regNumberSessionPattern.MatchString(s) || regNumberFacultyPattern.MatchString(s) {
				return nil
			}
			return errRegNumberFormat
		}),
	)
	if err != nil {
		return &VoteError{Kind: KindValidationFailed, Field: "registration_number", Reason: err.Error()}
	}

	return nil
}

// Validate checks the profile fields that are under the voter's control.
func (p VoterProfile) Validate() error {
	if err := ValidateRegistrationNumber(p.RegistrationNumber); err != nil {
		return err
	}

	err := validation.ValidateStruct(&p,
		validation.Field(&p.Phone, validation.Length(0, 20)),
		validation.Field(&p.Level, validation.Length(0, 20)),
	)
	if err != nil {
		return &VoteError{Kind: KindValidationFailed, Reason: err.Error()}
	}

	return nil
}
