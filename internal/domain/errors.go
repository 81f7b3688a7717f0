package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind enumerates the voting failures surfaced to callers.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotRegistered
	KindDuesUnpaid
	KindNotVerified
	KindElectionNotActive
	KindAlreadyVoted
	KindInvalidCandidate
	KindEmptySelection
	KindValidationFailed
	KindTransactionConflict
)

var (
	ErrNotRegistered       = errors.New("voter is not registered")
	ErrDuesUnpaid          = errors.New("departmental dues have not been paid")
	ErrNotVerified         = errors.New("voter registration is pending verification")
	ErrElectionNotActive   = errors.New("election is not active")
	ErrAlreadyVoted        = errors.New("already voted")
	ErrInvalidCandidate    = errors.New("invalid candidate selection")
	ErrEmptySelection      = errors.New("no candidate selected")
	ErrValidationFailed    = errors.New("validation failed")
	ErrTransactionConflict = errors.New("ballot conflicted with a concurrent submission")

	ErrElectionNotFound  = errors.New("election not found")
	ErrPositionNotFound  = errors.New("position not found")
	ErrCandidateNotFound = errors.New("candidate not found")
)

var kindSentinels = map[ErrorKind]error{
	KindNotRegistered:       ErrNotRegistered,
	KindDuesUnpaid:          ErrDuesUnpaid,
	KindNotVerified:         ErrNotVerified,
	KindElectionNotActive:   ErrElectionNotActive,
	KindAlreadyVoted:        ErrAlreadyVoted,
	KindInvalidCandidate:    ErrInvalidCandidate,
	KindEmptySelection:      ErrEmptySelection,
	KindValidationFailed:    ErrValidationFailed,
	KindTransactionConflict: ErrTransactionConflict,
}

var kindNames = map[ErrorKind]string{
	KindUnknown:             "unknown",
	KindNotRegistered:       "not_registered",
	KindDuesUnpaid:          "dues_unpaid",
	KindNotVerified:         "not_verified",
	KindElectionNotActive:   "election_not_active",
	KindAlreadyVoted:        "already_voted",
	KindInvalidCandidate:    "invalid_candidate",
	KindEmptySelection:      "empty_selection",
	KindValidationFailed:    "validation_failed",
	KindTransactionConflict: "transaction_conflict",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Err returns the sentinel that errors of this kind unwrap to.
func (k ErrorKind) Err() error {
	return kindSentinels[k]
}

// VoteError carries the kind of a voting failure together with the records
// it concerns. Zero-valued context fields are omitted from the message.
type VoteError struct {
	Kind        ErrorKind
	ElectionID  uint
	PositionID  uint
	Position    PositionName
	CandidateID uint
	Field       string
	Reason      string
}

func (e *VoteError) Error() string {
	var b strings.Builder
	if sentinel := e.Kind.Err(); sentinel != nil {
		b.WriteString(sentinel.Error())
	} else {
		b.WriteString(e.Kind.String())
	}

	if e.Position != "" {
		fmt.Fprintf(&b, " for %s", e.Position.Label())
	} else if e.PositionID != 0 {
		fmt.Fprintf(&b, " for position %d", e.PositionID)
	}
	if e.CandidateID != 0 {
		fmt.Fprintf(&b, " (candidate %d)", e.CandidateID)
	}
	if e.ElectionID != 0 {
		fmt.Fprintf(&b, " in election %d", e.ElectionID)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}

	return b.String()
}

func (e *VoteError) Unwrap() error {
	return e.Kind.Err()
}

// KindOf extracts the ErrorKind from any error chain, KindUnknown if none.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var ve *VoteError
	if errors.As(err, &ve) {
		return ve.Kind
	}

	for kind, sentinel := range kindSentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}

	return KindUnknown
}
