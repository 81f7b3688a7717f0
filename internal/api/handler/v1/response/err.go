package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/unidept/evoting/internal/domain"
)

type Err struct {
	Err         error                  `json:"-"`
	StatusCode  int                    `json:"status_code"`
	StatusText  string                 `json:"status_text"`
	ErrorCode   string                 `json:"error_code,omitempty"`
	ErrorMsg    string                 `json:"message"`
	Remediation string                 `json:"remediation,omitempty"`
	Context     map[string]interface{} `json:"context,omitempty"`
}

func (e *Err) Error() string {
	return e.ErrorMsg
}

func RenderErr(ctx *gin.Context, e *Err) {
	if e.StatusCode >= http.StatusInternalServerError {
		zap.L().Error("internal server error",
			zap.String("path", ctx.FullPath()),
			zap.Error(e.Err))
	}

	ctx.AbortWithStatusJSON(e.StatusCode, e)
}

func newErr(status int, err error, msg string) *Err {
	return &Err{
		Err:        err,
		StatusCode: status,
		StatusText: http.StatusText(status),
		ErrorMsg:   msg,
	}
}

func ErrBadRequest(err error) *Err {
	return newErr(http.StatusBadRequest, err, err.Error())
}

func ErrNotFound(resource, field string, value interface{}) *Err {
	return newErr(http.StatusNotFound, nil, fmt.Sprintf("%s with %s = %v not found", resource, field, value))
}

func ErrUnauthorized(err error) *Err {
	return newErr(http.StatusUnauthorized, err, "unauthorized")
}

func ErrWrongCredentials(err error) *Err {
	return newErr(http.StatusUnauthorized, err, "wrong email or password")
}

func ErrPermissionDenied(err error) *Err {
	return newErr(http.StatusForbidden, err, err.Error())
}

func ErrInternalServerError(err error) *Err {
	return newErr(http.StatusInternalServerError, err, "internal server error")
}

type votingStatus struct {
	status      int
	remediation string
}

var votingStatuses = map[domain.ErrorKind]votingStatus{
	domain.KindNotRegistered:       {status: http.StatusForbidden, remediation: "register"},
	domain.KindDuesUnpaid:          {status: http.StatusForbidden, remediation: "pay_dues"},
	domain.KindNotVerified:         {status: http.StatusForbidden, remediation: "await_verification"},
	domain.KindElectionNotActive:   {status: http.StatusConflict},
	domain.KindAlreadyVoted:        {status: http.StatusConflict},
	domain.KindTransactionConflict: {status: http.StatusConflict},
	domain.KindInvalidCandidate:    {status: http.StatusBadRequest},
	domain.KindEmptySelection:      {status: http.StatusBadRequest},
	domain.KindValidationFailed:    {status: http.StatusBadRequest},
}

// Remediation names the step that makes an ineligible voter eligible.
func Remediation(kind domain.ErrorKind) string {
	return votingStatuses[kind].remediation
}

// ErrVoting renders a voting failure with a stable error_code. Errors that
// carry no voting kind are internal.
func ErrVoting(err error) *Err {
	kind := domain.KindOf(err)
	vs, ok := votingStatuses[kind]
	if !ok {
		return ErrInternalServerError(err)
	}

	e := newErr(vs.status, err, err.Error())
	e.ErrorCode = kind.String()
	e.Remediation = vs.remediation

	var ve *domain.VoteError
	if errors.As(err, &ve) {
		e.ErrorMsg = ve.Error()
		e.Context = map[string]interface{}{}
		if ve.ElectionID != 0 {
			e.Context["election_id"] = ve.ElectionID
		}
		if ve.PositionID != 0 {
			e.Context["position_id"] = ve.PositionID
		}
		if ve.Position != "" {
			e.Context["position"] = ve.Position
		}
		if ve.CandidateID != 0 {
			e.Context["candidate_id"] = ve.CandidateID
		}
		if ve.Field != "" {
			e.Context["field"] = ve.Field
		}
		if len(e.Context) == 0 {
			e.Context = nil
		}
	}

	return e
}
