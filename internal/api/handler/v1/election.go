package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unidept/evoting/internal/api/handler/v1/response"
	"github.com/unidept/evoting/internal/domain"
	"github.com/unidept/evoting/internal/service"
)

type ElectionService interface {
	ListElections(ctx context.Context) ([]domain.Election, error)
	GetElection(ctx context.Context, electionID uint) (domain.Election, error)
	GetElectionDetail(ctx context.Context, electionID, voterID uint) (service.ElectionDetail, error)
	Close(ctx context.Context, electionID uint) error
}

type EligibilityService interface {
	CanVote(ctx context.Context, voterID, electionID uint, positionIDs []uint) (service.Eligibility, error)
}

type ElectionHandler struct {
	svc         ElectionService
	eligibility EligibilityService
}

func NewElectionHandler(svc ElectionService, eligibility EligibilityService) *ElectionHandler {
	return &ElectionHandler{
		svc:         svc,
		eligibility: eligibility,
	}
}

// HandleListElections godoc
// @Summary      List elections
// @Description  Newest first. The status is computed from the current time.
// @Tags         elections
// @Produce      json
// @Success      200  {array}   domain.Election
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /elections [get]
// @Security     BearerAuth
func (h *ElectionHandler) HandleListElections(ctx *gin.Context) {
	elections, err := h.svc.ListElections(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListElections -> h.svc.ListElections -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, elections)
}

// HandleGetElection godoc
// @Summary      Get an election ballot
// @Description  Positions with their active candidates, plus what the caller already voted for.
// @Tags         elections
// @Produce      json
// @Param        electionID  path      int  true  "Election ID"
// @Success      200  {object}  service.ElectionDetail
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /elections/{electionID} [get]
// @Security     BearerAuth
func (h *ElectionHandler) HandleGetElection(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	electionID, respErr := parseIDParam(ctx, "electionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	detail, err := h.svc.GetElectionDetail(ctx.Request.Context(), electionID, userID)
	if err != nil {
		renderLookupErr(ctx, err, "v1.HandleGetElection -> h.svc.GetElectionDetail")
		return
	}

	ctx.JSON(http.StatusOK, detail)
}

// HandleEligibility godoc
// @Summary      Check whether the caller may vote
// @Description  Answers 200 in both cases. When not eligible, error_code and remediation tell the client what to do next.
// @Tags         elections
// @Produce      json
// @Param        electionID  path      int     true   "Election ID"
// @Param        positions   query     string  false  "Comma separated position ids to restrict the check to"
// @Success      200  {object}  response.EligibilityResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /elections/{electionID}/eligibility [get]
// @Security     BearerAuth
func (h *ElectionHandler) HandleEligibility(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	electionID, respErr := parseIDParam(ctx, "electionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	positionIDs, respErr := parseIDListQuery(ctx, "positions")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eligibility, err := h.eligibility.CanVote(ctx.Request.Context(), userID, electionID, positionIDs)
	if err != nil {
		renderLookupErr(ctx, err, "v1.HandleEligibility -> h.eligibility.CanVote")
		return
	}

	resp := response.EligibilityResponse{
		ElectionID:     electionID,
		Eligible:       eligibility.Eligible,
		Reason:         eligibility.Reason,
		VotedPositions: eligibility.VotedPositions,
	}
	if !eligibility.Eligible {
		resp.ErrorCode = eligibility.Kind.String()
		resp.Remediation = response.Remediation(eligibility.Kind)
	}

	ctx.JSON(http.StatusOK, resp)
}

// HandleCloseElection godoc
// @Summary      Close an election before its end time
// @Tags         admin
// @Produce      json
// @Param        electionID  path  int  true  "Election ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/elections/{electionID}/close [post]
// @Security     BearerAuth
func (h *ElectionHandler) HandleCloseElection(ctx *gin.Context) {
	electionID, respErr := parseIDParam(ctx, "electionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.Close(ctx.Request.Context(), electionID); err != nil {
		renderLookupErr(ctx, err, "v1.HandleCloseElection -> h.svc.Close")
		return
	}

	ctx.Status(http.StatusNoContent)
}
