package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unidept/evoting/internal/api/handler/v1/response"
	"github.com/unidept/evoting/internal/api/middleware"
	"github.com/unidept/evoting/internal/domain"
)

var errResultsHidden = errors.New("results of this election are not published yet")

type ResultsService interface {
	Tally(ctx context.Context, positionID uint) (domain.PositionResult, error)
	ElectionResults(ctx context.Context, electionID uint) (domain.ElectionResults, error)
}

type ResultsHandler struct {
	svc       ResultsService
	elections ElectionService
}

func NewResultsHandler(svc ResultsService, elections ElectionService) *ResultsHandler {
	return &ResultsHandler{
		svc:       svc,
		elections: elections,
	}
}

// HandleElectionResults godoc
// @Summary      Results of an election
// @Description  Visible once the election shows or publishes its results. Staff can always see them.
// @Tags         results
// @Produce      json
// @Param        electionID  path      int  true  "Election ID"
// @Success      200  {object}  domain.ElectionResults
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /elections/{electionID}/results [get]
// @Security     BearerAuth
func (h *ResultsHandler) HandleElectionResults(ctx *gin.Context) {
	electionID, respErr := parseIDParam(ctx, "electionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	results, err := h.svc.ElectionResults(ctx.Request.Context(), electionID)
	if err != nil {
		renderLookupErr(ctx, err, "v1.HandleElectionResults -> h.svc.ElectionResults")
		return
	}

	if !canSeeResults(ctx, results.Election) {
		response.RenderErr(ctx, response.ErrPermissionDenied(errResultsHidden))
		return
	}

	ctx.JSON(http.StatusOK, results)
}

// HandleTally godoc
// @Summary      Tally of one position
// @Description  Candidates by votes, highest first. Same visibility rule as election results.
// @Tags         results
// @Produce      json
// @Param        positionID  path      int  true  "Position ID"
// @Success      200  {object}  domain.PositionResult
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /positions/{positionID}/tally [get]
// @Security     BearerAuth
func (h *ResultsHandler) HandleTally(ctx *gin.Context) {
	positionID, respErr := parseIDParam(ctx, "positionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	result, err := h.svc.Tally(ctx.Request.Context(), positionID)
	if err != nil {
		renderLookupErr(ctx, err, "v1.HandleTally -> h.svc.Tally")
		return
	}

	election, err := h.elections.GetElection(ctx.Request.Context(), result.Position.ElectionID)
	if err != nil {
		renderLookupErr(ctx, err, "v1.HandleTally -> h.elections.GetElection")
		return
	}

	if !canSeeResults(ctx, election) {
		response.RenderErr(ctx, response.ErrPermissionDenied(errResultsHidden))
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func canSeeResults(ctx *gin.Context, election domain.Election) bool {
	return election.ResultsVisible() || ctx.GetBool(middleware.ContextIsStaff)
}
