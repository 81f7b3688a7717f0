package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unidept/evoting/internal/api/handler/v1/request"
	"github.com/unidept/evoting/internal/api/handler/v1/response"
	"github.com/unidept/evoting/internal/domain"
)

type BallotService interface {
	CastBallot(ctx context.Context, ballot domain.Ballot) (domain.BallotResult, error)
	CastSingleVote(ctx context.Context, voterID, candidateID uint, ip string) (domain.BallotResult, error)
}

type BallotHandler struct {
	svc BallotService
}

func NewBallotHandler(svc BallotService) *BallotHandler {
	return &BallotHandler{
		svc: svc,
	}
}

// HandleCastBallot godoc
// @Summary      Cast a ballot
// @Description  Selections map position ids to candidate ids. Either every selection is recorded or none is.
// @Tags         ballots
// @Accept       json
// @Produce      json
// @Param        electionID  path      int                    true  "Election ID"
// @Param        request     body      request.BallotRequest  true  "selections"
// @Success      201  {object}  response.BallotResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /elections/{electionID}/ballot [post]
// @Security     BearerAuth
func (h *BallotHandler) HandleCastBallot(ctx *gin.Context) {
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

	var req request.BallotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	selections, err := req.ParseSelections()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.CastBallot(ctx.Request.Context(), domain.Ballot{
		VoterID:    userID,
		ElectionID: electionID,
		Selections: selections,
		IPAddress:  ctx.ClientIP(),
	})
	if err != nil {
		renderLookupErr(ctx, err, "v1.HandleCastBallot -> h.svc.CastBallot")
		return
	}

	ctx.JSON(http.StatusCreated, ballotResponse(result))
}

// HandleCastVote godoc
// @Summary      Vote for a single candidate
// @Tags         ballots
// @Produce      json
// @Param        candidateID  path      int  true  "Candidate ID"
// @Success      201  {object}  response.BallotResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /candidates/{candidateID}/vote [post]
// @Security     BearerAuth
func (h *BallotHandler) HandleCastVote(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	candidateID, respErr := parseIDParam(ctx, "candidateID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	result, err := h.svc.CastSingleVote(ctx.Request.Context(), userID, candidateID, ctx.ClientIP())
	if err != nil {
		renderLookupErr(ctx, err, "v1.HandleCastVote -> h.svc.CastSingleVote")
		return
	}

	ctx.JSON(http.StatusCreated, ballotResponse(result))
}

func ballotResponse(result domain.BallotResult) response.BallotResponse {
	return response.BallotResponse{
		Message:   fmt.Sprintf("%d vote(s) recorded", result.VotesCast),
		VotesCast: result.VotesCast,
		VoteIDs:   result.VoteIDs,
		SessionID: result.SessionID,
	}
}
