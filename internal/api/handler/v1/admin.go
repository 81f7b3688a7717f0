package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unidept/evoting/internal/api/handler/v1/request"
	"github.com/unidept/evoting/internal/api/handler/v1/response"
	"github.com/unidept/evoting/internal/domain"
)

type ElectionAdminService interface {
	CreateElection(ctx context.Context, election domain.Election) (domain.Election, error)
	AddPosition(ctx context.Context, position domain.Position) (domain.Position, error)
	AddCandidate(ctx context.Context, candidate domain.Candidate) (domain.Candidate, error)
}

type AdminHandler struct {
	svc ElectionAdminService
}

func NewAdminHandler(svc ElectionAdminService) *AdminHandler {
	return &AdminHandler{
		svc: svc,
	}
}

// HandleCreateElection godoc
// @Summary      Create an election
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateElectionRequest  true  "election"
// @Success      201      {object}  domain.Election
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/elections [post]
// @Security     BearerAuth
func (h *AdminHandler) HandleCreateElection(ctx *gin.Context) {
	var req request.CreateElectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	election, err := h.svc.CreateElection(ctx.Request.Context(), domain.Election{
		Title:            req.Title,
		Description:      req.Description,
		StartAt:          req.StartAt,
		EndAt:            req.EndAt,
		ShowResults:      req.ShowResults,
		ResultsPublished: req.ResultsPublished,
	})
	if err != nil {
		renderLookupErr(ctx, err, "v1.HandleCreateElection -> h.svc.CreateElection")
		return
	}

	ctx.JSON(http.StatusCreated, election)
}

// HandleCreatePosition godoc
// @Summary      Add a position to an election
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        electionID  path      int                            true  "Election ID"
// @Param        request     body      request.CreatePositionRequest  true  "position"
// @Success      201         {object}  domain.Position
// @Failure      400         {object}  response.Err
// @Failure      401         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /admin/elections/{electionID}/positions [post]
// @Security     BearerAuth
func (h *AdminHandler) HandleCreatePosition(ctx *gin.Context) {
	electionID, respErr := parseIDParam(ctx, "electionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreatePositionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	position, err := h.svc.AddPosition(ctx.Request.Context(), domain.Position{
		ElectionID:   electionID,
		Name:         domain.PositionName(req.Name),
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		renderLookupErr(ctx, err, "v1.HandleCreatePosition -> h.svc.AddPosition")
		return
	}

	ctx.JSON(http.StatusCreated, position)
}

// HandleCreateCandidate godoc
// @Summary      Add a candidate to a position
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        positionID  path      int                             true  "Position ID"
// @Param        request     body      request.CreateCandidateRequest  true  "candidate"
// @Success      201         {object}  domain.Candidate
// @Failure      400         {object}  response.Err
// @Failure      401         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /admin/positions/{positionID}/candidates [post]
// @Security     BearerAuth
func (h *AdminHandler) HandleCreateCandidate(ctx *gin.Context) {
	positionID, respErr := parseIDParam(ctx, "positionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateCandidateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	candidate, err := h.svc.AddCandidate(ctx.Request.Context(), domain.Candidate{
		PositionID:         positionID,
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		Level:              req.Level,
		Manifesto:          req.Manifesto,
		Slogan:             req.Slogan,
		IsActive:           req.Active(),
	})
	if err != nil {
		renderLookupErr(ctx, err, "v1.HandleCreateCandidate -> h.svc.AddCandidate")
		return
	}

	ctx.JSON(http.StatusCreated, candidate)
}
