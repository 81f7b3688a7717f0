package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unidept/evoting/internal/api/handler/v1/request"
	"github.com/unidept/evoting/internal/api/handler/v1/response"
	"github.com/unidept/evoting/internal/domain"
	"github.com/unidept/evoting/internal/service"
)

type VoterService interface {
	Register(ctx context.Context, profile domain.VoterProfile) (domain.VoterProfile, error)
	GetProfile(ctx context.Context, userID uint) (domain.VoterProfile, error)
	Verify(ctx context.Context, userID uint) error
}

type VoterHandler struct {
	svc VoterService
}

func NewVoterHandler(svc VoterService) *VoterHandler {
	return &VoterHandler{
		svc: svc,
	}
}

// HandleRegister godoc
// @Summary      Register the authenticated user as a voter
// @Description  Registration numbers look like 22U/360016 or FSC/22/360016. New voters must pay dues and be verified before voting.
// @Tags         voters
// @Accept       json
// @Produce      json
// @Param        request  body      request.RegisterVoterRequest  true  "registration details"
// @Success      201      {object}  domain.VoterProfile
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /voters/register [post]
// @Security     BearerAuth
func (h *VoterHandler) HandleRegister(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RegisterVoterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	profile, err := h.svc.Register(ctx.Request.Context(), domain.VoterProfile{
		UserID:             userID,
		RegistrationNumber: req.RegistrationNumber,
		Phone:              req.Phone,
		Level:              req.Level,
	})
	if err != nil {
		if errors.Is(err, service.ErrAlreadyRegistered) {
			response.RenderErr(ctx, &response.Err{
				Err:        err,
				StatusCode: http.StatusConflict,
				StatusText: http.StatusText(http.StatusConflict),
				ErrorCode:  "already_registered",
				ErrorMsg:   err.Error(),
			})
			return
		}

		response.RenderErr(ctx, response.ErrVoting(fmt.Errorf("v1.HandleRegister -> h.svc.Register -> %w", err)))
		return
	}

	ctx.JSON(http.StatusCreated, profile)
}

// HandleGetProfile godoc
// @Summary      Get the authenticated user's voter profile
// @Tags         voters
// @Produce      json
// @Success      200  {object}  domain.VoterProfile
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /voters/me [get]
// @Security     BearerAuth
func (h *VoterHandler) HandleGetProfile(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	profile, err := h.svc.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		response.RenderErr(ctx, response.ErrVoting(fmt.Errorf("v1.HandleGetProfile -> h.svc.GetProfile -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

// HandleVerify godoc
// @Summary      Verify a voter
// @Description  Staff only.
// @Tags         admin
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/voters/{userID}/verify [post]
// @Security     BearerAuth
func (h *VoterHandler) HandleVerify(ctx *gin.Context) {
	userID, respErr := parseIDParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.Verify(ctx.Request.Context(), userID); err != nil {
		response.RenderErr(ctx, response.ErrVoting(fmt.Errorf("v1.HandleVerify -> h.svc.Verify -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "voter verified", "user_id": userID})
}
