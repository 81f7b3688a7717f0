package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/unidept/evoting/internal/api/handler/v1/response"
	"github.com/unidept/evoting/internal/api/middleware"
	"github.com/unidept/evoting/internal/domain"
	"github.com/unidept/evoting/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleGetMe godoc
// @Summary      Get the authenticated user
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/me [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetMe(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ctx.JSON(http.StatusOK, user)
}

func getUserIDFromContext(ctx *gin.Context) (uint, *response.Err) {
	userID := ctx.GetUint(middleware.ContextUserID)
	if userID == 0 {
		return 0, response.ErrUnauthorized(errors.New("no user in context"))
	}

	return userID, nil
}

func getUserFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		return domain.User{}, respErr
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrNotFound("user", "ID", userID)
		}

		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("svc.GetUser -> %w", err))
	}

	return user, nil
}

func parseIDParam(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %s: %q", name, ctx.Param(name)))
	}

	return uint(id), nil
}

// parseIDListQuery reads an optional comma separated list of ids. An absent
// or empty query yields nil.
func parseIDListQuery(ctx *gin.Context, name string) ([]uint, *response.Err) {
	raw := strings.TrimSpace(ctx.Query(name))
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil || id == 0 {
			return nil, response.ErrBadRequest(fmt.Errorf("invalid %s: %q", name, part))
		}
		ids = append(ids, uint(id))
	}

	return ids, nil
}

// renderLookupErr renders not-found errors of the election graph as 404 and
// anything else through the voting error mapping.
func renderLookupErr(ctx *gin.Context, err error, where string) {
	switch {
	case errors.Is(err, domain.ErrElectionNotFound):
		response.RenderErr(ctx, response.ErrNotFound("election", "ID", ctx.Param("electionID")))
	case errors.Is(err, domain.ErrPositionNotFound):
		response.RenderErr(ctx, response.ErrNotFound("position", "ID", ctx.Param("positionID")))
	case errors.Is(err, domain.ErrCandidateNotFound):
		response.RenderErr(ctx, response.ErrNotFound("candidate", "ID", ctx.Param("candidateID")))
	default:
		response.RenderErr(ctx, response.ErrVoting(fmt.Errorf("%s -> %w", where, err)))
	}
}

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Tags         health
// @Produce      json
// @Success      200
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
