package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/unidept/evoting/internal/api/handler/v1/response"
	"github.com/unidept/evoting/internal/pkg/jwthelper"
)

const (
	ContextUserID  = "user_id"
	ContextIsStaff = "is_staff"
)

var (
	errMissingToken = errors.New("missing bearer token")
)

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT puts the caller's user id and staff flag into the gin context.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, tokenString)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		ctx.Set(ContextUserID, claims.UserID)
		ctx.Set(ContextIsStaff, claims.IsStaff)
		ctx.Next()
	}
}

// RequireStaff must run after VerifyJWT.
func RequireStaff() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !ctx.GetBool(ContextIsStaff) {
			response.RenderErr(ctx, response.ErrPermissionDenied(errors.New("staff only")))
			return
		}
		ctx.Next()
	}
}
