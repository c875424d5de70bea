package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/campsite-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/campsite-api/internal/pkg/jwthelper"
)

// Keys set on the gin context by the authenticator.
const (
	UserIDKey = "user_id"
	RoleKey   = "role"
)

var (
	errMissingToken = errors.New("missing bearer token")
	errForbidden    = errors.New("insufficient role")
)

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT rejects requests without a valid bearer token.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw, ok := bearerToken(ctx)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		if err := a.identify(ctx, raw); err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		ctx.Next()
	}
}

// OptionalJWT lets anonymous requests through as guests. A token that is
// present but invalid is still rejected.
func (a *Authenticator) OptionalJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw, ok := bearerToken(ctx)
		if !ok {
			ctx.Next()
			return
		}

		if err := a.identify(ctx, raw); err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		ctx.Next()
	}
}

// RequireRole must be mounted after VerifyJWT.
func RequireRole(role string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetString(RoleKey) != role {
			response.RenderErr(ctx, response.ErrPermissionDenied(errForbidden))
			return
		}

		ctx.Next()
	}
}

func (a *Authenticator) identify(ctx *gin.Context, raw string) error {
	claims, err := jwthelper.ParseToken(a.signingKey, raw)
	if err != nil {
		return fmt.Errorf("jwthelper.ParseToken -> %w", err)
	}

	ctx.Set(UserIDKey, claims.UserID)
	ctx.Set(RoleKey, claims.Role)

	return nil
}

func bearerToken(ctx *gin.Context) (string, bool) {
	header := ctx.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}

	return strings.TrimSpace(token), true
}
