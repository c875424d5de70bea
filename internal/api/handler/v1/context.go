package v1

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/campsite-api/internal/api/middleware"
	"github.com/vietanh2810/campsite-api/internal/domain"
)

var errInvalidID = errors.New("invalid id")

// requester builds the booking identity from the authenticator's context keys.
// Requests without a token are guests.
func requester(ctx *gin.Context) domain.Requester {
	id := ctx.GetUint(middleware.UserIDKey)
	if id == 0 {
		return domain.Requester{}
	}

	return domain.Requester{
		UserID: &id,
		Role:   ctx.GetString(middleware.RoleKey),
	}
}

func paramID(ctx *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}

	return uint(id), nil
}
