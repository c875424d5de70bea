package response

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vietanh2810/campsite-api/internal/domain"
)

// Err is the JSON body of every failed request.
type Err struct {
	HTTPStatusCode int   `json:"-"`
	Err            error `json:"-"`

	StatusText string   `json:"status"`
	Message    string   `json:"message"`
	Entity     string   `json:"entity,omitempty"`
	Refs       []string `json:"refs,omitempty"`
}

func RenderErr(ctx *gin.Context, e *Err) {
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("path", ctx.FullPath()),
			zap.Error(e.Err),
		)
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

// FromError renders typed booking errors with their status code. Anything
// else is an internal error.
func FromError(err error) *Err {
	var de *domain.Error
	if !errors.As(err, &de) {
		return ErrInternalServerError(err)
	}

	status := http.StatusInternalServerError
	switch de.Kind {
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindBadRequest:
		status = http.StatusBadRequest
	case domain.KindConflict:
		status = http.StatusConflict
	}

	return &Err{
		HTTPStatusCode: status,
		Err:            err,
		StatusText:     http.StatusText(status),
		Message:        de.Error(),
		Entity:         de.Entity,
		Refs:           de.Refs,
	}
}

func ErrBadRequest(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusBadRequest,
		Err:            err,
		StatusText:     http.StatusText(http.StatusBadRequest),
		Message:        err.Error(),
	}
}

func ErrUnauthorized(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusUnauthorized,
		Err:            err,
		StatusText:     http.StatusText(http.StatusUnauthorized),
		Message:        err.Error(),
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusForbidden,
		Err:            err,
		StatusText:     http.StatusText(http.StatusForbidden),
		Message:        err.Error(),
	}
}

// ErrInternalServerError hides the cause from the client. It is logged by
// RenderErr.
func ErrInternalServerError(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusInternalServerError,
		Err:            err,
		StatusText:     http.StatusText(http.StatusInternalServerError),
		Message:        "something went wrong",
	}
}
