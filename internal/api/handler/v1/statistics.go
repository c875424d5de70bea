package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/campsite-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/campsite-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/campsite-api/internal/domain"
)

type StatisticsService interface {
	Series(ctx context.Context, step domain.StatisticsStep, mode domain.StatisticsMode) ([]domain.StatisticsPoint, error)
}

type StatisticsHandler struct {
	svc StatisticsService
}

func NewStatisticsHandler(svc StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{
		svc: svc,
	}
}

// HandleStatistics godoc
// @Summary      Revenue of completed reserves per period
// @Tags         admin
// @Produce      json
// @Param        step  query     string  true   "WEEK, MONTH or YEAR"
// @Param        mode  query     string  false  "PERIODIC (default) or ACCUMULATED"
// @Success      200   {array}   domain.StatisticsPoint
// @Failure      400   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /admin/statistics [get]
// @Security     BearerAuth
func (h *StatisticsHandler) HandleStatistics(ctx *gin.Context) {
	var q request.StatisticsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := q.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	mode := domain.StatisticsMode(q.Mode)
	if mode == "" {
		mode = domain.ModePeriodic
	}

	points, err := h.svc.Series(ctx.Request.Context(), domain.StatisticsStep(q.Step), mode)
	if err != nil {
		err = fmt.Errorf("v1.HandleStatistics -> h.svc.Series -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, points)
}
