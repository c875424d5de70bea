package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/campsite-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/campsite-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/campsite-api/internal/domain"
)

type AvailabilityService interface {
	FindAvailableTents(ctx context.Context, dateFrom, dateTo time.Time) ([]domain.Tent, error)
	FindTentsForAdmin(ctx context.Context, dateFrom, dateTo time.Time) ([]domain.TentAvailability, error)
	Calendar(ctx context.Context, year int, month time.Month) ([]domain.CalendarDay, error)
}

type AvailabilityHandler struct {
	svc AvailabilityService
}

func NewAvailabilityHandler(svc AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{
		svc: svc,
	}
}

// HandleAvailableTents godoc
// @Summary      Tents free for every night of the range
// @Tags         availability
// @Produce      json
// @Param        date_from  query     string  true  "first day, YYYY-MM-DD"
// @Param        date_to    query     string  true  "last day, YYYY-MM-DD"
// @Success      200        {array}   domain.Tent
// @Failure      400        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /tents/available [get]
func (h *AvailabilityHandler) HandleAvailableTents(ctx *gin.Context) {
	var q request.DateRangeQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := q.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	from, to := q.Range()
	tents, err := h.svc.FindAvailableTents(ctx.Request.Context(), from, to)
	if err != nil {
		err = fmt.Errorf("v1.HandleAvailableTents -> h.svc.FindAvailableTents -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, tents)
}

// HandleAdminAvailability godoc
// @Summary      Every active tent annotated with its reserved flag
// @Tags         admin
// @Produce      json
// @Param        date_from  query     string  true  "first day, YYYY-MM-DD"
// @Param        date_to    query     string  true  "last day, YYYY-MM-DD"
// @Success      200        {array}   domain.TentAvailability
// @Failure      400        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /admin/tents/availability [get]
// @Security     BearerAuth
func (h *AvailabilityHandler) HandleAdminAvailability(ctx *gin.Context) {
	var q request.DateRangeQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := q.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	from, to := q.Range()
	tents, err := h.svc.FindTentsForAdmin(ctx.Request.Context(), from, to)
	if err != nil {
		err = fmt.Errorf("v1.HandleAdminAvailability -> h.svc.FindTentsForAdmin -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, tents)
}

// HandleCalendar godoc
// @Summary      Day by day availability for a month
// @Description  A day is available when at least one active tent is free. Past days are never available.
// @Tags         availability
// @Produce      json
// @Param        year   query     int  true  "year"
// @Param        month  query     int  true  "month, 1 to 12"
// @Success      200    {array}   domain.CalendarDay
// @Failure      400    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /calendar [get]
func (h *AvailabilityHandler) HandleCalendar(ctx *gin.Context) {
	var q request.CalendarQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := q.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	days, err := h.svc.Calendar(ctx.Request.Context(), q.Year, time.Month(q.Month))
	if err != nil {
		err = fmt.Errorf("v1.HandleCalendar -> h.svc.Calendar -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, days)
}
