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

type ReserveService interface {
	CreateReserve(ctx context.Context, requester domain.Requester, req domain.ReserveRequest) (domain.Reserve, error)
	UpdateReserve(ctx context.Context, reserveID uint, req domain.ReserveRequest) (domain.Reserve, error)
	GetReserve(ctx context.Context, id uint) (domain.Reserve, error)
	ListReserves(ctx context.Context, filter domain.ReserveFilter) ([]domain.Reserve, int64, error)
	AddProductReserve(ctx context.Context, reserveID uint, req domain.ProductRequest) (domain.Reserve, error)
	AddExperienceReserve(ctx context.Context, reserveID uint, req domain.ExperienceRequest) (domain.Reserve, error)
	DeleteProductReserve(ctx context.Context, reserveID, lineID uint) (domain.Reserve, error)
	DeleteExperienceReserve(ctx context.Context, reserveID, lineID uint) (domain.Reserve, error)
	UpdatePaymentStatus(ctx context.Context, reserveID uint, status domain.PaymentStatus) (domain.Reserve, error)
	ConfirmEntity(ctx context.Context, entityType domain.EntityType, reserveID, entityID uint) (domain.Reserve, error)
	CancelReserve(ctx context.Context, reserveID uint, reason string) (domain.Reserve, error)
	CompleteReserve(ctx context.Context, reserveID uint) (domain.Reserve, error)
	BillingDocument(ctx context.Context, id uint) (domain.BillingDocument, error)
}

type ReserveHandler struct {
	svc ReserveService
}

func NewReserveHandler(svc ReserveService) *ReserveHandler {
	return &ReserveHandler{
		svc: svc,
	}
}

// HandleCreateReserve godoc
// @Summary      Book tents, products and experiences
// @Description  Guests must provide name and email. Authenticated users default to their profile.
// @Tags         reserves
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateReserveRequest  true  "request body"
// @Success      201      {object}  domain.Reserve
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /reserves [post]
// @Security     BearerAuth
func (h *ReserveHandler) HandleCreateReserve(ctx *gin.Context) {
	var req request.CreateReserveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reserve, err := h.svc.CreateReserve(ctx.Request.Context(), requester(ctx), req.ToDomain())
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateReserve -> h.svc.CreateReserve -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, reserve)
}

// HandleGetReserve godoc
// @Summary      Get a reserve with its line items
// @Tags         admin
// @Produce      json
// @Param        reserveID  path      int  true  "reserve id"
// @Success      200        {object}  domain.Reserve
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /admin/reserves/{reserveID} [get]
// @Security     BearerAuth
func (h *ReserveHandler) HandleGetReserve(ctx *gin.Context) {
	id, err := paramID(ctx, "reserveID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reserve, err := h.svc.GetReserve(ctx.Request.Context(), id)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetReserve -> h.svc.GetReserve -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, reserve)
}

// HandleListReserves godoc
// @Summary      List reserves, newest first
// @Tags         admin
// @Produce      json
// @Param        status  query     string  false  "reserve status"
// @Param        page    query     int     false  "page, starting at 1"
// @Param        size    query     int     false  "page size"
// @Success      200     {object}  response.Page[domain.Reserve]
// @Failure      400     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /admin/reserves [get]
// @Security     BearerAuth
func (h *ReserveHandler) HandleListReserves(ctx *gin.Context) {
	var q request.ListReservesQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := q.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	filter := q.ToDomain()
	reserves, total, err := h.svc.ListReserves(ctx.Request.Context(), filter)
	if err != nil {
		err = fmt.Errorf("v1.HandleListReserves -> h.svc.ListReserves -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Page[domain.Reserve]{
		Items: reserves,
		Total: total,
		Page:  max(filter.Page, 1),
		Size:  len(reserves),
	})
}

// HandleUpdateReserve godoc
// @Summary      Replace the line items of a reserve
// @Description  Only reserves without confirmed lines can be updated. Discounts cannot change.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        reserveID  path      int                           true  "reserve id"
// @Param        request    body      request.UpdateReserveRequest  true  "request body"
// @Success      200        {object}  domain.Reserve
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /admin/reserves/{reserveID} [put]
// @Security     BearerAuth
func (h *ReserveHandler) HandleUpdateReserve(ctx *gin.Context) {
	id, err := paramID(ctx, "reserveID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.UpdateReserveRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reserve, err := h.svc.UpdateReserve(ctx.Request.Context(), id, req.ToDomain())
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateReserve -> h.svc.UpdateReserve -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, reserve)
}

// HandleAddProduct godoc
// @Summary      Add a product line to a reserve
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        reserveID  path      int                  true  "reserve id"
// @Param        request    body      request.ProductLine  true  "request body"
// @Success      200        {object}  domain.Reserve
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /admin/reserves/{reserveID}/products [post]
// @Security     BearerAuth
func (h *ReserveHandler) HandleAddProduct(ctx *gin.Context) {
	id, err := paramID(ctx, "reserveID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.ProductLine
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reserve, err := h.svc.AddProductReserve(ctx.Request.Context(), id, req.ToDomain())
	if err != nil {
		err = fmt.Errorf("v1.HandleAddProduct -> h.svc.AddProductReserve -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, reserve)
}

// HandleDeleteProduct godoc
// @Summary      Remove an unconfirmed product line
// @Tags         admin
// @Produce      json
// @Param        reserveID  path      int  true  "reserve id"
// @Param        lineID     path      int  true  "line item id"
// @Success      200        {object}  domain.Reserve
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /admin/reserves/{reserveID}/products/{lineID} [delete]
// @Security     BearerAuth
func (h *ReserveHandler) HandleDeleteProduct(ctx *gin.Context) {
	id, err := paramID(ctx, "reserveID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	lineID, err := paramID(ctx, "lineID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reserve, err := h.svc.DeleteProductReserve(ctx.Request.Context(), id, lineID)
	if err != nil {
		err = fmt.Errorf("v1.HandleDeleteProduct -> h.svc.DeleteProductReserve -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, reserve)
}

// HandleAddExperience godoc
// @Summary      Add an experience line to a reserve
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        reserveID  path      int                     true  "reserve id"
// @Param        request    body      request.ExperienceLine  true  "request body"
// @Success      200        {object}  domain.Reserve
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /admin/reserves/{reserveID}/experiences [post]
// @Security     BearerAuth
func (h *ReserveHandler) HandleAddExperience(ctx *gin.Context) {
	id, err := paramID(ctx, "reserveID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.ExperienceLine
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reserve, err := h.svc.AddExperienceReserve(ctx.Request.Context(), id, req.ToDomain())
	if err != nil {
		err = fmt.Errorf("v1.HandleAddExperience -> h.svc.AddExperienceReserve -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, reserve)
}

// HandleDeleteExperience godoc
// @Summary      Remove an unconfirmed experience line
// @Tags         admin
// @Produce      json
// @Param        reserveID  path      int  true  "reserve id"
// @Param        lineID     path      int  true  "line item id"
// @Success      200        {object}  domain.Reserve
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /admin/reserves/{reserveID}/experiences/{lineID} [delete]
// @Security     BearerAuth
func (h *ReserveHandler) HandleDeleteExperience(ctx *gin.Context) {
	id, err := paramID(ctx, "reserveID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	lineID, err := paramID(ctx, "lineID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reserve, err := h.svc.DeleteExperienceReserve(ctx.Request.Context(), id, lineID)
	if err != nil {
		err = fmt.Errorf("v1.HandleDeleteExperience -> h.svc.DeleteExperienceReserve -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, reserve)
}

// HandleUpdatePayment godoc
// @Summary      Record the payment status of a reserve
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        reserveID  path      int                     true  "reserve id"
// @Param        request    body      request.PaymentRequest  true  "request body"
// @Success      200        {object}  domain.Reserve
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /admin/reserves/{reserveID}/payment [patch]
// @Security     BearerAuth
func (h *ReserveHandler) HandleUpdatePayment(ctx *gin.Context) {
	id, err := paramID(ctx, "reserveID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.PaymentRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reserve, err := h.svc.UpdatePaymentStatus(ctx.Request.Context(), id, domain.PaymentStatus(req.PaymentStatus))
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdatePayment -> h.svc.UpdatePaymentStatus -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, reserve)
}

// HandleConfirm godoc
// @Summary      Confirm a reserve or one of its line items
// @Description  Confirming RESERVE confirms every line. Confirming the last open line confirms the reserve.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        reserveID  path      int                     true  "reserve id"
// @Param        request    body      request.ConfirmRequest  true  "request body"
// @Success      200        {object}  domain.Reserve
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /admin/reserves/{reserveID}/confirm [post]
// @Security     BearerAuth
func (h *ReserveHandler) HandleConfirm(ctx *gin.Context) {
	id, err := paramID(ctx, "reserveID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.ConfirmRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reserve, err := h.svc.ConfirmEntity(ctx.Request.Context(), domain.EntityType(req.EntityType), id, req.EntityID)
	if err != nil {
		err = fmt.Errorf("v1.HandleConfirm -> h.svc.ConfirmEntity -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, reserve)
}

// HandleCancel godoc
// @Summary      Cancel a reserve
// @Description  Frees its tents and returns product stock.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        reserveID  path      int                    true  "reserve id"
// @Param        request    body      request.CancelRequest  true  "request body"
// @Success      200        {object}  domain.Reserve
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /admin/reserves/{reserveID}/cancel [post]
// @Security     BearerAuth
func (h *ReserveHandler) HandleCancel(ctx *gin.Context) {
	id, err := paramID(ctx, "reserveID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.CancelRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reserve, err := h.svc.CancelReserve(ctx.Request.Context(), id, req.Reason)
	if err != nil {
		err = fmt.Errorf("v1.HandleCancel -> h.svc.CancelReserve -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, reserve)
}

// HandleComplete godoc
// @Summary      Mark a confirmed reserve as complete
// @Tags         admin
// @Produce      json
// @Param        reserveID  path      int  true  "reserve id"
// @Success      200        {object}  domain.Reserve
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /admin/reserves/{reserveID}/complete [post]
// @Security     BearerAuth
func (h *ReserveHandler) HandleComplete(ctx *gin.Context) {
	id, err := paramID(ctx, "reserveID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reserve, err := h.svc.CompleteReserve(ctx.Request.Context(), id)
	if err != nil {
		err = fmt.Errorf("v1.HandleComplete -> h.svc.CompleteReserve -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, reserve)
}

// HandleBillingDocument godoc
// @Summary      Billing document of a reserve
// @Tags         admin
// @Produce      json
// @Param        reserveID  path      int  true  "reserve id"
// @Success      200        {object}  domain.BillingDocument
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /admin/reserves/{reserveID}/billing [get]
// @Security     BearerAuth
func (h *ReserveHandler) HandleBillingDocument(ctx *gin.Context) {
	id, err := paramID(ctx, "reserveID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	doc, err := h.svc.BillingDocument(ctx.Request.Context(), id)
	if err != nil {
		err = fmt.Errorf("v1.HandleBillingDocument -> h.svc.BillingDocument -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, doc)
}
