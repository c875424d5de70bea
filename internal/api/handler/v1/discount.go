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

type DiscountService interface {
	ValidateCode(ctx context.Context, code string) (domain.DiscountCode, error)
	ValidatePromotion(ctx context.Context, id uint) (domain.Promotion, error)
	CreateCode(ctx context.Context, code domain.DiscountCode) (domain.DiscountCode, error)
	CreatePromotion(ctx context.Context, promotion domain.Promotion) (domain.Promotion, error)
	ListCodes(ctx context.Context) ([]domain.DiscountCode, error)
	ListPromotions(ctx context.Context, status domain.Status) ([]domain.Promotion, error)
	SetCodeStatus(ctx context.Context, id uint, status domain.Status) error
}

type DiscountHandler struct {
	svc DiscountService
}

func NewDiscountHandler(svc DiscountService) *DiscountHandler {
	return &DiscountHandler{
		svc: svc,
	}
}

// HandleValidateDiscount godoc
// @Summary      Check a discount code or promotion before booking
// @Description  The result is advisory. Redemption is checked again when the reserve is created.
// @Tags         discounts
// @Accept       json
// @Produce      json
// @Param        request  body      request.ValidateDiscountRequest  true  "request body"
// @Success      200      {object}  domain.DiscountCode
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /discounts/validate [post]
func (h *DiscountHandler) HandleValidateDiscount(ctx *gin.Context) {
	var req request.ValidateDiscountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if req.PromotionID != nil {
		promotion, err := h.svc.ValidatePromotion(ctx.Request.Context(), *req.PromotionID)
		if err != nil {
			err = fmt.Errorf("v1.HandleValidateDiscount -> h.svc.ValidatePromotion -> %w", err)
			response.RenderErr(ctx, response.FromError(err))
			return
		}

		ctx.JSON(http.StatusOK, promotion)
		return
	}

	code, err := h.svc.ValidateCode(ctx.Request.Context(), req.Code)
	if err != nil {
		err = fmt.Errorf("v1.HandleValidateDiscount -> h.svc.ValidateCode -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, code)
}

// HandleCreateCode godoc
// @Summary      Create a discount code
// @Tags         discounts
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateCodeRequest  true  "request body"
// @Success      201      {object}  domain.DiscountCode
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/discounts [post]
// @Security     BearerAuth
func (h *DiscountHandler) HandleCreateCode(ctx *gin.Context) {
	var req request.CreateCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	code, err := h.svc.CreateCode(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateCode -> h.svc.CreateCode -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, code)
}

// HandleListCodes godoc
// @Summary      List discount codes
// @Tags         discounts
// @Produce      json
// @Success      200  {array}   domain.DiscountCode
// @Failure      500  {object}  response.Err
// @Router       /admin/discounts [get]
// @Security     BearerAuth
func (h *DiscountHandler) HandleListCodes(ctx *gin.Context) {
	codes, err := h.svc.ListCodes(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListCodes -> h.svc.ListCodes -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, codes)
}

// HandleSetCodeStatus godoc
// @Summary      Activate or deactivate a discount code
// @Tags         discounts
// @Accept       json
// @Param        codeID   path  int                    true  "discount code id"
// @Param        request  body  request.StatusRequest  true  "request body"
// @Success      204
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/discounts/{codeID}/status [patch]
// @Security     BearerAuth
func (h *DiscountHandler) HandleSetCodeStatus(ctx *gin.Context) {
	id, err := paramID(ctx, "codeID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.StatusRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = h.svc.SetCodeStatus(ctx.Request.Context(), id, domain.Status(req.Status)); err != nil {
		err = fmt.Errorf("v1.HandleSetCodeStatus -> h.svc.SetCodeStatus -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleCreatePromotion godoc
// @Summary      Create a promotion
// @Tags         discounts
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreatePromotionRequest  true  "request body"
// @Success      201      {object}  domain.Promotion
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/promotions [post]
// @Security     BearerAuth
func (h *DiscountHandler) HandleCreatePromotion(ctx *gin.Context) {
	var req request.CreatePromotionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	promotion, err := h.svc.CreatePromotion(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		err = fmt.Errorf("v1.HandleCreatePromotion -> h.svc.CreatePromotion -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, promotion)
}

// HandleListPromotions godoc
// @Summary      List active promotions
// @Tags         discounts
// @Produce      json
// @Success      200  {array}   domain.Promotion
// @Failure      500  {object}  response.Err
// @Router       /promotions [get]
func (h *DiscountHandler) HandleListPromotions(ctx *gin.Context) {
	promotions, err := h.svc.ListPromotions(ctx.Request.Context(), domain.StatusActive)
	if err != nil {
		err = fmt.Errorf("v1.HandleListPromotions -> h.svc.ListPromotions -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, promotions)
}
