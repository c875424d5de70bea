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

type CatalogService interface {
	CreateTent(ctx context.Context, tent domain.Tent) (domain.Tent, error)
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	CreateExperience(ctx context.Context, experience domain.Experience) (domain.Experience, error)
	ListTents(ctx context.Context, status domain.Status) ([]domain.Tent, error)
	ListProducts(ctx context.Context, status domain.Status) ([]domain.Product, error)
	ListExperiences(ctx context.Context, status domain.Status) ([]domain.Experience, error)
	GetTent(ctx context.Context, id uint) (domain.Tent, error)
	GetProduct(ctx context.Context, id uint) (domain.Product, error)
	GetExperience(ctx context.Context, id uint) (domain.Experience, error)
	SetStatus(ctx context.Context, kind domain.EntityType, id uint, status domain.Status) error
}

type CatalogHandler struct {
	svc CatalogService
}

func NewCatalogHandler(svc CatalogService) *CatalogHandler {
	return &CatalogHandler{
		svc: svc,
	}
}

// HandleCreateTent godoc
// @Summary      Create a tent
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateTentRequest  true  "request body"
// @Success      201      {object}  domain.Tent
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/tents [post]
// @Security     BearerAuth
func (h *CatalogHandler) HandleCreateTent(ctx *gin.Context) {
	var req request.CreateTentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	tent, err := h.svc.CreateTent(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateTent -> h.svc.CreateTent -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, tent)
}

// HandleCreateProduct godoc
// @Summary      Create a product
// @Description  Omit stock for products that are never exhausted.
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateProductRequest  true  "request body"
// @Success      201      {object}  domain.Product
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/products [post]
// @Security     BearerAuth
func (h *CatalogHandler) HandleCreateProduct(ctx *gin.Context) {
	var req request.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	product, err := h.svc.CreateProduct(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateProduct -> h.svc.CreateProduct -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

// HandleCreateExperience godoc
// @Summary      Create an experience
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateExperienceRequest  true  "request body"
// @Success      201      {object}  domain.Experience
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/experiences [post]
// @Security     BearerAuth
func (h *CatalogHandler) HandleCreateExperience(ctx *gin.Context) {
	var req request.CreateExperienceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	experience, err := h.svc.CreateExperience(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateExperience -> h.svc.CreateExperience -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, experience)
}

// statusFilter reads ?status=. Public listings only ever show active items.
func statusFilter(ctx *gin.Context, public bool) (domain.Status, error) {
	if public {
		return domain.StatusActive, nil
	}

	var q request.StatusQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		return "", err
	}
	if err := q.Validate(); err != nil {
		return "", err
	}

	return domain.Status(q.Status), nil
}

// HandleListTents godoc
// @Summary      List tents
// @Tags         catalog
// @Produce      json
// @Param        status  query     string  false  "ACTIVE or INACTIVE, admin only"
// @Success      200     {array}   domain.Tent
// @Failure      400     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /tents [get]
// @Router       /admin/tents [get]
func (h *CatalogHandler) HandleListTents(public bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status, err := statusFilter(ctx, public)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		tents, err := h.svc.ListTents(ctx.Request.Context(), status)
		if err != nil {
			err = fmt.Errorf("v1.HandleListTents -> h.svc.ListTents -> %w", err)
			response.RenderErr(ctx, response.FromError(err))
			return
		}

		ctx.JSON(http.StatusOK, tents)
	}
}

// HandleListProducts godoc
// @Summary      List products
// @Tags         catalog
// @Produce      json
// @Param        status  query     string  false  "ACTIVE or INACTIVE, admin only"
// @Success      200     {array}   domain.Product
// @Failure      400     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /products [get]
// @Router       /admin/products [get]
func (h *CatalogHandler) HandleListProducts(public bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status, err := statusFilter(ctx, public)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		products, err := h.svc.ListProducts(ctx.Request.Context(), status)
		if err != nil {
			err = fmt.Errorf("v1.HandleListProducts -> h.svc.ListProducts -> %w", err)
			response.RenderErr(ctx, response.FromError(err))
			return
		}

		ctx.JSON(http.StatusOK, products)
	}
}

// HandleListExperiences godoc
// @Summary      List experiences
// @Tags         catalog
// @Produce      json
// @Param        status  query     string  false  "ACTIVE or INACTIVE, admin only"
// @Success      200     {array}   domain.Experience
// @Failure      400     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /experiences [get]
// @Router       /admin/experiences [get]
func (h *CatalogHandler) HandleListExperiences(public bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status, err := statusFilter(ctx, public)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		experiences, err := h.svc.ListExperiences(ctx.Request.Context(), status)
		if err != nil {
			err = fmt.Errorf("v1.HandleListExperiences -> h.svc.ListExperiences -> %w", err)
			response.RenderErr(ctx, response.FromError(err))
			return
		}

		ctx.JSON(http.StatusOK, experiences)
	}
}

// HandleGetTent godoc
// @Summary      Get a tent
// @Tags         catalog
// @Produce      json
// @Param        tentID  path      int  true  "tent id"
// @Success      200     {object}  domain.Tent
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /tents/{tentID} [get]
func (h *CatalogHandler) HandleGetTent(ctx *gin.Context) {
	id, err := paramID(ctx, "tentID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	tent, err := h.svc.GetTent(ctx.Request.Context(), id)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetTent -> h.svc.GetTent -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, tent)
}

// HandleGetProduct godoc
// @Summary      Get a product
// @Tags         catalog
// @Produce      json
// @Param        productID  path      int  true  "product id"
// @Success      200        {object}  domain.Product
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /products/{productID} [get]
func (h *CatalogHandler) HandleGetProduct(ctx *gin.Context) {
	id, err := paramID(ctx, "productID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	product, err := h.svc.GetProduct(ctx.Request.Context(), id)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetProduct -> h.svc.GetProduct -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// HandleGetExperience godoc
// @Summary      Get an experience
// @Tags         catalog
// @Produce      json
// @Param        experienceID  path      int  true  "experience id"
// @Success      200           {object}  domain.Experience
// @Failure      400           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /experiences/{experienceID} [get]
func (h *CatalogHandler) HandleGetExperience(ctx *gin.Context) {
	id, err := paramID(ctx, "experienceID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	experience, err := h.svc.GetExperience(ctx.Request.Context(), id)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetExperience -> h.svc.GetExperience -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, experience)
}

// HandleSetStatus godoc
// @Summary      Activate or deactivate a catalog item
// @Description  Inactive items cannot be booked. Existing reserves keep their snapshot.
// @Tags         catalog
// @Accept       json
// @Param        id       path  int                    true  "item id"
// @Param        request  body  request.StatusRequest  true  "request body"
// @Success      204
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/tents/{id}/status [patch]
// @Router       /admin/products/{id}/status [patch]
// @Router       /admin/experiences/{id}/status [patch]
// @Security     BearerAuth
func (h *CatalogHandler) HandleSetStatus(kind domain.EntityType) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, err := paramID(ctx, "id")
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

		if err = h.svc.SetStatus(ctx.Request.Context(), kind, id, domain.Status(req.Status)); err != nil {
			err = fmt.Errorf("v1.HandleSetStatus -> h.svc.SetStatus -> %w", err)
			response.RenderErr(ctx, response.FromError(err))
			return
		}

		ctx.Status(http.StatusNoContent)
	}
}
