package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nurbek2810/stockchat-api/internal/api/handler/v1/request"
	"github.com/nurbek2810/stockchat-api/internal/api/handler/v1/response"
	"github.com/nurbek2810/stockchat-api/internal/domain"
	"github.com/nurbek2810/stockchat-api/internal/service"
)

type AdminService interface {
	EnsureNetwork(ctx context.Context, network, city, address string) error
	SetMonthlyPlan(ctx context.Context, network string, year, month, qty int) error
	CreateProduct(ctx context.Context, name string, aliases []string) (domain.Product, error)
	AddAlias(ctx context.Context, productID uint, alias string) error
}

type AdminHandler struct {
	svc AdminService
}

func NewAdminHandler(svc AdminService) *AdminHandler {
	return &AdminHandler{
		svc: svc,
	}
}

// HandleEnsureNetwork godoc
// @Summary      Create or update network meta
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        input  body      request.EnsureNetworkRequest  true  "Network meta"
// @Success      204
// @Failure      400    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /networks [post]
func (h *AdminHandler) HandleEnsureNetwork(ctx *gin.Context) {
	req := request.EnsureNetworkRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := h.svc.EnsureNetwork(ctx.Request.Context(), req.Name, req.City, req.Address); err != nil {
		err = fmt.Errorf("HandleEnsureNetwork -> h.svc.EnsureNetwork -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleSetPlan godoc
// @Summary      Set the monthly sales plan for a network
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        input  body      request.SetPlanRequest  true  "Plan"
// @Success      204
// @Failure      400    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /plans [post]
func (h *AdminHandler) HandleSetPlan(ctx *gin.Context) {
	req := request.SetPlanRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := h.svc.SetMonthlyPlan(ctx.Request.Context(), req.Network, req.Year, req.Month, req.Qty); err != nil {
		err = fmt.Errorf("HandleSetPlan -> h.svc.SetMonthlyPlan -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleCreateProduct godoc
// @Summary      Create a catalog product
// @Description  Creates a product with optional alias spellings. Both canonical names and aliases feed fuzzy resolution.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateProductRequest  true  "Product"
// @Success      201    {object}  domain.Product
// @Failure      400    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /products [post]
func (h *AdminHandler) HandleCreateProduct(ctx *gin.Context) {
	req := request.CreateProductRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	product, err := h.svc.CreateProduct(ctx.Request.Context(), req.Name, req.Aliases)
	if err != nil {
		if errors.Is(err, service.ErrProductExists) {
			response.RenderErr(ctx, response.ErrConflict(err))

			return
		}

		err = fmt.Errorf("HandleCreateProduct -> h.svc.CreateProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, product)
}

// HandleAddAlias godoc
// @Summary      Add an alias spelling to a product
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        productID  path      int                      true  "product id"
// @Param        input      body      request.AddAliasRequest  true  "Alias"
// @Success      204
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /products/{productID}/aliases [post]
func (h *AdminHandler) HandleAddAlias(ctx *gin.Context) {
	productID, err := strconv.ParseUint(ctx.Param("productID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("productID must be an integer")))

		return
	}

	req := request.AddAliasRequest{}
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}
	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err = h.svc.AddAlias(ctx.Request.Context(), uint(productID), req.Alias); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("product", "productID", productID))

			return
		}

		err = fmt.Errorf("HandleAddAlias -> h.svc.AddAlias -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}
