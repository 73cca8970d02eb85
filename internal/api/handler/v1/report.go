package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nurbek2810/stockchat-api/internal/api/handler/v1/response"
	"github.com/nurbek2810/stockchat-api/internal/domain"
)

type ReportService interface {
	SalesByDay(ctx context.Context, network string) ([]domain.NetworkSales, error)
	SalesByWeek(ctx context.Context, network string) ([]domain.NetworkSales, error)
	SalesByMonth(ctx context.Context, network string) ([]domain.NetworkSales, error)
	StockTable(ctx context.Context, network string) ([]domain.StockRow, error)
	StaleSellers(ctx context.Context, days int) (map[string][]string, error)
}

type ReportHandler struct {
	svc ReportService
}

func NewReportHandler(svc ReportService) *ReportHandler {
	return &ReportHandler{
		svc: svc,
	}
}

// HandleSalesReport godoc
// @Summary      Per-network sales aggregates
// @Description  Sums sale quantities by network for the current day, ISO week or calendar month. Month scope includes the monthly plan and a linear projection.
// @Tags         reports
// @Produce      json
// @Param        scope    query     string  false  "day|week|month"  default(day)
// @Param        network  query     string  false  "filter to one network"
// @Success      200      {array}   domain.NetworkSales
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /reports/sales [get]
func (h *ReportHandler) HandleSalesReport(ctx *gin.Context) {
	scope := ctx.DefaultQuery("scope", "day")
	network := ctx.Query("network")

	var (
		totals []domain.NetworkSales
		err    error
	)
	switch scope {
	case "day":
		totals, err = h.svc.SalesByDay(ctx.Request.Context(), network)
	case "week":
		totals, err = h.svc.SalesByWeek(ctx.Request.Context(), network)
	case "month":
		totals, err = h.svc.SalesByMonth(ctx.Request.Context(), network)
	default:
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("scope must be day, week or month")))

		return
	}
	if err != nil {
		err = fmt.Errorf("HandleSalesReport -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, totals)
}

// HandleStaleReport godoc
// @Summary      People with no recent sales
// @Description  Lists people with no recorded sale in the last N days, grouped by network.
// @Tags         reports
// @Produce      json
// @Param        days  query     int  false  "staleness window in days"  default(4)
// @Success      200   {object}  map[string][]string
// @Failure      400   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /reports/stale [get]
func (h *ReportHandler) HandleStaleReport(ctx *gin.Context) {
	days, err := strconv.Atoi(ctx.DefaultQuery("days", "4"))
	if err != nil || days < 1 {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("days must be a positive integer")))

		return
	}

	groups, err := h.svc.StaleSellers(ctx.Request.Context(), days)
	if err != nil {
		err = fmt.Errorf("HandleStaleReport -> h.svc.StaleSellers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, groups)
}

// HandleStockTable godoc
// @Summary      Current stock rows for a network
// @Tags         reports
// @Produce      json
// @Param        network  path      string  true  "network name"
// @Success      200      {array}   domain.StockRow
// @Failure      500      {object}  response.Err
// @Router       /networks/{network}/stock [get]
func (h *ReportHandler) HandleStockTable(ctx *gin.Context) {
	network := ctx.Param("network")

	rows, err := h.svc.StockTable(ctx.Request.Context(), network)
	if err != nil {
		err = fmt.Errorf("HandleStockTable -> h.svc.StockTable -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, rows)
}
