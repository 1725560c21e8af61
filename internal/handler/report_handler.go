package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"winehouse/internal/config"
	"winehouse/internal/middleware"
	"winehouse/internal/repository"
	"winehouse/internal/usecase"
)

// 棚卸しと収支のadmin API
type ReportHandler struct {
	reportUC  *usecase.ReportUsecase
	financeUC *usecase.FinanceUsecase
}

// DI
func NewReportHandler(reportUC *usecase.ReportUsecase, financeUC *usecase.FinanceUsecase) *ReportHandler {
	return &ReportHandler{reportUC: reportUC, financeUC: financeUC}
}

func (h *ReportHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, accountRepo repository.AccountRepository) {
	admin := e.Group("/admin/reports")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.ActiveAccountGuard(accountRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/stock", h.stock)
	admin.GET("/low-stock", h.lowStock)
	admin.GET("/finance", h.finance)
	admin.GET("/finance/daily", h.financeDaily)
}

func (h *ReportHandler) stock(c echo.Context) error {
	adminID, ok := getAccountIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.reportUC.StockReport(c.Request().Context(), adminID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) lowStock(c echo.Context) error {
	adminID, ok := getAccountIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.reportUC.LowStock(c.Request().Context(), adminID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// from/toはRFC3339。両方省略で今月。
func parseRange(c echo.Context) (usecase.FinanceRangeInput, error) {
	var in usecase.FinanceRangeInput

	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return in, err
		}
		in.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return in, err
		}
		in.To = &t
	}
	return in, nil
}

func (h *ReportHandler) finance(c echo.Context) error {
	adminID, ok := getAccountIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	in, err := parseRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid time range"})
	}

	out, err := h.financeUC.RangeReport(c.Request().Context(), adminID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) financeDaily(c echo.Context) error {
	adminID, ok := getAccountIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	in, err := parseRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid time range"})
	}

	out, err := h.financeUC.DailyReport(c.Request().Context(), adminID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
