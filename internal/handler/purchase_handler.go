package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"winehouse/internal/config"
	"winehouse/internal/middleware"
	"winehouse/internal/repository"
	"winehouse/internal/usecase"
)

// 仕入れ記録のadmin API
type PurchaseHandler struct {
	uc *usecase.PurchaseUsecase
}

// DI
func NewPurchaseHandler(uc *usecase.PurchaseUsecase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

type PurchaseCreateRequest struct {
	WineID    int64           `json:"wine_id"`
	CostPrice decimal.Decimal `json:"cost_price"`
	Amount    int64           `json:"amount"`
}

type PurchaseBulkRequest struct {
	Purchases []PurchaseCreateRequest `json:"purchases"`
}

func (h *PurchaseHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, accountRepo repository.AccountRepository) {
	admin := e.Group("/admin/purchases")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.ActiveAccountGuard(accountRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.POST("", h.create)
	admin.POST("/bulk", h.createBulk)
	admin.GET("", h.list)
}

func (h *PurchaseHandler) create(c echo.Context) error {
	adminID, ok := getAccountIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req PurchaseCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	id, err := h.uc.Create(c.Request().Context(), adminID, usecase.PurchaseInput{
		WineID:    req.WineID,
		CostPrice: req.CostPrice,
		Amount:    req.Amount,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]int64{"id": id})
}

func (h *PurchaseHandler) createBulk(c echo.Context) error {
	adminID, ok := getAccountIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req PurchaseBulkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	ins := make([]usecase.PurchaseInput, 0, len(req.Purchases))
	for _, p := range req.Purchases {
		ins = append(ins, usecase.PurchaseInput{
			WineID:    p.WineID,
			CostPrice: p.CostPrice,
			Amount:    p.Amount,
		})
	}

	if err := h.uc.CreateBulk(c.Request().Context(), adminID, ins); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "created"})
}

func (h *PurchaseHandler) list(c echo.Context) error {
	adminID, ok := getAccountIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	out, err := h.uc.List(c.Request().Context(), adminID, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
