package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"winehouse/internal/config"
	"winehouse/internal/middleware"
	"winehouse/internal/repository"
	"winehouse/internal/usecase"
)

// 倉庫への受け入れと在庫照会のadmin API
type WarehouseHandler struct {
	uc *usecase.StockUsecase
}

// DI
func NewWarehouseHandler(uc *usecase.StockUsecase) *WarehouseHandler {
	return &WarehouseHandler{uc: uc}
}

type WarehouseResolveRequest struct {
	Location string `json:"location"`
}

type StockAddRequest struct {
	WarehouseID int64  `json:"warehouse_id"`
	Aisle       string `json:"aisle"`
	Shelf       string `json:"shelf"`
	WineID      int64  `json:"wine_id"`
	Quantity    int64  `json:"quantity"`
}

func (h *WarehouseHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, accountRepo repository.AccountRepository) {
	admin := e.Group("/admin")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.ActiveAccountGuard(accountRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.POST("/warehouses", h.resolve)
	admin.POST("/stock", h.addStock)
	admin.GET("/wines/:id/locations", h.locations)
}

// 場所名から倉庫IDを引く。無ければ作って返す。
func (h *WarehouseHandler) resolve(c echo.Context) error {
	var req WarehouseResolveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	id, err := h.uc.ResolveWarehouse(c.Request().Context(), req.Location)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]int64{"warehouse_id": id})
}

func (h *WarehouseHandler) addStock(c echo.Context) error {
	var req StockAddRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	err := h.uc.AddStock(c.Request().Context(), usecase.AddStockInput{
		WarehouseID: req.WarehouseID,
		Aisle:       req.Aisle,
		Shelf:       req.Shelf,
		WineID:      req.WineID,
		Quantity:    req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "stock added"})
}

func (h *WarehouseHandler) locations(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	locs, err := h.uc.Locate(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, locs)
}
