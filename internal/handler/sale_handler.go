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

type SaleHandler struct {
	uc *usecase.SaleUsecase
}

func NewSaleHandler(uc *usecase.SaleUsecase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

type saleItemRequest struct {
	WineID   int64 `json:"wine_id"`
	Quantity int64 `json:"quantity"`
}

type SaleCreateRequest struct {
	Items      []saleItemRequest `json:"items"`
	Address    string            `json:"address"`
	City       string            `json:"city"`
	Province   string            `json:"province"`
	PostalCode string            `json:"postal_code"`
}

func (h *SaleHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, accountRepo repository.AccountRepository) {
	g := e.Group("/sales")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.ActiveAccountGuard(accountRepo))

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
}

func (h *SaleHandler) create(c echo.Context) error {
	accountID, ok := getAccountIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req SaleCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in := usecase.CheckoutInput{
		Address:    req.Address,
		City:       req.City,
		Province:   req.Province,
		PostalCode: req.PostalCode,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, usecase.CheckoutItemInput{
			WineID:   it.WineID,
			Quantity: it.Quantity,
		})
	}

	out, err := h.uc.Checkout(c.Request().Context(), accountID, in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *SaleHandler) list(c echo.Context) error {
	accountID, ok := getAccountIDFromContext(c)
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

	out, err := h.uc.ListMySales(c.Request().Context(), accountID, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SaleHandler) detail(c echo.Context) error {
	accountID, ok := getAccountIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetMySaleDetail(c.Request().Context(), accountID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
