package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"winehouse/internal/usecase"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// /wines の公開API
type WineHandler struct {
	uc *usecase.WineUsecase
}

// DI
func NewWineHandler(uc *usecase.WineUsecase) *WineHandler {
	return &WineHandler{uc: uc}
}

// 公開カタログのルートを登録
func (h *WineHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/wines", h.list)
	e.GET("/wines/:id", h.detail)
	e.GET("/wines/:id/stock", h.stock)
	e.POST("/wines/bulk", h.bulk)
}

func (h *WineHandler) list(c echo.Context) error {
	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	// limit（default 20）
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	in := usecase.ListWinesInput{
		Page:      page,
		Limit:     limit,
		Name:      c.QueryParam("name"),
		Grape:     c.QueryParam("grape"),
		FoodPair:  c.QueryParam("food_pair"),
		Country:   c.QueryParam("country"),
		Producer:  c.QueryParam("producer"),
		PriceSort: c.QueryParam("sort"),
	}

	// type=red,white のようにカンマ区切りで複数指定できる
	if v := c.QueryParam("type"); v != "" {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				in.Types = append(in.Types, t)
			}
		}
	}

	if v := c.QueryParam("min_harvest"); v != "" {
		x, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_harvest"})
		}
		in.MinHarvest = &x
	}
	if v := c.QueryParam("max_harvest"); v != "" {
		x, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max_harvest"})
		}
		in.MaxHarvest = &x
	}

	if v := c.QueryParam("min_discount"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_discount"})
		}
		in.MinDiscount = &d
	}
	if v := c.QueryParam("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_price"})
		}
		in.MinPrice = &d
	}
	if v := c.QueryParam("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max_price"})
		}
		in.MaxPrice = &d
	}

	out, err := h.uc.ListWines(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *WineHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	w, err := h.uc.GetWineDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, w)
}

type wineStockResponse struct {
	WineID int64 `json:"wine_id"`
	Stock  int64 `json:"stock"`
}

func (h *WineHandler) stock(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	total, err := h.uc.GetWineStock(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, wineStockResponse{WineID: id, Stock: total})
}

type bulkWinesRequest struct {
	IDs []int64 `json:"ids"`
}

// カート復元用。IDのリストでまとめて引く。
func (h *WineHandler) bulk(c echo.Context) error {
	var req bulkWinesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.GetWinesByIDs(c.Request().Context(), req.IDs)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
