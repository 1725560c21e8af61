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

// SuccessResponse は { message: string } の形に寄せます。
type SuccessResponse struct {
	Message string `json:"message"`
}

type WineCreateRequest struct {
	Name        string          `json:"name"`
	Producer    string          `json:"producer"`
	Country     string          `json:"country"`
	Type        string          `json:"type"`
	HarvestYear int             `json:"harvest_year"`
	Rate        float64         `json:"rate"`
	Description string          `json:"description"`
	Grapes      string          `json:"grapes"`
	FoodPairs   string          `json:"food_pairs"`
	ImagePath   string          `json:"image_path"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	Discount    decimal.Decimal `json:"discount"`
}

// PATCH用。省略したフィールドは変更しない。
type WinePatchRequest struct {
	Name        *string          `json:"name"`
	Producer    *string          `json:"producer"`
	Country     *string          `json:"country"`
	Type        *string          `json:"type"`
	HarvestYear *int             `json:"harvest_year"`
	Rate        *float64         `json:"rate"`
	Description *string          `json:"description"`
	Grapes      *string          `json:"grapes"`
	FoodPairs   *string          `json:"food_pairs"`
	ImagePath   *string          `json:"image_path"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	Discount    *decimal.Decimal `json:"discount"`
}

// /admin/wines をまとめる
type AdminWineHandler struct {
	uc *usecase.WineUsecase
}

// DI
func NewAdminWineHandler(uc *usecase.WineUsecase) *AdminWineHandler {
	return &AdminWineHandler{uc: uc}
}

// adminを登録
func (h *AdminWineHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, accountRepo repository.AccountRepository) {
	admin := e.Group("/admin")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.ActiveAccountGuard(accountRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.POST("/wines", h.createWine)
	admin.PATCH("/wines/:id", h.patchWine)
	admin.DELETE("/wines/:id", h.deleteWine)
}

func (h *AdminWineHandler) createWine(c echo.Context) error {
	var req WineCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	adminID, ok := getAccountIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := h.uc.AdminCreateWine(
		c.Request().Context(),
		adminID,
		usecase.AdminCreateWineInput{
			Name:        req.Name,
			Producer:    req.Producer,
			Country:     req.Country,
			Type:        req.Type,
			HarvestYear: req.HarvestYear,
			Rate:        req.Rate,
			Description: req.Description,
			Grapes:      req.Grapes,
			FoodPairs:   req.FoodPairs,
			ImagePath:   req.ImagePath,
			SalePrice:   req.SalePrice,
			Discount:    req.Discount,
		},
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]int64{"id": id})
}

func (h *AdminWineHandler) patchWine(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req WinePatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	adminID, ok := getAccountIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	err = h.uc.AdminPatchWine(
		c.Request().Context(),
		adminID,
		id,
		usecase.AdminPatchWineInput{
			Name:        req.Name,
			Producer:    req.Producer,
			Country:     req.Country,
			Type:        req.Type,
			HarvestYear: req.HarvestYear,
			Rate:        req.Rate,
			Description: req.Description,
			Grapes:      req.Grapes,
			FoodPairs:   req.FoodPairs,
			ImagePath:   req.ImagePath,
			SalePrice:   req.SalePrice,
			Discount:    req.Discount,
		},
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *AdminWineHandler) deleteWine(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	adminID, ok := getAccountIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.AdminDeleteWine(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

//middleware.AuthJWT が c.Set("account_id", int64) した値を取り出す

func getAccountIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get("account_id")
	if v == nil {
		return 0, false
	}

	id, ok := v.(int64)
	if !ok {
		return 0, false
	}

	return id, true
}
