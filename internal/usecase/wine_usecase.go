package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"winehouse/internal/domain/model"
	repo "winehouse/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

type WineUsecase struct {
	wineRepo  repo.WineRepository
	stockRepo repo.StockRepository
}

// DI
func NewWineUsecase(wineRepo repo.WineRepository, stockRepo repo.StockRepository) *WineUsecase {
	return &WineUsecase{wineRepo: wineRepo, stockRepo: stockRepo}
}

// GET /winesの入力DTO
type ListWinesInput struct {
	Page        int
	Limit       int
	Name        string
	Types       []string
	Grape       string
	FoodPair    string
	Country     string
	Producer    string
	MinHarvest  *int
	MaxHarvest  *int
	MinDiscount *decimal.Decimal
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	PriceSort   string
}

// 在庫はカタログに持たず、常に倉庫から合算して載せる
type WineOutput struct {
	model.Wine
	Stock int64 `json:"stock"`
}

type WineListOutput struct {
	Items []WineOutput `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

func (u *WineUsecase) ListWines(ctx context.Context, in ListWinesInput) (WineListOutput, error) {
	if in.Page < 1 {
		return WineListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return WineListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Name) > 100 {
		return WineListOutput{}, NewHTTPError(http.StatusBadRequest, "name too long")
	}
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return WineListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return WineListOutput{}, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return WineListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}
	if in.MinHarvest != nil && in.MaxHarvest != nil && *in.MinHarvest > *in.MaxHarvest {
		return WineListOutput{}, NewHTTPError(http.StatusBadRequest, "min_harvest must be <= max_harvest")
	}
	switch in.PriceSort {
	case "", "asc", "desc":
	default:
		return WineListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.wineRepo.List(ctx, repo.WineListQuery{
		Page:        in.Page,
		Limit:       in.Limit,
		Name:        strings.TrimSpace(in.Name),
		Types:       in.Types,
		Grape:       strings.TrimSpace(in.Grape),
		FoodPair:    strings.TrimSpace(in.FoodPair),
		Country:     strings.TrimSpace(in.Country),
		Producer:    strings.TrimSpace(in.Producer),
		MinHarvest:  in.MinHarvest,
		MaxHarvest:  in.MaxHarvest,
		MinDiscount: in.MinDiscount,
		MinPrice:    in.MinPrice,
		MaxPrice:    in.MaxPrice,
		PriceSort:   in.PriceSort,
	})
	if err != nil {
		return WineListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs, err := u.withStock(ctx, items)
	if err != nil {
		return WineListOutput{}, err
	}

	return WineListOutput{
		Items: outs,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *WineUsecase) GetWineDetail(ctx context.Context, wineID int64) (WineOutput, error) {
	if wineID <= 0 {
		return WineOutput{}, NewHTTPError(http.StatusBadRequest, "invalid wine id")
	}

	w, err := u.wineRepo.FindByID(ctx, wineID)
	if errors.Is(err, repo.ErrNotFound) {
		return WineOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return WineOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	stock, err := u.stockRepo.Total(ctx, w.ID)
	if err != nil {
		return WineOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return WineOutput{Wine: w, Stock: stock}, nil
}

func (u *WineUsecase) GetWinesByIDs(ctx context.Context, ids []int64) ([]WineOutput, error) {
	if len(ids) == 0 {
		return []WineOutput{}, NewHTTPError(http.StatusBadRequest, "no wine ids provided")
	}
	for _, id := range ids {
		if id <= 0 {
			return []WineOutput{}, NewHTTPError(http.StatusBadRequest, "invalid wine id")
		}
	}

	wines, err := u.wineRepo.FindByIDs(ctx, ids)
	if err != nil {
		return []WineOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.withStock(ctx, wines)
}

// 在庫ゼロと在庫レコード無しは同じ0として返る
func (u *WineUsecase) GetWineStock(ctx context.Context, wineID int64) (int64, error) {
	if wineID <= 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "invalid wine id")
	}

	if _, err := u.wineRepo.FindByID(ctx, wineID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, NewHTTPError(http.StatusNotFound, "not found")
		}
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	stock, err := u.stockRepo.Total(ctx, wineID)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return stock, nil
}

type AdminCreateWineInput struct {
	Name        string
	Producer    string
	Country     string
	Type        string
	HarvestYear int
	Rate        float64
	Description string
	Grapes      string
	FoodPairs   string
	ImagePath   string
	SalePrice   decimal.Decimal
	Discount    decimal.Decimal
}

func (u *WineUsecase) AdminCreateWine(ctx context.Context, adminID int64, in AdminCreateWineInput) (int64, error) {
	if adminID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Name) == "" {
		return 0, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.SalePrice.IsNegative() {
		return 0, NewHTTPError(http.StatusBadRequest, "sale_price must be >= 0")
	}
	if !validDiscount(in.Discount) {
		return 0, NewHTTPError(http.StatusBadRequest, "discount must be in [0,1)")
	}

	w, err := u.wineRepo.Create(ctx, model.Wine{
		Name:        strings.TrimSpace(in.Name),
		Producer:    in.Producer,
		Country:     in.Country,
		Type:        in.Type,
		HarvestYear: in.HarvestYear,
		Rate:        in.Rate,
		Description: in.Description,
		Grapes:      in.Grapes,
		FoodPairs:   in.FoodPairs,
		ImagePath:   in.ImagePath,
		SalePrice:   in.SalePrice,
		Discount:    in.Discount,
	})
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return w.ID, nil
}

// PATCH用。nilのフィールドは既存値を残す。
type AdminPatchWineInput struct {
	Name        *string
	Producer    *string
	Country     *string
	Type        *string
	HarvestYear *int
	Rate        *float64
	Description *string
	Grapes      *string
	FoodPairs   *string
	ImagePath   *string
	SalePrice   *decimal.Decimal
	Discount    *decimal.Decimal
}

func (u *WineUsecase) AdminPatchWine(ctx context.Context, adminID int64, wineID int64, in AdminPatchWineInput) error {
	if adminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if wineID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid wine id")
	}

	w, err := u.wineRepo.FindByID(ctx, wineID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return NewHTTPError(http.StatusBadRequest, "name required")
		}
		w.Name = strings.TrimSpace(*in.Name)
	}
	if in.Producer != nil {
		w.Producer = *in.Producer
	}
	if in.Country != nil {
		w.Country = *in.Country
	}
	if in.Type != nil {
		w.Type = *in.Type
	}
	if in.HarvestYear != nil {
		w.HarvestYear = *in.HarvestYear
	}
	if in.Rate != nil {
		w.Rate = *in.Rate
	}
	if in.Description != nil {
		w.Description = *in.Description
	}
	if in.Grapes != nil {
		w.Grapes = *in.Grapes
	}
	if in.FoodPairs != nil {
		w.FoodPairs = *in.FoodPairs
	}
	if in.ImagePath != nil {
		w.ImagePath = *in.ImagePath
	}
	if in.SalePrice != nil {
		if in.SalePrice.IsNegative() {
			return NewHTTPError(http.StatusBadRequest, "sale_price must be >= 0")
		}
		w.SalePrice = *in.SalePrice
	}
	if in.Discount != nil {
		if !validDiscount(*in.Discount) {
			return NewHTTPError(http.StatusBadRequest, "discount must be in [0,1)")
		}
		w.Discount = *in.Discount
	}

	if err := u.wineRepo.Update(ctx, w); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *WineUsecase) AdminDeleteWine(ctx context.Context, adminID int64, wineID int64) error {
	if adminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if wineID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid wine id")
	}

	err := u.wineRepo.SoftDelete(ctx, wineID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *WineUsecase) withStock(ctx context.Context, wines []model.Wine) ([]WineOutput, error) {
	outs := make([]WineOutput, 0, len(wines))
	for _, w := range wines {
		stock, err := u.stockRepo.Total(ctx, w.ID)
		if err != nil {
			return []WineOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs = append(outs, WineOutput{Wine: w, Stock: stock})
	}
	return outs, nil
}

// 割引率は0以上1未満
func validDiscount(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThan(decimal.NewFromInt(1))
}
