package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"winehouse/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// カタログ検索の条件
type WineListQuery struct {
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
	PriceSort   string // "asc" / "desc" / ""
}

// ワインカタログの永続化だけを約束。
type WineRepository interface {
	List(ctx context.Context, q WineListQuery) ([]model.Wine, int64, error)
	ListAll(ctx context.Context) ([]model.Wine, error)
	FindByID(ctx context.Context, id int64) (model.Wine, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Wine, error)

	Create(ctx context.Context, w model.Wine) (model.Wine, error)
	Update(ctx context.Context, w model.Wine) error
	SoftDelete(ctx context.Context, id int64) error
}
