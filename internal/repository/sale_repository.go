package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"winehouse/internal/domain/model"
)

// 日別集計の1行
type DailyTotal struct {
	Date  string          `json:"date"` // YYYY-MM-DD
	Total decimal.Decimal `json:"total"`
}

type SaleRepository interface {
	Create(ctx context.Context, s model.Sale) (int64, error)
	FindByID(ctx context.Context, id int64) (model.Sale, error)
	ListByAccountID(ctx context.Context, accountID int64, page int, limit int) ([]model.Sale, int64, error)

	CreateItems(ctx context.Context, saleID int64, items []model.SaleItem) error
	ListItemsBySaleID(ctx context.Context, saleID int64) ([]model.SaleItem, error)

	// 確定済みレコードの集計（finance report用）
	SumTotalBetween(ctx context.Context, from time.Time, to time.Time) (decimal.Decimal, error)
	SumDailyBetween(ctx context.Context, from time.Time, to time.Time) ([]DailyTotal, error)
}
