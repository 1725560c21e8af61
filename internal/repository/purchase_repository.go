package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"winehouse/internal/domain/model"
)

type PurchaseRepository interface {
	Create(ctx context.Context, p model.Purchase) (int64, error)
	CreateBulk(ctx context.Context, ps []model.Purchase) error
	List(ctx context.Context, page int, limit int) ([]model.Purchase, int64, error)

	// cost_price * amount の集計
	SumCostBetween(ctx context.Context, from time.Time, to time.Time) (decimal.Decimal, error)
	SumDailyCostBetween(ctx context.Context, from time.Time, to time.Time) ([]DailyTotal, error)
}
