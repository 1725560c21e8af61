package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"winehouse/internal/domain/model"
	repo "winehouse/internal/repository"
)

type PurchaseGormRepository struct {
	db *gorm.DB
}

// DI
func NewPurchaseGormRepository(db *gorm.DB) *PurchaseGormRepository {
	return &PurchaseGormRepository{db: db}
}

func (r *PurchaseGormRepository) Create(ctx context.Context, p model.Purchase) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (r *PurchaseGormRepository) CreateBulk(ctx context.Context, ps []model.Purchase) error {
	if len(ps) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&ps).Error; err != nil {
		return err
	}
	return nil
}

func (r *PurchaseGormRepository) List(ctx context.Context, page int, limit int) ([]model.Purchase, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Purchase{}).Count(&total).Error; err != nil {
		return []model.Purchase{}, 0, err
	}

	var items []model.Purchase
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Purchase{}, 0, err
	}

	return items, total, nil
}

// 期間内の仕入れ原価合計（cost_price * amount）
func (r *PurchaseGormRepository) SumCostBetween(ctx context.Context, from time.Time, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&model.Purchase{}).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Select("COALESCE(SUM(cost_price * amount), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// 期間内の仕入れ原価を日別にまとめる
func (r *PurchaseGormRepository) SumDailyCostBetween(ctx context.Context, from time.Time, to time.Time) ([]repo.DailyTotal, error) {
	var rows []repo.DailyTotal
	err := r.db.WithContext(ctx).
		Model(&model.Purchase{}).
		Select("to_char(created_at, 'YYYY-MM-DD') AS date, SUM(cost_price * amount) AS total").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Group("to_char(created_at, 'YYYY-MM-DD')").
		Order("date asc").
		Scan(&rows).Error
	if err != nil {
		return []repo.DailyTotal{}, err
	}
	return rows, nil
}
