package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"winehouse/internal/domain/model"
	repo "winehouse/internal/repository"
)

type SaleGormRepository struct {
	db *gorm.DB
}

// DI
func NewSaleGormRepository(db *gorm.DB) *SaleGormRepository {
	return &SaleGormRepository{db: db}
}

func (r *SaleGormRepository) Create(ctx context.Context, s model.Sale) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return 0, err
	}
	return s.ID, nil
}

func (r *SaleGormRepository) FindByID(ctx context.Context, id int64) (model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Sale{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Sale{}, err
	}
	return s, nil
}

func (r *SaleGormRepository) ListByAccountID(ctx context.Context, accountID int64, page int, limit int) ([]model.Sale, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("account_id = ?", accountID).
		Count(&total).Error; err != nil {
		return []model.Sale{}, 0, err
	}

	var items []model.Sale
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Sale{}, 0, err
	}

	return items, total, nil
}

func (r *SaleGormRepository) CreateItems(ctx context.Context, saleID int64, items []model.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].SaleID = saleID
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return err
	}
	return nil
}

func (r *SaleGormRepository) ListItemsBySaleID(ctx context.Context, saleID int64) ([]model.SaleItem, error) {
	var items []model.SaleItem
	err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.SaleItem{}, err
	}
	return items, nil
}

// 期間内の売上合計
func (r *SaleGormRepository) SumTotalBetween(ctx context.Context, from time.Time, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&model.Sale{}).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// 期間内の売上を日別にまとめる
func (r *SaleGormRepository) SumDailyBetween(ctx context.Context, from time.Time, to time.Time) ([]repo.DailyTotal, error) {
	var rows []repo.DailyTotal
	err := r.db.WithContext(ctx).
		Model(&model.Sale{}).
		Select("to_char(created_at, 'YYYY-MM-DD') AS date, SUM(total_price) AS total").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Group("to_char(created_at, 'YYYY-MM-DD')").
		Order("date asc").
		Scan(&rows).Error
	if err != nil {
		return []repo.DailyTotal{}, err
	}
	return rows, nil
}
