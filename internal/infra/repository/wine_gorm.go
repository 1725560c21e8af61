package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"winehouse/internal/domain/model"
	repo "winehouse/internal/repository"
)

type WineGormRepository struct {
	db *gorm.DB
}

// DI
func NewWineGormRepository(db *gorm.DB) *WineGormRepository {
	return &WineGormRepository{db: db}
}

// カタログを検索/絞り込み/ソート/ページング付きで返す。
func (r *WineGormRepository) List(ctx context.Context, q repo.WineListQuery) ([]model.Wine, int64, error) {
	var wines []model.Wine
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Wine{})

	// 部分一致（名前）
	if strings.TrimSpace(q.Name) != "" {
		tx = tx.Where("name ILIKE ?", "%"+strings.TrimSpace(q.Name)+"%")
	}

	// タイプは複数指定のいずれか（大文字小文字は無視）
	if len(q.Types) > 0 {
		lowered := make([]string, 0, len(q.Types))
		for _, t := range q.Types {
			lowered = append(lowered, strings.ToLower(strings.TrimSpace(t)))
		}
		tx = tx.Where("LOWER(type) IN ?", lowered)
	}

	// 品種・フードペアはカンマ区切りテキストへの部分一致
	if q.Grape != "" {
		tx = tx.Where("grapes ILIKE ?", "%"+q.Grape+"%")
	}
	if q.FoodPair != "" {
		tx = tx.Where("food_pairs ILIKE ?", "%"+q.FoodPair+"%")
	}

	if q.Country != "" {
		tx = tx.Where("country ILIKE ?", "%"+q.Country+"%")
	}
	if q.Producer != "" {
		tx = tx.Where("producer ILIKE ?", "%"+q.Producer+"%")
	}

	// 収穫年の範囲
	if q.MinHarvest != nil {
		tx = tx.Where("harvest_year >= ?", *q.MinHarvest)
	}
	if q.MaxHarvest != nil {
		tx = tx.Where("harvest_year <= ?", *q.MaxHarvest)
	}

	// 割引率のしきい値
	if q.MinDiscount != nil {
		tx = tx.Where("discount >= ?", *q.MinDiscount)
	}

	// 価格帯
	if q.MinPrice != nil {
		tx = tx.Where("sale_price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("sale_price <= ?", *q.MaxPrice)
	}

	// total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.Wine{}, 0, err
	}

	// sort（価格）
	switch q.PriceSort {
	case "desc":
		tx = tx.Order("sale_price desc").Order("id desc")
	default:
		tx = tx.Order("sale_price asc").Order("id asc")
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Offset(offset).Limit(q.Limit).Find(&wines).Error; err != nil {
		return []model.Wine{}, 0, err
	}

	return wines, total, nil
}

// レポート用に全件（削除済みは除く）
func (r *WineGormRepository) ListAll(ctx context.Context) ([]model.Wine, error) {
	var wines []model.Wine
	if err := r.db.WithContext(ctx).Order("id asc").Find(&wines).Error; err != nil {
		return []model.Wine{}, err
	}
	return wines, nil
}

func (r *WineGormRepository) FindByID(ctx context.Context, id int64) (model.Wine, error) {
	var w model.Wine
	err := r.db.WithContext(ctx).First(&w, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Wine{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Wine{}, err
	}
	return w, nil
}

func (r *WineGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Wine, error) {
	var wines []model.Wine
	if len(ids) == 0 {
		return []model.Wine{}, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id asc").Find(&wines).Error; err != nil {
		return []model.Wine{}, err
	}
	return wines, nil
}

func (r *WineGormRepository) Create(ctx context.Context, w model.Wine) (model.Wine, error) {
	if err := r.db.WithContext(ctx).Create(&w).Error; err != nil {
		return model.Wine{}, err
	}
	return w, nil
}

func (r *WineGormRepository) Update(ctx context.Context, w model.Wine) error {
	res := r.db.WithContext(ctx).Model(&model.Wine{}).Where("id = ?", w.ID).Updates(map[string]interface{}{
		"name":         w.Name,
		"producer":     w.Producer,
		"country":      w.Country,
		"type":         w.Type,
		"harvest_year": w.HarvestYear,
		"rate":         w.Rate,
		"description":  w.Description,
		"grapes":       w.Grapes,
		"food_pairs":   w.FoodPairs,
		"image_path":   w.ImagePath,
		"sale_price":   w.SalePrice,
		"discount":     w.Discount,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *WineGormRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Wine{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
