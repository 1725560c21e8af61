package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"winehouse/internal/domain/model"
	repo "winehouse/internal/repository"
)

type StockGormRepository struct {
	db *gorm.DB
}

// DI
func NewStockGormRepository(db *gorm.DB) *StockGormRepository {
	return &StockGormRepository{db: db}
}

// ワインの全保管場所を数量昇順で返す。
// 階層はJOINでフラット化する（Mongoの$unwind相当）。
func (r *StockGormRepository) Locate(ctx context.Context, wineID int64) ([]repo.StockLocation, error) {
	var locs []repo.StockLocation

	err := r.db.WithContext(ctx).
		Table("stock_entries").
		Select("warehouses.id AS warehouse_id, aisles.label AS aisle, shelves.label AS shelf, stock_entries.id AS entry_id, stock_entries.quantity AS quantity").
		Joins("JOIN shelves ON shelves.id = stock_entries.shelf_id").
		Joins("JOIN aisles ON aisles.id = shelves.aisle_id").
		Joins("JOIN warehouses ON warehouses.id = aisles.warehouse_id").
		Where("stock_entries.wine_id = ?", wineID).
		Order("stock_entries.quantity asc").
		Order("stock_entries.id asc").
		Scan(&locs).Error
	if err != nil {
		return []repo.StockLocation{}, err
	}

	return locs, nil
}

// 合計在庫。1行も無ければ0。
func (r *StockGormRepository) Total(ctx context.Context, wineID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.StockEntry{}).
		Where("wine_id = ?", wineID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// 在庫が足りるときだけ減らす。
// WHEREのガードで負在庫と古い読みに基づく引き過ぎを防ぐ。
func (r *StockGormRepository) DeductEntry(ctx context.Context, entryID int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.StockEntry{}).
		Where("id = ? AND quantity >= ?", entryID, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

func (r *StockGormRepository) WarehouseExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Warehouse{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *StockGormRepository) FindWarehouseByLocation(ctx context.Context, location string) (model.Warehouse, error) {
	var w model.Warehouse
	err := r.db.WithContext(ctx).
		Where("location = ?", location).
		Order("id asc").
		First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Warehouse{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Warehouse{}, err
	}
	return w, nil
}

func (r *StockGormRepository) CreateWarehouse(ctx context.Context, w model.Warehouse) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&w).Error; err != nil {
		return 0, err
	}
	return w.ID, nil
}

func (r *StockGormRepository) FindAisle(ctx context.Context, warehouseID int64, label string) (model.Aisle, error) {
	var a model.Aisle
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND label = ?", warehouseID, label).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Aisle{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Aisle{}, err
	}
	return a, nil
}

func (r *StockGormRepository) CreateAisle(ctx context.Context, a model.Aisle) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&a).Error; err != nil {
		return 0, err
	}
	return a.ID, nil
}

func (r *StockGormRepository) FindShelf(ctx context.Context, aisleID int64, label string) (model.Shelf, error) {
	var s model.Shelf
	err := r.db.WithContext(ctx).
		Where("aisle_id = ? AND label = ?", aisleID, label).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Shelf{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Shelf{}, err
	}
	return s, nil
}

func (r *StockGormRepository) CreateShelf(ctx context.Context, s model.Shelf) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return 0, err
	}
	return s.ID, nil
}

func (r *StockGormRepository) FindEntry(ctx context.Context, shelfID int64, wineID int64) (model.StockEntry, error) {
	var e model.StockEntry
	err := r.db.WithContext(ctx).
		Where("shelf_id = ? AND wine_id = ?", shelfID, wineID).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.StockEntry{}, repo.ErrNotFound
	}
	if err != nil {
		return model.StockEntry{}, err
	}
	return e, nil
}

func (r *StockGormRepository) CreateEntry(ctx context.Context, e model.StockEntry) error {
	if err := r.db.WithContext(ctx).Create(&e).Error; err != nil {
		return err
	}
	return nil
}

func (r *StockGormRepository) IncrementEntry(ctx context.Context, entryID int64, delta int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.StockEntry{}).
		Where("id = ?", entryID).
		Update("quantity", gorm.Expr("quantity + ?", delta))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *StockGormRepository) CreateMovement(ctx context.Context, m model.StockMovement) error {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	return nil
}
