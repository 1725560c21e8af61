package repository

import (
	"context"

	"winehouse/internal/domain/model"
)

// 1か所（倉庫・通路・棚）のワイン在庫。Locateの結果行。
type StockLocation struct {
	WarehouseID int64  `json:"warehouse_id"`
	Aisle       string `json:"aisle"`
	Shelf       string `json:"shelf"`
	EntryID     int64  `json:"-"`
	Quantity    int64  `json:"quantity"`
}

// 引当で実際に引いた量。
type StockDeduction struct {
	WarehouseID int64  `json:"warehouse_id"`
	Aisle       string `json:"aisle"`
	Shelf       string `json:"shelf"`
	Quantity    int64  `json:"quantity"`
}

// 倉庫4テーブル（warehouses/aisles/shelves/stock_entries）への永続化。
type StockRepository interface {
	// ワインの全保管場所を数量昇順で返す（0件でもエラーにしない）
	Locate(ctx context.Context, wineID int64) ([]StockLocation, error)

	// 全場所の合計在庫（無ければ0）
	Total(ctx context.Context, wineID int64) (int64, error)

	// 在庫が足りるときだけ減算。足りなければfalse（古い読みは信用しない）
	DeductEntry(ctx context.Context, entryID int64, qty int64) (bool, error)

	WarehouseExists(ctx context.Context, id int64) (bool, error)
	FindWarehouseByLocation(ctx context.Context, location string) (model.Warehouse, error)
	CreateWarehouse(ctx context.Context, w model.Warehouse) (int64, error)

	FindAisle(ctx context.Context, warehouseID int64, label string) (model.Aisle, error)
	CreateAisle(ctx context.Context, a model.Aisle) (int64, error)

	FindShelf(ctx context.Context, aisleID int64, label string) (model.Shelf, error)
	CreateShelf(ctx context.Context, s model.Shelf) (int64, error)

	FindEntry(ctx context.Context, shelfID int64, wineID int64) (model.StockEntry, error)
	CreateEntry(ctx context.Context, e model.StockEntry) error
	IncrementEntry(ctx context.Context, entryID int64, delta int64) error

	// 増減履歴
	CreateMovement(ctx context.Context, m model.StockMovement) error
}
