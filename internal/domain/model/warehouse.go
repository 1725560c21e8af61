package model

import "time"

// 倉庫→通路→棚→在庫エントリの4テーブル。
// Mongo的なネスト構造ではなく、親IDで張るアリーナ方式。

type Warehouse struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Location  string    `gorm:"type:varchar(255);not null;index" json:"location"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

type Aisle struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	WarehouseID int64  `gorm:"not null;uniqueIndex:uq_aisle_path" json:"warehouse_id"`
	Label       string `gorm:"type:varchar(50);not null;uniqueIndex:uq_aisle_path" json:"label"`
}

type Shelf struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	AisleID int64  `gorm:"not null;uniqueIndex:uq_shelf_path" json:"aisle_id"`
	Label   string `gorm:"type:varchar(50);not null;uniqueIndex:uq_shelf_path" json:"label"`
}

// 1棚1ワイン1行。unique制約が重複エントリを防ぐ。
type StockEntry struct {
	ID       int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ShelfID  int64 `gorm:"not null;uniqueIndex:uq_entry_path" json:"shelf_id"`
	WineID   int64 `gorm:"not null;index;uniqueIndex:uq_entry_path" json:"wine_id"`
	Quantity int64 `gorm:"not null;default:0" json:"quantity"`
}
