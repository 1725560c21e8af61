package model

import "time"

type MovementKind string

const (
	MovementRestock MovementKind = "RESTOCK"
	MovementSale    MovementKind = "SALE"
)

// 在庫の増減履歴。どの場所で何がいくつ動いたかを残す。

type StockMovement struct {
	ID          int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	WarehouseID int64        `gorm:"not null;index" json:"warehouse_id"`
	Aisle       string       `gorm:"type:varchar(50);not null" json:"aisle"`
	Shelf       string       `gorm:"type:varchar(50);not null" json:"shelf"`
	WineID      int64        `gorm:"not null;index" json:"wine_id"`
	Delta       int64        `gorm:"not null" json:"delta"`
	Kind        MovementKind `gorm:"type:varchar(20);not null" json:"kind"`
	CreatedAt   time.Time    `gorm:"not null;autoCreateTime" json:"created_at"`
}
