package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 仕入れ注文（在庫補充）。作成後は更新しない。

type Purchase struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	WineID    int64           `gorm:"not null;index" json:"wine_id"`
	CostPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"cost_price"`
	Amount    int64           `gorm:"not null" json:"amount"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
