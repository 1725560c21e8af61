package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 明細は販売時点の名前・価格・割引のスナップショットを持つ。
// 後からワインが編集・削除されても明細は変わらない。

type SaleItem struct {
	ID               int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleID           int64           `gorm:"not null;index" json:"sale_id"`
	WineID           int64           `gorm:"not null;index" json:"wine_id"`
	NameSnapshot     string          `gorm:"type:varchar(255);not null" json:"name_snapshot"`
	PriceSnapshot    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_snapshot"`
	DiscountSnapshot decimal.Decimal `gorm:"type:numeric(4,3);not null" json:"discount_snapshot"`
	FinalUnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"final_unit_price"`
	Quantity         int64           `gorm:"not null" json:"quantity"`
	ItemTotal        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"item_total"`
	CreatedAt        time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
