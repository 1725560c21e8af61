package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 会計確定後のインボイス。作成後は更新しない。

type Sale struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID  int64           `gorm:"not null;index" json:"account_id"`
	InvoiceRef string          `gorm:"type:varchar(36);not null;uniqueIndex" json:"invoice_ref"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	Dispatched bool            `gorm:"not null;default:false" json:"dispatched"`

	// 配送先（発送時点のスナップショット）
	Address    string `gorm:"type:varchar(255)" json:"address"`
	City       string `gorm:"type:varchar(100)" json:"city"`
	Province   string `gorm:"type:varchar(100)" json:"province"`
	PostalCode string `gorm:"type:varchar(20)" json:"postal_code"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
