package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Wine struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Producer    string          `gorm:"type:varchar(255)" json:"producer"`
	Country     string          `gorm:"type:varchar(100)" json:"country"`
	Type        string          `gorm:"type:varchar(50);index" json:"type"`
	HarvestYear int             `json:"harvest_year"`
	Rate        float64         `json:"rate"`
	Description string          `gorm:"type:text" json:"description"`
	Grapes      string          `gorm:"type:text" json:"grapes"`       // カンマ区切り
	FoodPairs   string          `gorm:"type:text" json:"food_pairs"`   // カンマ区切り
	ImagePath   string          `gorm:"type:varchar(512)" json:"image_path"`
	SalePrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"sale_price"`
	Discount    decimal.Decimal `gorm:"type:numeric(4,3);not null;default:0" json:"discount"` // 0〜1の割引率
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
