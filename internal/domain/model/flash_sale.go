package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// タイムセール。期間内だけ有効な商品ごとの割引上書きを持つ。
type FlashSale struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title         string    `gorm:"type:varchar(255);not null" json:"title"`
	StartDatetime time.Time `gorm:"not null" json:"start_datetime"`
	EndDatetime   time.Time `gorm:"not null" json:"end_datetime"`
	Active        bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// セール対象の商品と割引。商品は先に存在していること。
type FlashSaleProduct struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	FlashSaleID   int64           `gorm:"not null;index" json:"flash_sale_id"`
	ProductID     int64           `gorm:"not null;index" json:"product_id"`
	DiscountType  DiscountType    `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"discount_value"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
