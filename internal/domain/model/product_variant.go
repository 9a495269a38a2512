package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 商品バリエーション（色・サイズ・容量の組）。
// 価格・在庫は親商品とは別に持つ。
type ProductVariant struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID   int64           `gorm:"not null;index" json:"product_id"`
	VariantName string          `gorm:"type:varchar(255);not null" json:"variant_name"` // 例: "8GB / 128GB / Black"
	Color       string          `gorm:"type:varchar(100)" json:"color"`
	Size        string          `gorm:"type:varchar(100)" json:"size"`
	Storage     string          `gorm:"type:varchar(100)" json:"storage"`
	Price       decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	Stock       int64           `gorm:"not null" json:"stock"`
	SKU         string          `gorm:"type:varchar(100);column:sku" json:"sku"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
