package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	Stock       int64           `gorm:"not null" json:"stock"`
	SKU         string          `gorm:"type:varchar(100);column:sku" json:"sku"`
	Category    string          `gorm:"type:varchar(100);index" json:"category"`
	SubCategory string          `gorm:"type:varchar(100)" json:"sub_category"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 商品画像。親はProductIDで持つ（逆参照は持たない）。
type ProductImage struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64  `gorm:"not null;index" json:"product_id"`
	ImageURL  string `gorm:"type:varchar(500);not null" json:"image_url"`

	//画像があるとき主画像はちょうど1枚
	IsPrimary bool      `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
