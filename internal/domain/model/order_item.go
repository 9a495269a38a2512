package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。
// Priceは注文時点の「行合計」スナップショット（単価×数量）。
// 単価はUnitPriceに別で持つ。割り算で単価を導出しない。
type OrderItem struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64           `gorm:"not null;index" json:"order_id"`
	ProductID           int64           `gorm:"not null;index" json:"product_id"`
	ProductNameSnapshot string          `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`
	Quantity            int64           `gorm:"not null" json:"quantity"`
	UnitPrice           decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"unit_price"`
	Price               decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	CreatedAt           time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
