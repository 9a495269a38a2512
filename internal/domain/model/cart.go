package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 1ユーザーにつきカートは1つ。初回追加時に作る。
// TotalPriceは派生値。明細を変えるたびに Σ(price×quantity) で再計算する。
type Cart struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64           `gorm:"not null;uniqueIndex" json:"user_id"`
	TotalPrice decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"total_price"`
	CreatedAt  time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
