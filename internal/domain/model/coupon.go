package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// クーポン。
// TimesUsed <= UsageLimit を必ず守る。
// 利用回数のインクリメントは有効性チェックと同一の原子操作で行う。
type Coupon struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Code              string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"`
	DiscountType      DiscountType    `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue     decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"discount_value"`
	MinPurchaseAmount decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"min_purchase_amount"`
	StartDate         time.Time       `gorm:"not null" json:"start_date"`
	EndDate           time.Time       `gorm:"not null" json:"end_date"`
	UsageLimit        int             `gorm:"not null" json:"usage_limit"`
	TimesUsed         int             `gorm:"not null;default:0" json:"times_used"`
	Active            bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt         time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
