package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ユーザーごとのストアクレジット残高。初回アクセス時に0円で作る。
// 残高は負にならない（減算時にガード）。
type Wallet struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64           `gorm:"not null;uniqueIndex" json:"user_id"`
	Balance   decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"balance"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
