package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 決済ステータス（自由記述のまま保存する）。
const (
	PaymentStatusCompleted        = "Completed"
	PaymentStatusRefundedToWallet = "Refunded to Wallet"
)

// 決済履歴。基本は追記のみ。
// 返金は元の行を直さず、ステータスを変えた新しい行を追記する。
type PaymentHistory struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64           `gorm:"not null;index" json:"user_id"`
	PaymentID     string          `gorm:"type:varchar(255);not null" json:"payment_id"`
	PaymentMethod string          `gorm:"type:varchar(50)" json:"payment_method"`
	Amount        decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"amount"`
	Status        string          `gorm:"type:varchar(50);not null" json:"status"`
	ReceiptURL    string          `gorm:"type:varchar(500)" json:"receipt_url"`
	PaymentDate   time.Time       `gorm:"not null;autoCreateTime" json:"payment_date"`
}
