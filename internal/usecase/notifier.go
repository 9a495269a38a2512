package usecase

import (
	"context"

	"github.com/shopspring/decimal"
)

// メール送信の約束。送信失敗で業務処理は止めない（ログだけ残す）。
type Notifier interface {
	SendOrderPlaced(ctx context.Context, toEmail, name string, orderID int64, total decimal.Decimal) error
	SendOrderStatusUpdate(ctx context.Context, toEmail, name string, orderID int64, status string) error
}
