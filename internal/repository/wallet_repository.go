package repository

import (
	"app/internal/domain/model"
	"context"

	"github.com/shopspring/decimal"
)

type WalletRepository interface {
	//ウォレットを取得し、無ければ残高0で作成
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Wallet, error)

	//残高加算。行単位の原子更新。
	Credit(ctx context.Context, userID int64, amount decimal.Decimal) error

	//残高が足りるときだけ減算。足りなければfalse。
	DebitIfEnough(ctx context.Context, userID int64, amount decimal.Decimal) (bool, error)
}

type PaymentHistoryRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.PaymentHistory, error)
	FindByIDAndUser(ctx context.Context, paymentID, userID int64) (model.PaymentHistory, error)
	Create(ctx context.Context, ph model.PaymentHistory) (model.PaymentHistory, error)
}
