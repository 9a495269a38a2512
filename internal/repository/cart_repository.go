package repository

import (
	"app/internal/domain/model"
	"context"

	"github.com/shopspring/decimal"
)

type CartRepository interface {
	//ユーザーのカートを取得し、無ければ作成
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)

	//再計算済みの合計を保存
	UpdateTotal(ctx context.Context, cartID int64, total decimal.Decimal) error
}

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)

	//同一商品は数量加算。既存行の価格スナップショットは保持する。
	//(cart, product)単位で直列化すること。
	UpsertByCartAndProduct(ctx context.Context, cartID, productID, addQty int64, price decimal.Decimal) error

	UpdateQuantity(ctx context.Context, cartID, productID, qty int64) error

	//無ければ何もしない
	DeleteByCartAndProduct(ctx context.Context, cartID, productID int64) error
	DeleteAllByCartID(ctx context.Context, cartID int64) error
}
