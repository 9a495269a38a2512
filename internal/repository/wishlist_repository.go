package repository

import (
	"app/internal/domain/model"
	"context"
)

// ウィッシュリストの永続化。ユーザーごとに1つ。
type WishlistRepository interface {
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Wishlist, error)

	//追加済みの商品はそのまま（エラーにしない）
	AddProduct(ctx context.Context, wishlistID, productID int64) error
	RemoveProduct(ctx context.Context, wishlistID, productID int64) error

	ListProductIDs(ctx context.Context, wishlistID int64) ([]int64, error)
}
