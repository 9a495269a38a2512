package repository

import (
	"app/internal/domain/model"
	"context"
)

// 商品バリエーションの永続化の約束。
type ProductVariantRepository interface {
	FindByID(ctx context.Context, id int64) (model.ProductVariant, error)
	ListByProductID(ctx context.Context, productID int64) ([]model.ProductVariant, error)

	//在庫が閾値未満のバリエーション
	ListLowStock(ctx context.Context, threshold int64) ([]model.ProductVariant, error)

	Create(ctx context.Context, v model.ProductVariant) (model.ProductVariant, error)
	Update(ctx context.Context, v model.ProductVariant) error
	Delete(ctx context.Context, id int64) error
}
