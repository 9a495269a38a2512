package repository

import (
	"app/internal/domain/model"
	"context"
)

// 商品レビューの保存・集計の約束。
type RatingRepository interface {
	Create(ctx context.Context, rating model.ProductRating) (model.ProductRating, error)
	ListByProductID(ctx context.Context, productID int64) ([]model.ProductRating, error)
	ExistsByProductAndUser(ctx context.Context, productID, userID int64) (bool, error)

	//平均は毎回集計クエリで出す（キャッシュしない）
	AverageByProductID(ctx context.Context, productID int64) (float64, error)
	AverageByProductIDs(ctx context.Context, productIDs []int64) (map[int64]float64, error)
}
