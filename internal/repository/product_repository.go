package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductPageQuery struct {
	Category string // 空 or "all" なら全件
	Page     int
	Limit    int
}

// カテゴリ→サブカテゴリの組
type CategoryPair struct {
	Category    string
	SubCategory string
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (model.Product, error)
	ListAll(ctx context.Context) ([]model.Product, error)

	//カテゴリは大文字小文字を区別しない
	ListByCategory(ctx context.Context, category string) ([]model.Product, error)
	ListByCategoryAndSub(ctx context.Context, category, subCategory string) ([]model.Product, error)

	//name/category/subCategoryの部分一致
	Search(ctx context.Context, query string) ([]model.Product, error)

	//ページング一覧（総件数つき）
	ListPaged(ctx context.Context, q ProductPageQuery) ([]model.Product, int64, error)

	//カテゴリとサブカテゴリの組を全件
	ListCategoryPairs(ctx context.Context) ([]CategoryPair, error)

	//在庫が閾値未満の商品
	ListLowStock(ctx context.Context, threshold int64) ([]model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	CreateBulk(ctx context.Context, ps []model.Product) ([]model.Product, error)
	Update(ctx context.Context, p model.Product) error

	//明細（画像・評価・バリエーション・ウィッシュリスト行）ごと削除
	Delete(ctx context.Context, id int64) error
}

// 商品画像の永続化。親（商品）IDで引く。
type ProductImageRepository interface {
	ListByProductID(ctx context.Context, productID int64) ([]model.ProductImage, error)
	CreateBulk(ctx context.Context, images []model.ProductImage) error

	//既存を全部消して入れ替える
	ReplaceForProduct(ctx context.Context, productID int64, images []model.ProductImage) error
}
