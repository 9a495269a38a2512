package repository

import (
	"app/internal/domain/model"
	"context"
)

type FlashSaleRepository interface {
	List(ctx context.Context) ([]model.FlashSale, error)
	FindByID(ctx context.Context, id int64) (model.FlashSale, error)

	//セール本体と対象商品をまとめて作成
	Create(ctx context.Context, sale model.FlashSale, products []model.FlashSaleProduct) (model.FlashSale, error)
	Update(ctx context.Context, sale model.FlashSale) error

	//対象商品ごと削除
	Delete(ctx context.Context, id int64) error

	ListProductsBySaleID(ctx context.Context, saleID int64) ([]model.FlashSaleProduct, error)
}
