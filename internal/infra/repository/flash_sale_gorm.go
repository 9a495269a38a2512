package repository

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"context"
	"errors"

	"gorm.io/gorm"
)

type FlashSaleGormRepository struct {
	db *gorm.DB
}

// DI
func NewFlashSaleGormRepository(db *gorm.DB) *FlashSaleGormRepository {
	return &FlashSaleGormRepository{db: db}
}

func (r *FlashSaleGormRepository) List(ctx context.Context) ([]model.FlashSale, error) {
	var sales []model.FlashSale

	if err := r.db.WithContext(ctx).Order("start_datetime desc").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *FlashSaleGormRepository) FindByID(ctx context.Context, id int64) (model.FlashSale, error) {
	var sale model.FlashSale

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&sale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.FlashSale{}, repo.ErrNotFound
	}
	if err != nil {
		return model.FlashSale{}, err
	}
	return sale, nil
}

// セール本体と対象商品をまとめて作成
func (r *FlashSaleGormRepository) Create(ctx context.Context, sale model.FlashSale, products []model.FlashSaleProduct) (model.FlashSale, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		for i := range products {
			products[i].FlashSaleID = sale.ID
		}
		return tx.Create(&products).Error
	})

	if err != nil {
		return model.FlashSale{}, err
	}
	return sale, nil
}

func (r *FlashSaleGormRepository) Update(ctx context.Context, sale model.FlashSale) error {
	res := r.db.WithContext(ctx).
		Model(&model.FlashSale{}).
		Where("id = ?", sale.ID).
		Updates(map[string]interface{}{
			"title":          sale.Title,
			"start_datetime": sale.StartDatetime,
			"end_datetime":   sale.EndDatetime,
			"active":         sale.Active,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 対象商品ごと削除
func (r *FlashSaleGormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.FlashSale{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return tx.Where("flash_sale_id = ?", id).Delete(&model.FlashSaleProduct{}).Error
	})
}

func (r *FlashSaleGormRepository) ListProductsBySaleID(ctx context.Context, saleID int64) ([]model.FlashSaleProduct, error) {
	var products []model.FlashSaleProduct

	if err := r.db.WithContext(ctx).
		Where("flash_sale_id = ?", saleID).
		Order("id asc").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
