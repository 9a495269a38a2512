package repository

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	var ps []model.Product

	if err := r.db.WithContext(ctx).Order("id asc").Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

// カテゴリは大文字小文字を区別しない
func (r *ProductGormRepository) ListByCategory(ctx context.Context, category string) ([]model.Product, error) {
	var ps []model.Product

	if err := r.db.WithContext(ctx).
		Where("LOWER(category) = LOWER(?)", category).
		Order("id asc").
		Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *ProductGormRepository) ListByCategoryAndSub(ctx context.Context, category, subCategory string) ([]model.Product, error) {
	var ps []model.Product

	if err := r.db.WithContext(ctx).
		Where("LOWER(category) = LOWER(?) AND LOWER(sub_category) = LOWER(?)", category, subCategory).
		Order("id asc").
		Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

// name/category/subCategoryの部分一致
func (r *ProductGormRepository) Search(ctx context.Context, query string) ([]model.Product, error) {
	var ps []model.Product

	like := "%" + query + "%"
	if err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR category ILIKE ? OR sub_category ILIKE ?", like, like, like).
		Order("id asc").
		Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *ProductGormRepository) ListPaged(ctx context.Context, q repo.ProductPageQuery) ([]model.Product, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Product{})

	if c := strings.TrimSpace(q.Category); c != "" && !strings.EqualFold(c, "all") {
		base = base.Where("LOWER(category) = LOWER(?)", c)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ps []model.Product
	offset := (q.Page - 1) * q.Limit
	if err := base.Order("id asc").Limit(q.Limit).Offset(offset).Find(&ps).Error; err != nil {
		return nil, 0, err
	}
	return ps, total, nil
}

func (r *ProductGormRepository) ListCategoryPairs(ctx context.Context) ([]repo.CategoryPair, error) {
	var pairs []repo.CategoryPair

	if err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Distinct("category", "sub_category").
		Order("category asc").
		Scan(&pairs).Error; err != nil {
		return nil, err
	}
	return pairs, nil
}

func (r *ProductGormRepository) ListLowStock(ctx context.Context, threshold int64) ([]model.Product, error) {
	var ps []model.Product

	if err := r.db.WithContext(ctx).
		Where("stock < ?", threshold).
		Order("stock asc").
		Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) CreateBulk(ctx context.Context, ps []model.Product) ([]model.Product, error) {
	if len(ps) == 0 {
		return ps, nil
	}
	if err := r.db.WithContext(ctx).Create(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"name":         p.Name,
			"description":  p.Description,
			"price":        p.Price,
			"stock":        p.Stock,
			"sku":          p.SKU,
			"category":     p.Category,
			"sub_category": p.SubCategory,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 画像・評価も一緒に消す（DBのみ。ファイルは呼び出し側がcommit後に消す）
func (r *ProductGormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}

		if err := tx.Where("product_id = ?", id).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductRating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductVariant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.WishlistItem{}).Error; err != nil {
			return err
		}
		return nil
	})
}

type ProductImageGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductImageGormRepository(db *gorm.DB) *ProductImageGormRepository {
	return &ProductImageGormRepository{db: db}
}

func (r *ProductImageGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	var images []model.ProductImage

	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id asc").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (r *ProductImageGormRepository) CreateBulk(ctx context.Context, images []model.ProductImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&images).Error
}

// 既存を全部消して入れ替える
func (r *ProductImageGormRepository) ReplaceForProduct(ctx context.Context, productID int64, images []model.ProductImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		if len(images) == 0 {
			return nil
		}
		return tx.Create(&images).Error
	})
}
