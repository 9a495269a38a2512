package repository

import (
	"app/internal/domain/model"
	"context"

	"gorm.io/gorm"
)

type RatingGormRepository struct {
	db *gorm.DB
}

// DI
func NewRatingGormRepository(db *gorm.DB) *RatingGormRepository {
	return &RatingGormRepository{db: db}
}

func (r *RatingGormRepository) Create(ctx context.Context, rating model.ProductRating) (model.ProductRating, error) {
	if err := r.db.WithContext(ctx).Create(&rating).Error; err != nil {
		return model.ProductRating{}, err
	}
	return rating, nil
}

func (r *RatingGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.ProductRating, error) {
	var ratings []model.ProductRating

	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id asc").
		Find(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *RatingGormRepository) ExistsByProductAndUser(ctx context.Context, productID, userID int64) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.ProductRating{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// 平均は毎回集計クエリで出す
func (r *RatingGormRepository) AverageByProductID(ctx context.Context, productID int64) (float64, error) {
	var avg *float64

	err := r.db.WithContext(ctx).
		Model(&model.ProductRating{}).
		Select("AVG(stars)").
		Where("product_id = ?", productID).
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (r *RatingGormRepository) AverageByProductIDs(ctx context.Context, productIDs []int64) (map[int64]float64, error) {
	result := make(map[int64]float64, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	type row struct {
		ProductID int64
		Avg       float64
	}
	var rows []row

	err := r.db.WithContext(ctx).
		Model(&model.ProductRating{}).
		Select("product_id, AVG(stars) as avg").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, rw := range rows {
		result[rw.ProductID] = rw.Avg
	}
	return result, nil
}
