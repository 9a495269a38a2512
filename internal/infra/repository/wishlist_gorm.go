package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type WishlistGormRepository struct {
	db *gorm.DB
}

// DI
func NewWishlistGormRepository(db *gorm.DB) *WishlistGormRepository {
	return &WishlistGormRepository{db: db}
}

func (r *WishlistGormRepository) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Wishlist, error) {
	var w model.Wishlist

	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		w = model.Wishlist{UserID: userID}
		if cerr := r.db.WithContext(ctx).Create(&w).Error; cerr != nil {
			return model.Wishlist{}, cerr
		}
		return w, nil
	}
	if err != nil {
		return model.Wishlist{}, err
	}
	return w, nil
}

// 追加済みなら何もしない
func (r *WishlistGormRepository) AddProduct(ctx context.Context, wishlistID, productID int64) error {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.WishlistItem{}).
		Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return r.db.WithContext(ctx).Create(&model.WishlistItem{
		WishlistID: wishlistID,
		ProductID:  productID,
	}).Error
}

func (r *WishlistGormRepository) RemoveProduct(ctx context.Context, wishlistID, productID int64) error {
	return r.db.WithContext(ctx).
		Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		Delete(&model.WishlistItem{}).Error
}

func (r *WishlistGormRepository) ListProductIDs(ctx context.Context, wishlistID int64) ([]int64, error) {
	var ids []int64

	err := r.db.WithContext(ctx).
		Model(&model.WishlistItem{}).
		Where("wishlist_id = ?", wishlistID).
		Order("id asc").
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
