package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// WishlistUsecase はお気に入りの追加・削除・一覧です。
// リストはユーザーごとに1つで、初回追加時に作る。
type WishlistUsecase struct {
	wishlistRepo repo.WishlistRepository
	productRepo  repo.ProductRepository
	catalog      *ProductUsecase
}

// DI
func NewWishlistUsecase(
	wishlistRepo repo.WishlistRepository,
	productRepo repo.ProductRepository,
	catalog *ProductUsecase,
) *WishlistUsecase {
	return &WishlistUsecase{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
		catalog:      catalog,
	}
}

type WishlistOutput struct {
	Items []ProductResponse `json:"items"`
}

// Get はお気に入り商品の一覧（画像・平均評価つき）。
func (u *WishlistUsecase) Get(ctx context.Context, userID int64) (WishlistOutput, error) {
	w, err := u.wishlistRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return WishlistOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	ids, err := u.wishlistRepo.ListProductIDs(ctx, w.ID)
	if err != nil {
		return WishlistOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//削除済み商品の行は黙って読み飛ばす
	products := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		p, err := u.productRepo.FindByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return WishlistOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		products = append(products, p)
	}

	return WishlistOutput{Items: u.catalog.toProductResponses(ctx, products)}, nil
}

// Add は商品をお気に入りへ。既に入っていればそのまま成功。
func (u *WishlistUsecase) Add(ctx context.Context, userID, productID int64) (WishlistOutput, error) {
	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return WishlistOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
		}
		return WishlistOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	w, err := u.wishlistRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return WishlistOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := u.wishlistRepo.AddProduct(ctx, w.ID, productID); err != nil {
		return WishlistOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.Get(ctx, userID)
}

// Remove はお気に入りから外す。入っていなくてもエラーにしない。
func (u *WishlistUsecase) Remove(ctx context.Context, userID, productID int64) (WishlistOutput, error) {
	w, err := u.wishlistRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return WishlistOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := u.wishlistRepo.RemoveProduct(ctx, w.ID, productID); err != nil {
		return WishlistOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.Get(ctx, userID)
}
