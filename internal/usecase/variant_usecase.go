package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// VariantUsecase は商品バリエーション（色・サイズ・容量）の管理です。
type VariantUsecase struct {
	productRepo repo.ProductRepository
	variantRepo repo.ProductVariantRepository
}

// DI
func NewVariantUsecase(
	productRepo repo.ProductRepository,
	variantRepo repo.ProductVariantRepository,
) *VariantUsecase {
	return &VariantUsecase{
		productRepo: productRepo,
		variantRepo: variantRepo,
	}
}

type VariantInput struct {
	VariantName string          `json:"variant_name"`
	Color       string          `json:"color"`
	Size        string          `json:"size"`
	Storage     string          `json:"storage"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	SKU         string          `json:"sku"`
}

// List は商品のバリエーション一覧。
func (u *VariantUsecase) List(ctx context.Context, productID int64) ([]model.ProductVariant, error) {
	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewHTTPError(http.StatusNotFound, "product not found")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	vs, err := u.variantRepo.ListByProductID(ctx, productID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if vs == nil {
		vs = []model.ProductVariant{}
	}
	return vs, nil
}

// Add はバリエーション追加。親商品が無ければ404。
func (u *VariantUsecase) Add(ctx context.Context, productID int64, in VariantInput) (model.ProductVariant, error) {
	if err := validateVariantInput(in); err != nil {
		return model.ProductVariant{}, err
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.ProductVariant{}, NewHTTPError(http.StatusNotFound, "product not found")
		}
		return model.ProductVariant{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	v, err := u.variantRepo.Create(ctx, model.ProductVariant{
		ProductID:   productID,
		VariantName: strings.TrimSpace(in.VariantName),
		Color:       strings.TrimSpace(in.Color),
		Size:        strings.TrimSpace(in.Size),
		Storage:     strings.TrimSpace(in.Storage),
		Price:       in.Price,
		Stock:       in.Stock,
		SKU:         strings.TrimSpace(in.SKU),
	})
	if err != nil {
		return model.ProductVariant{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return v, nil
}

// UpdatePriceStock は価格と在庫だけを更新する。
func (u *VariantUsecase) UpdatePriceStock(ctx context.Context, variantID int64, price decimal.Decimal, stock int64) (model.ProductVariant, error) {
	if price.IsNegative() {
		return model.ProductVariant{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if stock < 0 {
		return model.ProductVariant{}, NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}

	v, err := u.variantRepo.FindByID(ctx, variantID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.ProductVariant{}, NewHTTPError(http.StatusNotFound, "variant not found")
	}
	if err != nil {
		return model.ProductVariant{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	v.Price = price
	v.Stock = stock
	if err := u.variantRepo.Update(ctx, v); err != nil {
		return model.ProductVariant{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return v, nil
}

func (u *VariantUsecase) Delete(ctx context.Context, variantID int64) error {
	err := u.variantRepo.Delete(ctx, variantID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "variant not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

const defaultVariantLowStockThreshold = 5

// LowStock は在庫が閾値未満のバリエーション一覧（管理画面用）。
func (u *VariantUsecase) LowStock(ctx context.Context, threshold int64) ([]model.ProductVariant, error) {
	if threshold <= 0 {
		threshold = defaultVariantLowStockThreshold
	}

	vs, err := u.variantRepo.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if vs == nil {
		vs = []model.ProductVariant{}
	}
	return vs, nil
}

func validateVariantInput(in VariantInput) error {
	if strings.TrimSpace(in.VariantName) == "" {
		return NewHTTPError(http.StatusBadRequest, "variant_name required")
	}
	if in.Price.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	return nil
}
