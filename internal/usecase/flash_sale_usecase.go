package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// FlashSaleUsecase はタイムセールの管理です。
type FlashSaleUsecase struct {
	saleRepo    repo.FlashSaleRepository
	productRepo repo.ProductRepository
}

// DI
func NewFlashSaleUsecase(
	saleRepo repo.FlashSaleRepository,
	productRepo repo.ProductRepository,
) *FlashSaleUsecase {
	return &FlashSaleUsecase{
		saleRepo:    saleRepo,
		productRepo: productRepo,
	}
}

type FlashSaleProductInput struct {
	ProductID     int64           `json:"product_id"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
}

type FlashSaleInput struct {
	Title         string                  `json:"title"`
	StartDatetime time.Time               `json:"start_datetime"`
	EndDatetime   time.Time               `json:"end_datetime"`
	Active        bool                    `json:"active"`
	Products      []FlashSaleProductInput `json:"products"`
}

type FlashSaleResponse struct {
	model.FlashSale
	Products []model.FlashSaleProduct `json:"products"`
}

func (u *FlashSaleUsecase) List(ctx context.Context) ([]FlashSaleResponse, error) {
	sales, err := u.saleRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]FlashSaleResponse, 0, len(sales))
	for _, s := range sales {
		products, err := u.saleRepo.ListProductsBySaleID(ctx, s.ID)
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = append(out, FlashSaleResponse{FlashSale: s, Products: products})
	}
	return out, nil
}

func (u *FlashSaleUsecase) Get(ctx context.Context, id int64) (FlashSaleResponse, error) {
	sale, err := u.saleRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return FlashSaleResponse{}, NewHTTPError(http.StatusNotFound, "flash sale not found")
	}
	if err != nil {
		return FlashSaleResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	products, err := u.saleRepo.ListProductsBySaleID(ctx, sale.ID)
	if err != nil {
		return FlashSaleResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return FlashSaleResponse{FlashSale: sale, Products: products}, nil
}

// Create は対象商品が全部存在することを確認してから作る。
func (u *FlashSaleUsecase) Create(ctx context.Context, in FlashSaleInput) (FlashSaleResponse, error) {
	if err := validateFlashSaleInput(in); err != nil {
		return FlashSaleResponse{}, err
	}

	products := make([]model.FlashSaleProduct, 0, len(in.Products))
	for _, pi := range in.Products {
		if _, err := u.productRepo.FindByID(ctx, pi.ProductID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return FlashSaleResponse{}, NewHTTPError(http.StatusBadRequest, "product not found")
			}
			return FlashSaleResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		products = append(products, model.FlashSaleProduct{
			ProductID:     pi.ProductID,
			DiscountType:  model.DiscountType(pi.DiscountType),
			DiscountValue: pi.DiscountValue,
		})
	}

	sale, err := u.saleRepo.Create(ctx, model.FlashSale{
		Title:         strings.TrimSpace(in.Title),
		StartDatetime: in.StartDatetime,
		EndDatetime:   in.EndDatetime,
		Active:        in.Active,
	}, products)
	if err != nil {
		return FlashSaleResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.Get(ctx, sale.ID)
}

func (u *FlashSaleUsecase) Update(ctx context.Context, id int64, in FlashSaleInput) (FlashSaleResponse, error) {
	if id <= 0 {
		return FlashSaleResponse{}, NewHTTPError(http.StatusBadRequest, "invalid flash sale id")
	}
	if err := validateFlashSaleInput(in); err != nil {
		return FlashSaleResponse{}, err
	}

	err := u.saleRepo.Update(ctx, model.FlashSale{
		ID:            id,
		Title:         strings.TrimSpace(in.Title),
		StartDatetime: in.StartDatetime,
		EndDatetime:   in.EndDatetime,
		Active:        in.Active,
	})
	if errors.Is(err, repo.ErrNotFound) {
		return FlashSaleResponse{}, NewHTTPError(http.StatusNotFound, "flash sale not found")
	}
	if err != nil {
		return FlashSaleResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.Get(ctx, id)
}

func (u *FlashSaleUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid flash sale id")
	}

	err := u.saleRepo.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "flash sale not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func validateFlashSaleInput(in FlashSaleInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return NewHTTPError(http.StatusBadRequest, "title required")
	}
	if in.EndDatetime.Before(in.StartDatetime) {
		return NewHTTPError(http.StatusBadRequest, "end before start")
	}
	for _, pi := range in.Products {
		switch model.DiscountType(pi.DiscountType) {
		case model.DiscountPercentage, model.DiscountFixed:
		default:
			return NewHTTPError(http.StatusBadRequest, "invalid discount type")
		}
		if pi.DiscountValue.IsNegative() {
			return NewHTTPError(http.StatusBadRequest, "discount value must be >= 0")
		}
	}
	return nil
}
