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

// CouponUsecase はクーポンの検証・消込と管理CRUDです。
type CouponUsecase struct {
	couponRepo repo.CouponRepository
}

// DI
func NewCouponUsecase(couponRepo repo.CouponRepository) *CouponUsecase {
	return &CouponUsecase{couponRepo: couponRepo}
}

type ApplyCouponInput struct {
	Code      string
	CartTotal decimal.Decimal
}

type ApplyCouponOutput struct {
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalTotal     decimal.Decimal `json:"final_total"`
}

// Apply はクーポンを検証し、その場で利用回数を1消し込む。
// 失敗理由は「存在しない→無効→期間外→最低購入額→回数上限」の順で判定する。
func (u *CouponUsecase) Apply(ctx context.Context, in ApplyCouponInput) (ApplyCouponOutput, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return ApplyCouponOutput{}, NewHTTPError(http.StatusBadRequest, "coupon code required")
	}

	c, err := u.couponRepo.FindByCode(ctx, code)
	if errors.Is(err, repo.ErrNotFound) {
		return ApplyCouponOutput{}, NewHTTPError(http.StatusNotFound, "coupon not found")
	}
	if err != nil {
		return ApplyCouponOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !c.Active {
		return ApplyCouponOutput{}, NewHTTPError(http.StatusBadRequest, "coupon is inactive")
	}

	now := time.Now()
	if now.Before(c.StartDate) || now.After(c.EndDate) {
		return ApplyCouponOutput{}, NewHTTPError(http.StatusBadRequest, "coupon is not valid at this time")
	}

	if in.CartTotal.LessThan(c.MinPurchaseAmount) {
		return ApplyCouponOutput{}, NewHTTPError(http.StatusBadRequest, "cart total below minimum purchase amount")
	}

	//チェックと加算は1回の条件付きUPDATE。二重消込はここで防ぐ。
	ok, err := u.couponRepo.RedeemIfAvailable(ctx, c.ID)
	if err != nil {
		return ApplyCouponOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !ok {
		return ApplyCouponOutput{}, NewHTTPError(http.StatusBadRequest, "coupon usage limit reached")
	}

	discount := DiscountAmount(c.DiscountType, c.DiscountValue, in.CartTotal)
	final := in.CartTotal.Sub(discount)
	if final.IsNegative() {
		final = decimal.Zero
	}

	return ApplyCouponOutput{
		Code:           c.Code,
		DiscountAmount: discount,
		FinalTotal:     final,
	}, nil
}

// 割引額の計算。percentageは合計×率、fixedは定額。合計を超える分は切り捨てる。
func DiscountAmount(t model.DiscountType, value, total decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch t {
	case model.DiscountPercentage:
		discount = total.Mul(value).Div(decimal.NewFromInt(100))
	case model.DiscountFixed:
		discount = value
	default:
		return decimal.Zero
	}
	if discount.GreaterThan(total) {
		return total
	}
	return discount
}

// ---- 管理CRUD ----

type CouponInput struct {
	Code              string          `json:"code"`
	DiscountType      string          `json:"discount_type"`
	DiscountValue     decimal.Decimal `json:"discount_value"`
	MinPurchaseAmount decimal.Decimal `json:"min_purchase_amount"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	UsageLimit        int             `json:"usage_limit"`
	Active            bool            `json:"active"`
}

func (u *CouponUsecase) List(ctx context.Context) ([]model.Coupon, error) {
	list, err := u.couponRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}

func (u *CouponUsecase) Create(ctx context.Context, in CouponInput) (model.Coupon, error) {
	if err := validateCouponInput(in); err != nil {
		return model.Coupon{}, err
	}

	c, err := u.couponRepo.Create(ctx, model.Coupon{
		Code:              strings.TrimSpace(in.Code),
		DiscountType:      model.DiscountType(in.DiscountType),
		DiscountValue:     in.DiscountValue,
		MinPurchaseAmount: in.MinPurchaseAmount,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		UsageLimit:        in.UsageLimit,
		Active:            in.Active,
	})
	if err != nil {
		return model.Coupon{}, NewHTTPError(http.StatusConflict, "coupon code already exists")
	}
	return c, nil
}

func (u *CouponUsecase) Update(ctx context.Context, id int64, in CouponInput) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid coupon id")
	}
	if err := validateCouponInput(in); err != nil {
		return err
	}

	err := u.couponRepo.Update(ctx, model.Coupon{
		ID:                id,
		Code:              strings.TrimSpace(in.Code),
		DiscountType:      model.DiscountType(in.DiscountType),
		DiscountValue:     in.DiscountValue,
		MinPurchaseAmount: in.MinPurchaseAmount,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		UsageLimit:        in.UsageLimit,
		Active:            in.Active,
	})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "coupon not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CouponUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid coupon id")
	}

	err := u.couponRepo.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "coupon not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func validateCouponInput(in CouponInput) error {
	if strings.TrimSpace(in.Code) == "" {
		return NewHTTPError(http.StatusBadRequest, "code required")
	}
	switch model.DiscountType(in.DiscountType) {
	case model.DiscountPercentage, model.DiscountFixed:
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid discount type")
	}
	if in.DiscountValue.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "discount value must be >= 0")
	}
	if in.MinPurchaseAmount.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "min purchase amount must be >= 0")
	}
	if in.EndDate.Before(in.StartDate) {
		return NewHTTPError(http.StatusBadRequest, "end date before start date")
	}
	if in.UsageLimit < 0 {
		return NewHTTPError(http.StatusBadRequest, "usage limit must be >= 0")
	}
	return nil
}
