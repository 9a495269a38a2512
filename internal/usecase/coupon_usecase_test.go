package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type CouponRepoMock struct{ mock.Mock }

func (m *CouponRepoMock) FindByCode(ctx context.Context, code string) (model.Coupon, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(model.Coupon)
	return c, args.Error(1)
}

func (m *CouponRepoMock) List(ctx context.Context) ([]model.Coupon, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.Coupon)
	return list, args.Error(1)
}

func (m *CouponRepoMock) Create(ctx context.Context, c model.Coupon) (model.Coupon, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(model.Coupon)
	return created, args.Error(1)
}

func (m *CouponRepoMock) Update(ctx context.Context, c model.Coupon) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CouponRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CouponRepoMock) RedeemIfAvailable(ctx context.Context, couponID int64) (bool, error) {
	args := m.Called(ctx, couponID)
	return args.Bool(0), args.Error(1)
}

func validCoupon() model.Coupon {
	now := time.Now()
	return model.Coupon{
		ID:                1,
		Code:              "SAVE10",
		DiscountType:      model.DiscountPercentage,
		DiscountValue:     decimal.NewFromInt(10),
		MinPurchaseAmount: decimal.NewFromInt(50),
		StartDate:         now.Add(-time.Hour),
		EndDate:           now.Add(time.Hour),
		UsageLimit:        100,
		Active:            true,
	}
}

// =====================
// Apply
// =====================

// 10%オフ: 100 → 割引10、支払90
func TestCouponUsecase_Apply_Percentage(t *testing.T) {
	cRepo := new(CouponRepoMock)
	uc := NewCouponUsecase(cRepo)

	cRepo.On("FindByCode", mock.Anything, "SAVE10").Return(validCoupon(), nil)
	cRepo.On("RedeemIfAvailable", mock.Anything, int64(1)).Return(true, nil)

	out, err := uc.Apply(context.Background(), ApplyCouponInput{
		Code:      "SAVE10",
		CartTotal: decimal.NewFromInt(100),
	})
	assert.NoError(t, err)
	assert.True(t, out.DiscountAmount.Equal(decimal.NewFromInt(10)), "got %s", out.DiscountAmount)
	assert.True(t, out.FinalTotal.Equal(decimal.NewFromInt(90)), "got %s", out.FinalTotal)

	cRepo.AssertExpectations(t)
}

// 定額20円オフで合計15円 → 割引は合計まで、支払0（マイナスにしない）
func TestCouponUsecase_Apply_FixedClampedToTotal(t *testing.T) {
	cRepo := new(CouponRepoMock)
	uc := NewCouponUsecase(cRepo)

	c := validCoupon()
	c.DiscountType = model.DiscountFixed
	c.DiscountValue = decimal.NewFromInt(20)
	c.MinPurchaseAmount = decimal.Zero

	cRepo.On("FindByCode", mock.Anything, "SAVE10").Return(c, nil)
	cRepo.On("RedeemIfAvailable", mock.Anything, int64(1)).Return(true, nil)

	out, err := uc.Apply(context.Background(), ApplyCouponInput{
		Code:      "SAVE10",
		CartTotal: decimal.NewFromInt(15),
	})
	assert.NoError(t, err)
	assert.True(t, out.DiscountAmount.Equal(decimal.NewFromInt(15)))
	assert.True(t, out.FinalTotal.IsZero())
}

func TestCouponUsecase_Apply_NotFound(t *testing.T) {
	cRepo := new(CouponRepoMock)
	uc := NewCouponUsecase(cRepo)

	cRepo.On("FindByCode", mock.Anything, "NOPE").Return(model.Coupon{}, repo.ErrNotFound)

	_, err := uc.Apply(context.Background(), ApplyCouponInput{Code: "NOPE", CartTotal: decimal.NewFromInt(100)})
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

func TestCouponUsecase_Apply_Inactive(t *testing.T) {
	cRepo := new(CouponRepoMock)
	uc := NewCouponUsecase(cRepo)

	c := validCoupon()
	c.Active = false
	cRepo.On("FindByCode", mock.Anything, "SAVE10").Return(c, nil)

	_, err := uc.Apply(context.Background(), ApplyCouponInput{Code: "SAVE10", CartTotal: decimal.NewFromInt(100)})
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
	assert.Equal(t, "coupon is inactive", he.Message)

	cRepo.AssertNotCalled(t, "RedeemIfAvailable", mock.Anything, mock.Anything)
}

func TestCouponUsecase_Apply_OutsideWindow(t *testing.T) {
	cRepo := new(CouponRepoMock)
	uc := NewCouponUsecase(cRepo)

	c := validCoupon()
	c.StartDate = time.Now().Add(time.Hour)
	c.EndDate = time.Now().Add(2 * time.Hour)
	cRepo.On("FindByCode", mock.Anything, "SAVE10").Return(c, nil)

	_, err := uc.Apply(context.Background(), ApplyCouponInput{Code: "SAVE10", CartTotal: decimal.NewFromInt(100)})
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, "coupon is not valid at this time", he.Message)
}

func TestCouponUsecase_Apply_BelowMinPurchase(t *testing.T) {
	cRepo := new(CouponRepoMock)
	uc := NewCouponUsecase(cRepo)

	cRepo.On("FindByCode", mock.Anything, "SAVE10").Return(validCoupon(), nil)

	_, err := uc.Apply(context.Background(), ApplyCouponInput{Code: "SAVE10", CartTotal: decimal.NewFromInt(49)})
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, "cart total below minimum purchase amount", he.Message)

	cRepo.AssertNotCalled(t, "RedeemIfAvailable", mock.Anything, mock.Anything)
}

// 回数上限に達していたら消し込まない
func TestCouponUsecase_Apply_UsageLimitReached(t *testing.T) {
	cRepo := new(CouponRepoMock)
	uc := NewCouponUsecase(cRepo)

	cRepo.On("FindByCode", mock.Anything, "SAVE10").Return(validCoupon(), nil)
	cRepo.On("RedeemIfAvailable", mock.Anything, int64(1)).Return(false, nil)

	_, err := uc.Apply(context.Background(), ApplyCouponInput{Code: "SAVE10", CartTotal: decimal.NewFromInt(100)})
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, "coupon usage limit reached", he.Message)
}

// =====================
// 同時消込（usage_limit=1）
// =====================

// times_used < usage_limit の条件付き更新を模した疑似リポジトリ
type couponRedeemFake struct {
	CouponRepoMock
	mu     sync.Mutex
	coupon model.Coupon
}

func (f *couponRedeemFake) FindByCode(_ context.Context, _ string) (model.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.coupon, nil
}

func (f *couponRedeemFake) RedeemIfAvailable(_ context.Context, _ int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.coupon.TimesUsed >= f.coupon.UsageLimit {
		return false, nil
	}
	f.coupon.TimesUsed++
	return true, nil
}

// 上限1回のクーポンを2人が同時に使っても、通るのは1人だけ
func TestCouponUsecase_Apply_ConcurrentSingleUse(t *testing.T) {
	c := validCoupon()
	c.UsageLimit = 1
	c.MinPurchaseAmount = decimal.Zero
	fake := &couponRedeemFake{coupon: c}
	uc := NewCouponUsecase(fake)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Apply(context.Background(), ApplyCouponInput{
				Code:      "SAVE10",
				CartTotal: decimal.NewFromInt(100),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, fake.coupon.TimesUsed)
}

// 逐次でも同じ。2回目は上限で弾く。
func TestCouponUsecase_Apply_SecondUseRejected(t *testing.T) {
	c := validCoupon()
	c.UsageLimit = 1
	c.MinPurchaseAmount = decimal.Zero
	fake := &couponRedeemFake{coupon: c}
	uc := NewCouponUsecase(fake)

	_, err := uc.Apply(context.Background(), ApplyCouponInput{Code: "SAVE10", CartTotal: decimal.NewFromInt(100)})
	assert.NoError(t, err)

	_, err = uc.Apply(context.Background(), ApplyCouponInput{Code: "SAVE10", CartTotal: decimal.NewFromInt(100)})
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, "coupon usage limit reached", he.Message)
}

// =====================
// DiscountAmount
// =====================

func TestDiscountAmount(t *testing.T) {
	cases := []struct {
		name  string
		typ   model.DiscountType
		value string
		total string
		want  string
	}{
		{"percentage", model.DiscountPercentage, "10", "100", "10"},
		{"percentage of zero", model.DiscountPercentage, "10", "0", "0"},
		{"fixed", model.DiscountFixed, "20", "100", "20"},
		{"fixed over total", model.DiscountFixed, "20", "15", "15"},
		{"unknown type", model.DiscountType("bogus"), "20", "100", "0"},
	}

	for _, c := range cases {
		got := DiscountAmount(c.typ, decimal.RequireFromString(c.value), decimal.RequireFromString(c.total))
		assert.True(t, got.Equal(decimal.RequireFromString(c.want)), "%s: got %s", c.name, got)
	}
}

// =====================
// 管理CRUDの入力検証
// =====================

func TestCouponUsecase_Create_InvalidDiscountType(t *testing.T) {
	uc := NewCouponUsecase(new(CouponRepoMock))

	_, err := uc.Create(context.Background(), CouponInput{
		Code:          "X",
		DiscountType:  "half-off",
		DiscountValue: decimal.NewFromInt(1),
		StartDate:     time.Now(),
		EndDate:       time.Now().Add(time.Hour),
	})
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

func TestCouponUsecase_Create_DuplicateCode(t *testing.T) {
	cRepo := new(CouponRepoMock)
	uc := NewCouponUsecase(cRepo)

	cRepo.On("Create", mock.Anything, mock.AnythingOfType("model.Coupon")).
		Return(model.Coupon{}, assert.AnError)

	_, err := uc.Create(context.Background(), CouponInput{
		Code:          "DUP",
		DiscountType:  string(model.DiscountFixed),
		DiscountValue: decimal.NewFromInt(5),
		StartDate:     time.Now(),
		EndDate:       time.Now().Add(time.Hour),
	})
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 409, he.Status)
}
