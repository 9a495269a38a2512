package repository

import (
	"app/internal/domain/model"
	"context"
)

type CouponRepository interface {
	FindByCode(ctx context.Context, code string) (model.Coupon, error)
	List(ctx context.Context) ([]model.Coupon, error)
	Create(ctx context.Context, c model.Coupon) (model.Coupon, error)
	Update(ctx context.Context, c model.Coupon) error
	Delete(ctx context.Context, id int64) error

	//times_used < usage_limit のときだけ加算する条件付き更新。
	//チェックと加算を1回の原子操作にして二重利用を防ぐ。
	RedeemIfAvailable(ctx context.Context, couponID int64) (bool, error)
}
