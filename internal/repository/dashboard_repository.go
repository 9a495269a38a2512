package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// 日付ごとの売上
type IncomeByDate struct {
	Date   string
	Income decimal.Decimal
}

// 月ごとの売上
type IncomeByMonth struct {
	Month  string
	Income decimal.Decimal
}

// 累計販売数の多い商品
type TopProduct struct {
	ProductID    int64
	Name         string
	QuantitySold int64
	Price        decimal.Decimal
	ImageURL     string
}

// ステータスごとの注文件数
type StatusCount struct {
	Status string
	Count  int64
}

// ダッシュボード用の読み取り専用集計。
// いずれも全件からのその場集計（増分ビューは持たない）。
type DashboardRepository interface {
	CountProducts(ctx context.Context) (int64, error)
	WeeklyIncome(ctx context.Context, since time.Time) ([]IncomeByDate, error)
	MonthlyIncome(ctx context.Context) ([]IncomeByMonth, error)
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
	OrderStatusCounts(ctx context.Context) ([]StatusCount, error)
}
