package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 在庫僅少の閾値
const lowStockThreshold = 5

// DashboardUsecase は管理ダッシュボードの集計です。読み取りのみ。
type DashboardUsecase struct {
	dashboardRepo repo.DashboardRepository
	productRepo   repo.ProductRepository
}

// DI
func NewDashboardUsecase(
	dashboardRepo repo.DashboardRepository,
	productRepo repo.ProductRepository,
) *DashboardUsecase {
	return &DashboardUsecase{
		dashboardRepo: dashboardRepo,
		productRepo:   productRepo,
	}
}

type DashboardSummary struct {
	TotalProducts     int64                `json:"total_products"`
	WeeklyIncome      []repo.IncomeByDate  `json:"weekly_income"`
	MonthlyIncome     []repo.IncomeByMonth `json:"monthly_income"`
	TopProducts       []repo.TopProduct    `json:"top_products"`
	OrderStatusCounts []repo.StatusCount   `json:"order_status_counts"`
	LowStockProducts  []model.Product      `json:"low_stock_products"`
}

// Summary は全カードの値をその場で集計して返す。
func (u *DashboardUsecase) Summary(ctx context.Context) (DashboardSummary, error) {
	totalProducts, err := u.dashboardRepo.CountProducts(ctx)
	if err != nil {
		return DashboardSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//直近7日（今日を含む）
	since := time.Now().AddDate(0, 0, -6).Truncate(24 * time.Hour)
	weekly, err := u.dashboardRepo.WeeklyIncome(ctx, since)
	if err != nil {
		return DashboardSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	monthly, err := u.dashboardRepo.MonthlyIncome(ctx)
	if err != nil {
		return DashboardSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	top, err := u.dashboardRepo.TopProducts(ctx, 5)
	if err != nil {
		return DashboardSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	statusCounts, err := u.dashboardRepo.OrderStatusCounts(ctx)
	if err != nil {
		return DashboardSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	lowStock, err := u.productRepo.ListLowStock(ctx, lowStockThreshold)
	if err != nil {
		return DashboardSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return DashboardSummary{
		TotalProducts:     totalProducts,
		WeeklyIncome:      weekly,
		MonthlyIncome:     monthly,
		TopProducts:       top,
		OrderStatusCounts: statusCounts,
		LowStockProducts:  lowStock,
	}, nil
}
