package repository

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"context"
	"time"

	"gorm.io/gorm"
)

type DashboardGormRepository struct {
	db *gorm.DB
}

// DI
func NewDashboardGormRepository(db *gorm.DB) *DashboardGormRepository {
	return &DashboardGormRepository{db: db}
}

func (r *DashboardGormRepository) CountProducts(ctx context.Context) (int64, error) {
	var count int64

	if err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// 直近の売上を日付単位で集計
func (r *DashboardGormRepository) WeeklyIncome(ctx context.Context, since time.Time) ([]repo.IncomeByDate, error) {
	var rows []repo.IncomeByDate

	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("TO_CHAR(order_date, 'YYYY-MM-DD') as date, COALESCE(SUM(total_price), 0) as income").
		Where("order_date >= ?", since).
		Group("TO_CHAR(order_date, 'YYYY-MM-DD')").
		Order("date asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// 月単位の売上（全期間）
func (r *DashboardGormRepository) MonthlyIncome(ctx context.Context) ([]repo.IncomeByMonth, error) {
	var rows []repo.IncomeByMonth

	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("TO_CHAR(order_date, 'YYYY-MM') as month, COALESCE(SUM(total_price), 0) as income").
		Group("TO_CHAR(order_date, 'YYYY-MM')").
		Order("month asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// 累計販売数の多い商品（主画像つき）
func (r *DashboardGormRepository) TopProducts(ctx context.Context, limit int) ([]repo.TopProduct, error) {
	var rows []repo.TopProduct

	err := r.db.WithContext(ctx).
		Table("order_items").
		Select(`order_items.product_id as product_id,
			products.name as name,
			SUM(order_items.quantity) as quantity_sold,
			products.price as price,
			COALESCE((SELECT image_url FROM product_images
				WHERE product_images.product_id = products.id AND product_images.is_primary
				LIMIT 1), '/uploads/default-product.png') as image_url`).
		Joins("join products on products.id = order_items.product_id").
		Group("order_items.product_id, products.name, products.price, products.id").
		Order("quantity_sold desc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *DashboardGormRepository) OrderStatusCounts(ctx context.Context) ([]repo.StatusCount, error) {
	var rows []repo.StatusCount

	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
