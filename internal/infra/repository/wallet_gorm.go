package repository

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WalletGormRepository struct {
	db *gorm.DB
}

// DI
func NewWalletGormRepository(db *gorm.DB) *WalletGormRepository {
	return &WalletGormRepository{db: db}
}

// ウォレットを取得し、無ければ残高0で作成
func (r *WalletGormRepository) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Wallet, error) {
	var wallet model.Wallet

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&wallet).Error

		if findErr == nil {
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		now := time.Now()
		newWallet := model.Wallet{
			UserID:    userID,
			Balance:   decimal.Zero,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := tx.Create(&newWallet).Error; err != nil {
			retryErr := tx.Where("user_id = ?", userID).First(&wallet).Error
			if retryErr == nil {
				return nil
			}
			return err
		}

		wallet = newWallet
		return nil
	})

	if err != nil {
		return model.Wallet{}, err
	}
	return wallet, nil
}

// 残高加算。行単位の原子更新。
func (r *WalletGormRepository) Credit(ctx context.Context, userID int64, amount decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&model.Wallet{}).
		Where("user_id = ?", userID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 残高が足りるときだけ減算。足りなければfalse。
func (r *WalletGormRepository) DebitIfEnough(ctx context.Context, userID int64, amount decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Wallet{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type PaymentHistoryGormRepository struct {
	db *gorm.DB
}

// DI
func NewPaymentHistoryGormRepository(db *gorm.DB) *PaymentHistoryGormRepository {
	return &PaymentHistoryGormRepository{db: db}
}

func (r *PaymentHistoryGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.PaymentHistory, error) {
	var phs []model.PaymentHistory

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("payment_date desc").
		Find(&phs).Error; err != nil {
		return nil, err
	}
	return phs, nil
}

func (r *PaymentHistoryGormRepository) FindByIDAndUser(ctx context.Context, paymentID, userID int64) (model.PaymentHistory, error) {
	var ph model.PaymentHistory

	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", paymentID, userID).
		First(&ph).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PaymentHistory{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PaymentHistory{}, err
	}
	return ph, nil
}

func (r *PaymentHistoryGormRepository) Create(ctx context.Context, ph model.PaymentHistory) (model.PaymentHistory, error) {
	if err := r.db.WithContext(ctx).Create(&ph).Error; err != nil {
		return model.PaymentHistory{}, err
	}
	return ph, nil
}
