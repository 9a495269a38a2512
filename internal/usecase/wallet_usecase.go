package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// WalletUsecase はストアクレジット残高と返金台帳です。
type WalletUsecase struct {
	walletRepo  repo.WalletRepository
	paymentRepo repo.PaymentHistoryRepository
	txManager   repo.TransactionManager
}

// DI
func NewWalletUsecase(
	walletRepo repo.WalletRepository,
	paymentRepo repo.PaymentHistoryRepository,
	txManager repo.TransactionManager,
) *WalletUsecase {
	return &WalletUsecase{
		walletRepo:  walletRepo,
		paymentRepo: paymentRepo,
		txManager:   txManager,
	}
}

type WalletResponse struct {
	UserID  int64           `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
}

// GetWallet は残高照会。初回アクセスなら残高0で作る。
func (u *WalletUsecase) GetWallet(ctx context.Context, userID int64) (WalletResponse, error) {
	if userID <= 0 {
		return WalletResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	w, err := u.walletRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return WalletResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return WalletResponse{UserID: w.UserID, Balance: w.Balance}, nil
}

// AddFunds は残高加算。
func (u *WalletUsecase) AddFunds(ctx context.Context, userID int64, amount decimal.Decimal) (WalletResponse, error) {
	if userID <= 0 {
		return WalletResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !amount.IsPositive() {
		return WalletResponse{}, NewHTTPError(http.StatusBadRequest, "amount must be > 0")
	}

	if _, err := u.walletRepo.GetOrCreateByUserID(ctx, userID); err != nil {
		return WalletResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := u.walletRepo.Credit(ctx, userID, amount); err != nil {
		return WalletResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.GetWallet(ctx, userID)
}

// DeductFunds は残高減算。足りなければ残高を一切変えずにエラー。
func (u *WalletUsecase) DeductFunds(ctx context.Context, userID int64, amount decimal.Decimal) (WalletResponse, error) {
	if userID <= 0 {
		return WalletResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !amount.IsPositive() {
		return WalletResponse{}, NewHTTPError(http.StatusBadRequest, "amount must be > 0")
	}

	if _, err := u.walletRepo.GetOrCreateByUserID(ctx, userID); err != nil {
		return WalletResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//残高チェックと減算は1回の条件付きUPDATE
	ok, err := u.walletRepo.DebitIfEnough(ctx, userID, amount)
	if err != nil {
		return WalletResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !ok {
		return WalletResponse{}, NewHTTPError(http.StatusBadRequest, "insufficient wallet balance")
	}
	return u.GetWallet(ctx, userID)
}

// RefundToWallet は決済をウォレットへ返金する。
// 残高加算と返金行の追記を1トランザクションで行う。
// 元の決済行は書き換えず、"Refunded to Wallet" の行を新しく足す。
func (u *WalletUsecase) RefundToWallet(ctx context.Context, userID, paymentID int64) (WalletResponse, error) {
	if userID <= 0 {
		return WalletResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	ph, err := u.paymentRepo.FindByIDAndUser(ctx, paymentID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return WalletResponse{}, NewHTTPError(http.StatusNotFound, "payment not found")
	}
	if err != nil {
		return WalletResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if ph.Status == model.PaymentStatusRefundedToWallet {
		return WalletResponse{}, NewHTTPError(http.StatusBadRequest, "payment already refunded")
	}

	//同じPaymentIDの返金行が既にあれば二重返金
	history, err := u.paymentRepo.ListByUserID(ctx, userID)
	if err != nil {
		return WalletResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	for _, h := range history {
		if h.PaymentID == ph.PaymentID && h.Status == model.PaymentStatusRefundedToWallet {
			return WalletResponse{}, NewHTTPError(http.StatusBadRequest, "payment already refunded")
		}
	}

	err = u.txManager.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Wallets().GetOrCreateByUserID(ctx, userID); err != nil {
			return err
		}
		if err := r.Wallets().Credit(ctx, userID, ph.Amount); err != nil {
			return err
		}
		_, err := r.Payments().Create(ctx, model.PaymentHistory{
			UserID:        userID,
			PaymentID:     ph.PaymentID,
			PaymentMethod: ph.PaymentMethod,
			Amount:        ph.Amount,
			Status:        model.PaymentStatusRefundedToWallet,
			ReceiptURL:    ph.ReceiptURL,
		})
		return err
	})
	if err != nil {
		return WalletResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetWallet(ctx, userID)
}

func (u *WalletUsecase) ListPaymentHistory(ctx context.Context, userID int64) ([]model.PaymentHistory, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	list, err := u.paymentRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}
