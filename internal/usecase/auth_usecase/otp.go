package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"app/internal/infra/otp"
	"app/internal/repository"
)

// OTPの有効期限
const otpTTL = 5 * time.Minute

var (
	//期限切れ or 未発行
	ErrOtpExpired = errors.New("otp expired or not issued")
	//コード不一致
	ErrOtpMismatch = errors.New("otp mismatch")
)

// OtpUsecaseは電話番号確認のワンタイムコード処理。
// コードはストア（プロセス内 or Redis）にTTLつきで置く。
type OtpUsecase struct {
	userRepo repository.UserRepository
	store    otp.Store
	sender   OtpSender
}

// DI
func NewOtpUsecase(
	userRepo repository.UserRepository,
	store otp.Store,
	sender OtpSender,
) *OtpUsecase {
	return &OtpUsecase{
		userRepo: userRepo,
		store:    store,
		sender:   sender,
	}
}

// Send は6桁コードを発行してSMSで送る。
// 既存コードがあっても新しいコードで上書きする（再送と同じ動き）。
func (u *OtpUsecase) Send(ctx context.Context, phone string) error {
	user, err := u.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return err
	}

	code, err := generateOtpCode()
	if err != nil {
		return err
	}

	if err := u.store.Set(ctx, user.Phone, code, otpTTL); err != nil {
		return err
	}
	return u.sender.SendOtp(ctx, user.Phone, code)
}

// Verify はコード照合。一致したらユーザーを認証済みにしてコードを消す。
func (u *OtpUsecase) Verify(ctx context.Context, phone, code string) error {
	user, err := u.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return err
	}

	stored, ok, err := u.store.Get(ctx, user.Phone)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOtpExpired
	}
	if stored != code {
		return ErrOtpMismatch
	}

	user.Verified = true
	if err := u.userRepo.Update(ctx, user); err != nil {
		return err
	}
	return u.store.Delete(ctx, user.Phone)
}

// 6桁のコード（0埋めあり）
func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
