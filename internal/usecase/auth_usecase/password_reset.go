package auth

import (
	"context"
	"errors"
	"time"

	"app/internal/repository"

	"github.com/rs/zerolog"
)

// リセットトークンの有効期限
const resetTokenTTL = 15 * time.Minute

var (
	//トークン不正 or 期限切れ
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// PasswordResetUsecaseはパスワード再設定（忘れた人向け）。
// トークンはUUIDで発行し、有効期限つきでユーザー行に持たせる。
type PasswordResetUsecase struct {
	userRepo     repository.UserRepository
	hasher       PasswordHasher
	idGen        IDGenerator
	clock        Clock
	mailer       Mailer
	resetURLBase string
	logger       zerolog.Logger
}

// DI
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	idGen IDGenerator,
	clock Clock,
	mailer Mailer,
	resetURLBase string,
	logger zerolog.Logger,
) *PasswordResetUsecase {
	return &PasswordResetUsecase{
		userRepo:     userRepo,
		hasher:       hasher,
		idGen:        idGen,
		clock:        clock,
		mailer:       mailer,
		resetURLBase: resetURLBase,
		logger:       logger,
	}
}

// Forgot はトークンを発行してリセットリンクをメールする。
func (u *PasswordResetUsecase) Forgot(ctx context.Context, email string) error {
	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token := u.idGen.NewID()
	expiry := u.clock.Now().Add(resetTokenTTL)

	user.ResetToken = &token
	user.ResetTokenExpiry = &expiry
	if err := u.userRepo.Update(ctx, user); err != nil {
		return err
	}

	resetURL := u.resetURLBase + "?token=" + token
	if err := u.mailer.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		u.logger.Warn().Err(err).Msg("password reset mail failed")
	}
	return nil
}

// Reset はトークン照合のうえでパスワードを差し替える。トークンは使い捨て。
func (u *PasswordResetUsecase) Reset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidResetToken
	}
	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}

	user, err := u.userRepo.FindByResetToken(ctx, token)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return err
	}

	if user.ResetTokenExpiry == nil || u.clock.Now().After(*user.ResetTokenExpiry) {
		return ErrInvalidResetToken
	}

	hashed, err := u.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hashed
	user.ResetToken = nil
	user.ResetTokenExpiry = nil
	return u.userRepo.Update(ctx, user)
}
