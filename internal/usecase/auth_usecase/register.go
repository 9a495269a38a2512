package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"app/internal/domain/model"
	"app/internal/infra/otp"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

var (
	// 入力が不正
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrPhoneRequired      = errors.New("phone required")

	// 競合
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrPhoneAlreadyExists = errors.New("phone already exists")
)

// 会員登録の入力
type RegisterUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// 会員登録の出力
type RegisterUserOutput struct {
	User model.User `json:"user"`
}

// RegisterUserUsecaseは会員登録の処理。
// 登録直後にOTPを送って電話番号の確認を求める。ログインはOTP確認後。
type RegisterUserUsecase struct {
	userRepo  repository.UserRepository
	hasher    PasswordHasher
	otpStore  otp.Store
	otpSender OtpSender
	mailer    Mailer
	clock     Clock
	logger    zerolog.Logger
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	otpStore otp.Store,
	otpSender OtpSender,
	mailer Mailer,
	clock Clock,
	logger zerolog.Logger,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo:  userRepo,
		hasher:    hasher,
		otpStore:  otpStore,
		otpSender: otpSender,
		mailer:    mailer,
		clock:     clock,
		logger:    logger,
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	user, err := u.buildUser(ctx, in)
	if err != nil {
		return out, err
	}

	user.Role = model.RoleUser
	user.Verified = false

	if err := u.userRepo.Create(ctx, user); err != nil {
		return out, err
	}

	//OTP送信と歓迎メールはベストエフォート（登録自体は成立させる）
	if code, err := generateOtpCode(); err == nil {
		if err := u.otpStore.Set(ctx, user.Phone, code, otpTTL); err != nil {
			u.logger.Warn().Err(err).Msg("otp store failed on register")
		} else if err := u.otpSender.SendOtp(ctx, user.Phone, code); err != nil {
			u.logger.Warn().Err(err).Msg("otp send failed on register")
		}
	}
	if err := u.mailer.SendWelcome(ctx, user.Email, user.Name); err != nil {
		u.logger.Warn().Err(err).Msg("welcome mail failed")
	}

	out.User = safeUser(user)
	return out, nil
}

// 管理者登録。OTP確認は求めず、最初から認証済みにする。
func (u *RegisterUserUsecase) ExecuteAdmin(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	user, err := u.buildUser(ctx, in)
	if err != nil {
		return out, err
	}

	user.Role = model.RoleAdmin
	user.Verified = true

	if err := u.userRepo.Create(ctx, user); err != nil {
		return out, err
	}

	out.User = safeUser(user)
	return out, nil
}

func (u *RegisterUserUsecase) buildUser(ctx context.Context, in RegisterUserInput) (*model.User, error) {
	email := strings.TrimSpace(in.Email)
	phone := strings.TrimSpace(in.Phone)

	if !isValidEmailFormat(email) {
		return nil, ErrInvalidEmailFormat
	}
	if len(in.Password) < 8 {
		return nil, ErrPasswordTooShort
	}
	if phone == "" {
		return nil, ErrPhoneRequired
	}

	// email重複チェック
	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	// phone重複チェック
	existing, err = u.userRepo.FindByPhone(ctx, phone)
	if err == nil && existing != nil {
		return nil, ErrPhoneAlreadyExists
	}
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	return &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        phone,
		PasswordHash: hashed, // ハッシュを保存（平文は保存しない）
		Provider:     model.ProviderLocal,
		Active:       true,
	}, nil
}

// 返すときはハッシュを外して漏洩防止
func safeUser(u *model.User) model.User {
	safe := *u
	safe.PasswordHash = ""
	safe.ResetToken = nil
	safe.ResetTokenExpiry = nil
	return safe
}

// メールチェック
func isValidEmailFormat(email string) bool {
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}
