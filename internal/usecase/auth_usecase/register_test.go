package auth

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/infra/otp"
	"app/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newRegisterUsecaseForTest(userRepo *UserRepoMock, store otp.Store, sender *otpSenderSpy, mailer *mailerSpy) *RegisterUserUsecase {
	return NewRegisterUserUsecase(userRepo, hasherStub{}, store, sender, mailer, NewRealClock(), zerolog.Nop())
}

func TestRegisterUserUsecase_Execute_Success(t *testing.T) {
	ctx := context.Background()

	userRepo := new(UserRepoMock)
	store := otp.NewMemoryStore()
	sender := &otpSenderSpy{}
	mailer := &mailerSpy{}
	uc := newRegisterUsecaseForTest(userRepo, store, sender, mailer)

	userRepo.On("FindByEmail", mock.Anything, "taro@example.com").Return(nil, repository.ErrUserNotFound)
	userRepo.On("FindByPhone", mock.Anything, "09012345678").Return(nil, repository.ErrUserNotFound)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "taro@example.com" &&
			u.Role == model.RoleUser &&
			!u.Verified &&
			u.Active &&
			u.PasswordHash == "hashed:password123"
	})).Return(nil)

	out, err := uc.Execute(ctx, RegisterUserInput{
		Name:     "Taro",
		Email:    "taro@example.com",
		Phone:    "09012345678",
		Password: "password123",
	})
	assert.NoError(t, err)

	//レスポンスにハッシュは載せない
	assert.Empty(t, out.User.PasswordHash)

	//OTPと歓迎メールが出ている
	assert.Equal(t, "09012345678", sender.phone)
	assert.Len(t, sender.code, 6)
	assert.Equal(t, "taro@example.com", mailer.welcomeTo)

	userRepo.AssertExpectations(t)
}

// メール送信に失敗しても登録自体は成立する
func TestRegisterUserUsecase_Execute_MailFailureDoesNotBlock(t *testing.T) {
	userRepo := new(UserRepoMock)
	sender := &otpSenderSpy{err: assert.AnError}
	mailer := &mailerSpy{err: assert.AnError}
	uc := newRegisterUsecaseForTest(userRepo, otp.NewMemoryStore(), sender, mailer)

	userRepo.On("FindByEmail", mock.Anything, "taro@example.com").Return(nil, repository.ErrUserNotFound)
	userRepo.On("FindByPhone", mock.Anything, "09012345678").Return(nil, repository.ErrUserNotFound)
	userRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := uc.Execute(context.Background(), RegisterUserInput{
		Name:     "Taro",
		Email:    "taro@example.com",
		Phone:    "09012345678",
		Password: "password123",
	})
	assert.NoError(t, err)
}

func TestRegisterUserUsecase_Execute_InvalidEmail(t *testing.T) {
	uc := newRegisterUsecaseForTest(new(UserRepoMock), otp.NewMemoryStore(), &otpSenderSpy{}, &mailerSpy{})

	_, err := uc.Execute(context.Background(), RegisterUserInput{
		Email:    "not-an-email",
		Phone:    "09012345678",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidEmailFormat)
}

func TestRegisterUserUsecase_Execute_PasswordTooShort(t *testing.T) {
	uc := newRegisterUsecaseForTest(new(UserRepoMock), otp.NewMemoryStore(), &otpSenderSpy{}, &mailerSpy{})

	_, err := uc.Execute(context.Background(), RegisterUserInput{
		Email:    "taro@example.com",
		Phone:    "09012345678",
		Password: "short",
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterUserUsecase_Execute_PhoneRequired(t *testing.T) {
	uc := newRegisterUsecaseForTest(new(UserRepoMock), otp.NewMemoryStore(), &otpSenderSpy{}, &mailerSpy{})

	_, err := uc.Execute(context.Background(), RegisterUserInput{
		Email:    "taro@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrPhoneRequired)
}

func TestRegisterUserUsecase_Execute_DuplicateEmail(t *testing.T) {
	userRepo := new(UserRepoMock)
	uc := newRegisterUsecaseForTest(userRepo, otp.NewMemoryStore(), &otpSenderSpy{}, &mailerSpy{})

	userRepo.On("FindByEmail", mock.Anything, "taro@example.com").Return(&model.User{ID: 1}, nil)

	_, err := uc.Execute(context.Background(), RegisterUserInput{
		Email:    "taro@example.com",
		Phone:    "09012345678",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterUserUsecase_Execute_DuplicatePhone(t *testing.T) {
	userRepo := new(UserRepoMock)
	uc := newRegisterUsecaseForTest(userRepo, otp.NewMemoryStore(), &otpSenderSpy{}, &mailerSpy{})

	userRepo.On("FindByEmail", mock.Anything, "taro@example.com").Return(nil, repository.ErrUserNotFound)
	userRepo.On("FindByPhone", mock.Anything, "09012345678").Return(&model.User{ID: 2}, nil)

	_, err := uc.Execute(context.Background(), RegisterUserInput{
		Email:    "taro@example.com",
		Phone:    "09012345678",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrPhoneAlreadyExists)
}

// 管理者登録はOTP確認を求めず最初から認証済み
func TestRegisterUserUsecase_ExecuteAdmin_VerifiedFromStart(t *testing.T) {
	userRepo := new(UserRepoMock)
	uc := newRegisterUsecaseForTest(userRepo, otp.NewMemoryStore(), &otpSenderSpy{}, &mailerSpy{})

	userRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(nil, repository.ErrUserNotFound)
	userRepo.On("FindByPhone", mock.Anything, "09000000000").Return(nil, repository.ErrUserNotFound)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Role == model.RoleAdmin && u.Verified
	})).Return(nil)

	_, err := uc.ExecuteAdmin(context.Background(), RegisterUserInput{
		Name:     "Admin",
		Email:    "admin@example.com",
		Phone:    "09000000000",
		Password: "password123",
	})
	assert.NoError(t, err)

	userRepo.AssertExpectations(t)
}

// =====================
// パスワード再設定
// =====================

func newResetUsecaseForTest(userRepo *UserRepoMock, idGen IDGenerator, clock Clock, mailer *mailerSpy) *PasswordResetUsecase {
	return NewPasswordResetUsecase(userRepo, hasherStub{}, idGen, clock, mailer, "https://example.com/reset", zerolog.Nop())
}

func TestPasswordResetUsecase_Forgot_IssuesTokenAndMailsLink(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	userRepo := new(UserRepoMock)
	mailer := &mailerSpy{}
	uc := newResetUsecaseForTest(userRepo, idGenStub{id: "tok-123"}, clockStub{t: now}, mailer)

	user := &model.User{ID: 1, Email: "taro@example.com"}
	userRepo.On("FindByEmail", mock.Anything, "taro@example.com").Return(user, nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.ResetToken != nil && *u.ResetToken == "tok-123" &&
			u.ResetTokenExpiry != nil && u.ResetTokenExpiry.Equal(now.Add(resetTokenTTL))
	})).Return(nil)

	err := uc.Forgot(context.Background(), "taro@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "https://example.com/reset?token=tok-123", mailer.resetURL)

	userRepo.AssertExpectations(t)
}

func TestPasswordResetUsecase_Reset_ExpiredToken(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(-time.Minute)

	userRepo := new(UserRepoMock)
	uc := newResetUsecaseForTest(userRepo, idGenStub{id: "x"}, clockStub{t: now}, &mailerSpy{})

	token := "tok-123"
	userRepo.On("FindByResetToken", mock.Anything, "tok-123").Return(&model.User{
		ID: 1, ResetToken: &token, ResetTokenExpiry: &expiry,
	}, nil)

	err := uc.Reset(context.Background(), "tok-123", "newpassword1")
	assert.ErrorIs(t, err, ErrInvalidResetToken)

	userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// トークンは使い捨て。成功後はクリアする。
func TestPasswordResetUsecase_Reset_Success(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(10 * time.Minute)

	userRepo := new(UserRepoMock)
	uc := newResetUsecaseForTest(userRepo, idGenStub{id: "x"}, clockStub{t: now}, &mailerSpy{})

	token := "tok-123"
	userRepo.On("FindByResetToken", mock.Anything, "tok-123").Return(&model.User{
		ID: 1, ResetToken: &token, ResetTokenExpiry: &expiry,
	}, nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.PasswordHash == "hashed:newpassword1" && u.ResetToken == nil && u.ResetTokenExpiry == nil
	})).Return(nil)

	err := uc.Reset(context.Background(), "tok-123", "newpassword1")
	assert.NoError(t, err)

	userRepo.AssertExpectations(t)
}
