package auth

import (
	"context"
	"testing"

	"app/internal/domain/model"
	"app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func activeUser() *model.User {
	return &model.User{
		ID:           1,
		Name:         "Taro",
		Email:        "taro@example.com",
		PasswordHash: "hashed:correct-password",
		Role:         model.RoleUser,
		Verified:     true,
		Active:       true,
	}
}

func TestLoginUsecase_Execute_Success(t *testing.T) {
	userRepo := new(UserRepoMock)
	uc := NewLoginUsecase(userRepo, verifierStub{}, issuerStub{})

	userRepo.On("FindByEmail", mock.Anything, "taro@example.com").Return(activeUser(), nil)

	out, err := uc.Execute(context.Background(), LoginInput{
		Email:    "taro@example.com",
		Password: "correct-password",
	})
	assert.NoError(t, err)
	assert.Equal(t, "test-token", out.AccessToken)
	assert.Equal(t, 86400, out.ExpiresIn)

	//ハッシュは返さない
	assert.Empty(t, out.User.PasswordHash)
}

// どちらが間違いかは明かさない
func TestLoginUsecase_Execute_UnknownEmail(t *testing.T) {
	userRepo := new(UserRepoMock)
	uc := NewLoginUsecase(userRepo, verifierStub{}, issuerStub{})

	userRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, repository.ErrUserNotFound)

	_, err := uc.Execute(context.Background(), LoginInput{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUsecase_Execute_WrongPassword(t *testing.T) {
	userRepo := new(UserRepoMock)
	uc := NewLoginUsecase(userRepo, verifierStub{}, issuerStub{})

	userRepo.On("FindByEmail", mock.Anything, "taro@example.com").Return(activeUser(), nil)

	_, err := uc.Execute(context.Background(), LoginInput{Email: "taro@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// 管理者が停止したユーザーはログイン不可
func TestLoginUsecase_Execute_DeactivatedUser(t *testing.T) {
	userRepo := new(UserRepoMock)
	uc := NewLoginUsecase(userRepo, verifierStub{}, issuerStub{})

	u := activeUser()
	u.Active = false
	userRepo.On("FindByEmail", mock.Anything, "taro@example.com").Return(u, nil)

	_, err := uc.Execute(context.Background(), LoginInput{Email: "taro@example.com", Password: "correct-password"})
	assert.ErrorIs(t, err, ErrUserDeactivated)
}

// OTP未確認のユーザーは通さない
func TestLoginUsecase_Execute_NotVerified(t *testing.T) {
	userRepo := new(UserRepoMock)
	uc := NewLoginUsecase(userRepo, verifierStub{}, issuerStub{})

	u := activeUser()
	u.Verified = false
	userRepo.On("FindByEmail", mock.Anything, "taro@example.com").Return(u, nil)

	_, err := uc.Execute(context.Background(), LoginInput{Email: "taro@example.com", Password: "correct-password"})
	assert.ErrorIs(t, err, ErrNotVerified)
}

// 管理者ログインはADMINロール以外を弾く
func TestLoginUsecase_ExecuteAdmin_RejectsNonAdmin(t *testing.T) {
	userRepo := new(UserRepoMock)
	uc := NewLoginUsecase(userRepo, verifierStub{}, issuerStub{})

	userRepo.On("FindByEmail", mock.Anything, "taro@example.com").Return(activeUser(), nil)

	_, err := uc.ExecuteAdmin(context.Background(), LoginInput{Email: "taro@example.com", Password: "correct-password"})
	assert.ErrorIs(t, err, ErrNotAdmin)
}

func TestLoginUsecase_ExecuteAdmin_Success(t *testing.T) {
	userRepo := new(UserRepoMock)
	uc := NewLoginUsecase(userRepo, verifierStub{}, issuerStub{})

	u := activeUser()
	u.Role = model.RoleAdmin
	userRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(u, nil)

	out, err := uc.ExecuteAdmin(context.Background(), LoginInput{Email: "admin@example.com", Password: "correct-password"})
	assert.NoError(t, err)
	assert.Equal(t, "test-token", out.AccessToken)
}
