package usecase

import (
	"context"
	"errors"
	"testing"

	"app/internal/domain/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type AdminUserRepoMock struct{ mock.Mock }

func (m *AdminUserRepoMock) Create(ctx context.Context, user *model.User) error {
	panic("not used in UserAdminUsecase tests")
}

func (m *AdminUserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *AdminUserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	panic("not used in UserAdminUsecase tests")
}

func (m *AdminUserRepoMock) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	panic("not used in UserAdminUsecase tests")
}

func (m *AdminUserRepoMock) FindByResetToken(ctx context.Context, token string) (*model.User, error) {
	panic("not used in UserAdminUsecase tests")
}

func (m *AdminUserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *AdminUserRepoMock) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *AdminUserRepoMock) SearchByEmail(ctx context.Context, emailFragment string) ([]model.User, error) {
	args := m.Called(ctx, emailFragment)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

// 注入したハッシュ化の実装を使っていることが検証できる
type adminHasherStub struct{}

func (adminHasherStub) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func newUserAdminUsecaseForTest(uRepo *AdminUserRepoMock, aRepo *AuditRepoMock) *UserAdminUsecase {
	return NewUserAdminUsecase(uRepo, aRepo, adminHasherStub{}, zerolog.Nop())
}

// =====================
// パスワード強制再設定
// =====================

// ハッシュ化は注入されたPasswordHasher経由。残っていたリセットトークンも消す。
func TestUserAdminUsecase_ResetPassword_UsesInjectedHasher(t *testing.T) {
	uRepo := new(AdminUserRepoMock)
	aRepo := new(AuditRepoMock)
	uc := newUserAdminUsecaseForTest(uRepo, aRepo)

	token := "old-token"
	uRepo.On("FindByID", mock.Anything, int64(3)).Return(&model.User{
		ID: 3, Email: "taro@example.com", PasswordHash: "hashed:old", ResetToken: &token,
	}, nil)
	uRepo.On("Update", mock.Anything, mock.MatchedBy(func(user *model.User) bool {
		return user.PasswordHash == "hashed:new-password-1" &&
			user.ResetToken == nil &&
			user.ResetTokenExpiry == nil
	})).Return(nil)
	aRepo.On("Create", mock.Anything, mock.MatchedBy(func(log model.AuditLog) bool {
		return log.PerformedBy == "admin@example.com" && log.Action == "Reset password for user 3"
	})).Return(nil)

	err := uc.ResetPassword(context.Background(), "admin@example.com", 3, "new-password-1")
	assert.NoError(t, err)

	uRepo.AssertExpectations(t)
	aRepo.AssertExpectations(t)
}

func TestUserAdminUsecase_ResetPassword_TooShort(t *testing.T) {
	uRepo := new(AdminUserRepoMock)
	uc := newUserAdminUsecaseForTest(uRepo, new(AuditRepoMock))

	err := uc.ResetPassword(context.Background(), "admin@example.com", 3, "short")
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)

	uRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

// =====================
// 監査ログ
// =====================

// 監査ログの書き込み失敗で本処理は失敗させない
func TestUserAdminUsecase_SetActive_SucceedsWhenAuditWriteFails(t *testing.T) {
	uRepo := new(AdminUserRepoMock)
	aRepo := new(AuditRepoMock)
	uc := newUserAdminUsecaseForTest(uRepo, aRepo)

	uRepo.On("FindByID", mock.Anything, int64(3)).Return(&model.User{ID: 3, Active: true}, nil)
	uRepo.On("Update", mock.Anything, mock.MatchedBy(func(user *model.User) bool {
		return user.ID == 3 && !user.Active
	})).Return(nil)
	aRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	out, err := uc.SetActive(context.Background(), "admin@example.com", 3, false)
	assert.NoError(t, err)
	assert.False(t, out.Active)

	aRepo.AssertExpectations(t)
}
