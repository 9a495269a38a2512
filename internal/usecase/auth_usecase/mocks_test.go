package auth

import (
	"context"
	"time"

	"app/internal/domain/model"

	"github.com/stretchr/testify/mock"
)

// =====================
// 共有モック・スタブ
// =====================

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	args := m.Called(ctx, phone)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByResetToken(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserRepoMock) SearchByEmail(ctx context.Context, emailFragment string) ([]model.User, error) {
	args := m.Called(ctx, emailFragment)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

// 送信したコードを覚えておくOtpSender
type otpSenderSpy struct {
	phone string
	code  string
	err   error
}

func (s *otpSenderSpy) SendOtp(_ context.Context, phone, code string) error {
	s.phone = phone
	s.code = code
	return s.err
}

type mailerSpy struct {
	welcomeTo string
	resetTo   string
	resetURL  string
	err       error
}

func (s *mailerSpy) SendWelcome(_ context.Context, toEmail, _ string) error {
	s.welcomeTo = toEmail
	return s.err
}

func (s *mailerSpy) SendPasswordReset(_ context.Context, toEmail, resetURL string) error {
	s.resetTo = toEmail
	s.resetURL = resetURL
	return s.err
}

// 平文に印をつけるだけのハッシュ
type hasherStub struct{}

func (hasherStub) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

// hasherStubの出力とだけ一致する照合
type verifierStub struct{}

func (verifierStub) Verify(plain, hashed string) bool { return hashed == "hashed:"+plain }

type issuerStub struct{}

func (issuerStub) Issue(_ *model.User) (string, int, error) { return "test-token", 86400, nil }

type idGenStub struct{ id string }

func (g idGenStub) NewID() string { return g.id }

// 固定時刻のClock
type clockStub struct{ t time.Time }

func (c clockStub) Now() time.Time { return c.t }
