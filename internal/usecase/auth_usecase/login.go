package auth

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	"app/internal/repository"
)

var (
	//401 認証失敗（どちらが間違いかは明かさない）
	ErrInvalidCredentials = errors.New("invalid credentials")
	//403 OTP未確認
	ErrNotVerified = errors.New("phone not verified")
	//403 管理者が停止した
	ErrUserDeactivated = errors.New("user deactivated")
	//403 管理者ロールではない
	ErrNotAdmin = errors.New("not an admin")
)

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginOutput struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"access_token"`
	ExpiresIn   int        `json:"expires_in"`
}

// LoginUsecaseはメール+パスワードのログイン処理。
type LoginUsecase struct {
	userRepo repository.UserRepository
	verifier PasswordVerifier
	issuer   AccessTokenIssuer
}

// DI
func NewLoginUsecase(
	userRepo repository.UserRepository,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo: userRepo,
		verifier: verifier,
		issuer:   issuer,
	}
}

// ログイン実行。OTP未確認のユーザーは通さない。
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	user, err := u.authenticate(ctx, in)
	if err != nil {
		return out, err
	}

	return u.issueFor(user)
}

// 管理者ログイン。ADMINロール以外は通さない。
func (u *LoginUsecase) ExecuteAdmin(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	user, err := u.authenticate(ctx, in)
	if err != nil {
		return out, err
	}
	if user.Role != model.RoleAdmin {
		return out, ErrNotAdmin
	}

	return u.issueFor(user)
}

func (u *LoginUsecase) authenticate(ctx context.Context, in LoginInput) (*model.User, error) {
	email := strings.TrimSpace(in.Email)

	user, err := u.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !u.verifier.Verify(in.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrUserDeactivated
	}
	if !user.Verified {
		return nil, ErrNotVerified
	}
	return user, nil
}

func (u *LoginUsecase) issueFor(user *model.User) (LoginOutput, error) {
	token, expiresIn, err := u.issuer.Issue(user)
	if err != nil {
		return LoginOutput{}, err
	}
	return LoginOutput{
		User:        safeUser(user),
		AccessToken: token,
		ExpiresIn:   expiresIn,
	}, nil
}
