package auth

import (
	"context"
	"errors"

	"app/internal/domain/model"
	google "app/internal/infra/auth/google"
	"app/internal/repository"
)

var (
	//Googleトークンの検証失敗
	ErrInvalidGoogleToken = errors.New("invalid google token")
)

// GoogleのIDトークン検証の約束（実体はinfra/auth/google）
type GoogleVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*google.UserInfo, error)
}

// GoogleLoginUsecaseはGoogleアカウントでのログイン。
// 初回は電話番号なし・認証済みのユーザーを作る。
type GoogleLoginUsecase struct {
	userRepo repository.UserRepository
	verifier GoogleVerifier
	hasher   PasswordHasher
	idGen    IDGenerator
	issuer   AccessTokenIssuer
}

// DI
func NewGoogleLoginUsecase(
	userRepo repository.UserRepository,
	verifier GoogleVerifier,
	hasher PasswordHasher,
	idGen IDGenerator,
	issuer AccessTokenIssuer,
) *GoogleLoginUsecase {
	return &GoogleLoginUsecase{
		userRepo: userRepo,
		verifier: verifier,
		hasher:   hasher,
		idGen:    idGen,
		issuer:   issuer,
	}
}

// Execute はIDトークンを検証して、ユーザーを作成または取得してログインさせる。
func (u *GoogleLoginUsecase) Execute(ctx context.Context, idToken string) (LoginOutput, error) {
	var out LoginOutput

	info, err := u.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return out, ErrInvalidGoogleToken
	}

	user, err := u.userRepo.FindByEmail(ctx, info.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		user, err = u.createGoogleUser(ctx, info)
		if err != nil {
			return out, err
		}
	} else if err != nil {
		return out, err
	}

	if !user.Active {
		return out, ErrUserDeactivated
	}

	token, expiresIn, err := u.issuer.Issue(user)
	if err != nil {
		return out, err
	}
	return LoginOutput{
		User:        safeUser(user),
		AccessToken: token,
		ExpiresIn:   expiresIn,
	}, nil
}

func (u *GoogleLoginUsecase) createGoogleUser(ctx context.Context, info *google.UserInfo) (*model.User, error) {
	//本人がパスワードを知る必要はないのでランダム値のハッシュを置く
	hashed, err := u.hasher.Hash(u.idGen.NewID())
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         info.Name,
		Email:        info.Email,
		PasswordHash: hashed,
		Role:         model.RoleUser,
		Provider:     model.ProviderGoogle,
		Verified:     true, // Google側で確認済み
		Active:       true,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
