package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// 保存・取得を約束
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByPhone(ctx context.Context, phone string) (*model.User, error)
	FindByResetToken(ctx context.Context, token string) (*model.User, error)

	// 認証フラグ・ロール・リセットトークンの更新など
	Update(ctx context.Context, user *model.User) error

	List(ctx context.Context) ([]model.User, error)

	//メールの部分一致検索（管理画面用）
	SearchByEmail(ctx context.Context, emailFragment string) ([]model.User, error)
}
