package repository

import (
	"app/internal/domain/model"
	"context"
)

// お問い合わせの保存・一覧取得の約束。追記のみ。
type ContactMessageRepository interface {
	Create(ctx context.Context, msg model.ContactMessage) (model.ContactMessage, error)
	List(ctx context.Context) ([]model.ContactMessage, error)
}
