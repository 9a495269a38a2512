package repository

import (
	"app/internal/domain/model"
	"context"
)

// 監査ログの保存・一覧取得の約束。追記のみ。
type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	List(ctx context.Context, limit int) ([]model.AuditLog, error)
}
