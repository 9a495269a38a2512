package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 一覧の既定件数
const auditLogDefaultLimit = 100

// AuditLogUsecase は管理者操作ログの照会です。追記は各usecaseが行う。
type AuditLogUsecase struct {
	auditRepo repo.AuditLogRepository
}

// DI
func NewAuditLogUsecase(auditRepo repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{auditRepo: auditRepo}
}

func (u *AuditLogUsecase) List(ctx context.Context, limit int) ([]model.AuditLog, error) {
	if limit <= 0 {
		limit = auditLogDefaultLimit
	}

	logs, err := u.auditRepo.List(ctx, limit)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}
