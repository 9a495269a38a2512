package usecase

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
	auth "app/internal/usecase/auth_usecase"

	"github.com/rs/zerolog"
)

// UserAdminUsecase は管理者によるユーザー管理です。
// 変更系の操作は毎回監査ログを残す。
type UserAdminUsecase struct {
	userRepo  repo.UserRepository
	auditRepo repo.AuditLogRepository
	hasher    auth.PasswordHasher
	logger    zerolog.Logger
}

// DI
func NewUserAdminUsecase(
	userRepo repo.UserRepository,
	auditRepo repo.AuditLogRepository,
	hasher auth.PasswordHasher,
	logger zerolog.Logger,
) *UserAdminUsecase {
	return &UserAdminUsecase{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		hasher:    hasher,
		logger:    logger,
	}
}

type AdminUserResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Provider string `json:"provider"`
	Verified bool   `json:"verified"`
	Active   bool   `json:"active"`
}

func (u *UserAdminUsecase) ListUsers(ctx context.Context) ([]AdminUserResponse, error) {
	users, err := u.userRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]AdminUserResponse, 0, len(users))
	for i := range users {
		out = append(out, toAdminUserResponse(&users[i]))
	}
	return out, nil
}

func (u *UserAdminUsecase) GetUser(ctx context.Context, userID int64) (AdminUserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return AdminUserResponse{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return AdminUserResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toAdminUserResponse(user), nil
}

// SearchUsers はメールの部分一致検索。
func (u *UserAdminUsecase) SearchUsers(ctx context.Context, emailFragment string) ([]AdminUserResponse, error) {
	q := strings.TrimSpace(emailFragment)
	if q == "" {
		return u.ListUsers(ctx)
	}

	users, err := u.userRepo.SearchByEmail(ctx, q)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]AdminUserResponse, 0, len(users))
	for i := range users {
		out = append(out, toAdminUserResponse(&users[i]))
	}
	return out, nil
}

// SetActive はユーザーの有効/停止の切り替え。
func (u *UserAdminUsecase) SetActive(ctx context.Context, performedBy string, userID int64, active bool) (AdminUserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return AdminUserResponse{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return AdminUserResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	user.Active = active
	if err := u.userRepo.Update(ctx, user); err != nil {
		return AdminUserResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	action := "Deactivated user " + strconv.FormatInt(userID, 10)
	if active {
		action = "Activated user " + strconv.FormatInt(userID, 10)
	}
	u.writeAudit(ctx, performedBy, action)

	return toAdminUserResponse(user), nil
}

// SetVerified は認証フラグの切り替え（OTPが届かないユーザーの救済用）。
func (u *UserAdminUsecase) SetVerified(ctx context.Context, performedBy string, userID int64, verified bool) (AdminUserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return AdminUserResponse{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return AdminUserResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	user.Verified = verified
	if err := u.userRepo.Update(ctx, user); err != nil {
		return AdminUserResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.writeAudit(ctx, performedBy, "Set verified="+strconv.FormatBool(verified)+" for user "+strconv.FormatInt(userID, 10))

	return toAdminUserResponse(user), nil
}

// ResetPassword は管理者によるパスワードの強制再設定。
func (u *UserAdminUsecase) ResetPassword(ctx context.Context, performedBy string, userID int64, newPassword string) error {
	if len(newPassword) < 8 {
		return NewHTTPError(http.StatusBadRequest, "password too short")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	hashed, err := u.hasher.Hash(newPassword)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "hash error")
	}

	user.PasswordHash = hashed
	user.ResetToken = nil
	user.ResetTokenExpiry = nil
	if err := u.userRepo.Update(ctx, user); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.writeAudit(ctx, performedBy, "Reset password for user "+strconv.FormatInt(userID, 10))
	return nil
}

func (u *UserAdminUsecase) writeAudit(ctx context.Context, performedBy, action string) {
	//監査ログの書き込み失敗で本処理は失敗させない（警告だけ残す）
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		PerformedBy: performedBy,
		Action:      action,
	}); err != nil {
		u.logger.Warn().Err(err).Str("action", action).Msg("audit log write failed")
	}
}

func toAdminUserResponse(u *model.User) AdminUserResponse {
	return AdminUserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     string(u.Role),
		Provider: string(u.Provider),
		Verified: u.Verified,
		Active:   u.Active,
	}
}
