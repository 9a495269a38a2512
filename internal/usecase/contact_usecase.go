package usecase

import (
	"context"
	"net/http"
	"net/mail"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// ContactUsecase はお問い合わせの受付と管理者向け一覧です。
type ContactUsecase struct {
	contactRepo repo.ContactMessageRepository
}

// DI
func NewContactUsecase(contactRepo repo.ContactMessageRepository) *ContactUsecase {
	return &ContactUsecase{contactRepo: contactRepo}
}

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Submit はお問い合わせを受け付ける。未ログインでも使える。
func (u *ContactUsecase) Submit(ctx context.Context, in ContactInput) (model.ContactMessage, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	message := strings.TrimSpace(in.Message)

	if name == "" {
		return model.ContactMessage{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return model.ContactMessage{}, NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if message == "" {
		return model.ContactMessage{}, NewHTTPError(http.StatusBadRequest, "message required")
	}

	msg, err := u.contactRepo.Create(ctx, model.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: strings.TrimSpace(in.Subject),
		Message: message,
	})
	if err != nil {
		return model.ContactMessage{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return msg, nil
}

// List は管理者向けの全件一覧（新しい順）。
func (u *ContactUsecase) List(ctx context.Context) ([]model.ContactMessage, error) {
	msgs, err := u.contactRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if msgs == nil {
		msgs = []model.ContactMessage{}
	}
	return msgs, nil
}
