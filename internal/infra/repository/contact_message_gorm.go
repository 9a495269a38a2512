package repository

import (
	"app/internal/domain/model"
	"context"

	"gorm.io/gorm"
)

type ContactMessageGormRepository struct {
	db *gorm.DB
}

// DI
func NewContactMessageGormRepository(db *gorm.DB) *ContactMessageGormRepository {
	return &ContactMessageGormRepository{db: db}
}

func (r *ContactMessageGormRepository) Create(ctx context.Context, msg model.ContactMessage) (model.ContactMessage, error) {
	if err := r.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return model.ContactMessage{}, err
	}
	return msg, nil
}

// 新しい順
func (r *ContactMessageGormRepository) List(ctx context.Context) ([]model.ContactMessage, error) {
	var msgs []model.ContactMessage

	if err := r.db.WithContext(ctx).Order("id desc").Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}
