package model

import "time"

// 商品レビュー。
// (product, user)につき1件まで。更新はしない（「評価済み」で拒否する）。
type ProductRating struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;uniqueIndex:idx_product_user" json:"product_id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_product_user" json:"user_id"`
	Stars     int       `gorm:"not null" json:"stars"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
