package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ログイン方法（自社 or Google）
type Provider string

const (
	ProviderLocal  Provider = "LOCAL"
	ProviderGoogle Provider = "GOOGLE"
)

type User struct {
	ID           int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string   `gorm:"type:varchar(255);not null" json:"name"`
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"column:password_hash;not null" json:"-"`
	Phone        string   `gorm:"type:varchar(30);uniqueIndex" json:"phone"`
	Role         Role     `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	Provider     Provider `gorm:"type:varchar(20);not null;default:'LOCAL'" json:"provider"`

	//OTP認証済みか
	Verified bool `gorm:"not null;default:false" json:"verified"`

	//管理者が停止したユーザーはログイン不可
	Active bool `gorm:"not null;default:true" json:"active"`

	//パスワード再設定トークン（未発行ならnil）
	ResetToken       *string    `gorm:"type:varchar(64);index" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
