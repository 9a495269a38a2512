package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// ステータスの値として正しいか
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// 遷移表。DELIVERED/CANCELLEDは終端。
func CanTransition(from, to OrderStatus) bool {
	switch from {
	case OrderStatusPending:
		return to == OrderStatusShipped || to == OrderStatusDelivered || to == OrderStatusCancelled
	case OrderStatusShipped:
		return to == OrderStatusDelivered || to == OrderStatusCancelled
	default:
		return false
	}
}

// 注文に埋め込む配送先のコピー。住所帳への参照は持たない。
type ShippingAddress struct {
	Name    string `gorm:"type:varchar(255)" json:"name"`
	Email   string `gorm:"type:varchar(255)" json:"email"`
	Phone   string `gorm:"type:varchar(30)" json:"phone"`
	Address string `gorm:"type:varchar(500)" json:"address"`
	City    string `gorm:"type:varchar(100)" json:"city"`
	State   string `gorm:"type:varchar(100)" json:"state"`
	Zip     string `gorm:"type:varchar(20)" json:"zip"`
	Country string `gorm:"type:varchar(100)" json:"country"`
}

// 確定済み注文。作成後は明細を変更しない。
type Order struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64           `gorm:"not null;index" json:"user_id"`
	Status     OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalPrice decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"total_price"`

	Shipping ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`

	OrderDate time.Time `gorm:"not null;index" json:"order_date"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
