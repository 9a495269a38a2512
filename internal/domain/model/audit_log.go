package model

import "time"

// 監査ログ（管理者操作ログ）。追記のみ。
// 「誰が」「何を」「いつ」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作した管理者のメール
	PerformedBy string `gorm:"type:varchar(255);not null;index" json:"performed_by"`

	//操作の内容（UPDATE_ORDER_STATUS / RESET_USER_PASSWORD など）
	Action string `gorm:"type:varchar(255);not null" json:"action"`

	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}
