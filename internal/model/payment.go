package model

import "time"

// 支付状态的取值集合。支付的扣款流程由外部支付网关完成，
// 这里只记录结果用于报表与收益统计。
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

// ValidPaymentStatus 判断给定字符串是否为合法的支付状态。
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusSucceeded, PaymentStatusFailed:
		return true
	}
	return false
}

// Payment 代表一笔项目相关的支付记录。
type Payment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProjectID   uint      `gorm:"index" json:"projectId"`
	ClientID    uint      `gorm:"index;not null" json:"clientId"`
	ArchitectID uint      `gorm:"index" json:"architectId"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Status      string    `gorm:"size:32;not null;default:'pending'" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentSummary 是管理端支付汇总报表的载体。
type PaymentSummary struct {
	TotalRevenue   float64 `json:"totalRevenue"`
	SucceededCount int64   `json:"succeededCount"`
	FailedCount    int64   `json:"failedCount"`
}
