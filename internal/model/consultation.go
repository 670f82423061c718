package model

import "time"

// 咨询预约状态的取值集合。
const (
	ConsultationStatusPending   = "pending"
	ConsultationStatusConfirmed = "confirmed"
	ConsultationStatusCompleted = "completed"
	ConsultationStatusCancelled = "cancelled"
)

// ValidConsultationStatus 判断给定字符串是否为合法的咨询状态。
func ValidConsultationStatus(s string) bool {
	switch s {
	case ConsultationStatusPending, ConsultationStatusConfirmed,
		ConsultationStatusCompleted, ConsultationStatusCancelled:
		return true
	}
	return false
}

// Consultation 代表客户向建筑师预约的一次咨询。
type Consultation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ClientID    uint      `gorm:"index;not null" json:"clientId"`
	ArchitectID uint      `gorm:"index;not null" json:"architectId"`
	ServiceID   uint      `gorm:"index" json:"serviceId"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Status      string    `gorm:"size:32;not null;default:'pending'" json:"status"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Consultation) TableName() string {
	return "consultations"
}
