package model

import "time"

// ServiceOffering 代表平台提供的一项可预约的建筑服务。
// 由管理员在后台维护。
type ServiceOffering struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (ServiceOffering) TableName() string {
	return "service_offerings"
}
