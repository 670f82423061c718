package model

import "time"

// 项目状态的取值集合。
const (
	ProjectStatusDraft     = "draft"
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"
)

// Project 代表客户发起、建筑师承接的一个设计项目。
// 项目同时是项目级会话的访问边界：只有参与双方和管理员可以读写消息。
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"size:32;not null;default:'draft'" json:"status"`
	ClientID    uint      `gorm:"index;not null" json:"clientId"`
	ArchitectID uint      `gorm:"index" json:"architectId"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Project) TableName() string {
	return "projects"
}

// IsParticipant 判断给定用户是否为项目参与方。
func (p *Project) IsParticipant(userID uint) bool {
	return p.ClientID == userID || (p.ArchitectID != 0 && p.ArchitectID == userID)
}
