package model

import "time"

// 工单状态的取值集合。
const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in-progress"
	TicketStatusClosed     = "closed"
)

// ValidTicketStatus 判断给定字符串是否为合法的工单状态。
func ValidTicketStatus(s string) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}

// Ticket 代表用户提交的一条支持工单，由管理员在后台处理。
type Ticket struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index;not null" json:"userId"`
	// FromUser 冗余存储提交人的姓名，列表展示无需联表
	FromUser  string    `gorm:"size:128;not null" json:"fromUser"`
	Subject   string    `gorm:"size:256;not null" json:"subject"`
	Message   string    `gorm:"type:text" json:"message"`
	Status    string    `gorm:"size:32;not null;default:'open'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Ticket) TableName() string {
	return "tickets"
}
