// Package model 包含了应用的数据模型定义。
package model

import "time"

// User 代表平台上的一个注册用户（客户、建筑师或管理员）。
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"size:128;not null" json:"fullName"`
	Email     string    `gorm:"size:128;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:128;not null" json:"-"`
	Role      Role      `gorm:"size:16;not null;default:'Client'" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// Identity 是对外暴露的用户身份信息，不携带任何敏感字段。
// 客户端会话守卫以它作为 /auth/me 的返回载体。
type Identity struct {
	ID       uint   `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Identity 将 User 转换为对外的身份载体。
func (u *User) Identity() Identity {
	return Identity{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     string(u.Role),
	}
}
