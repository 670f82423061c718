package model

import (
	"fmt"
	"strings"
)

// Role 是系统中的封闭角色枚举。
// 角色以规范大小写存储（与数据库和 token 中一致），比较一律不区分大小写。
type Role string

const (
	RoleClient    Role = "Client"
	RoleArchitect Role = "Architect"
	RoleAdmin     Role = "Admin"
)

// ParseRole 将任意大小写的角色字符串解析为封闭枚举。
// 未知角色返回错误，调用方不得将其静默降级为任何默认角色。
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "client":
		return RoleClient, nil
	case "architect":
		return RoleArchitect, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("未知角色: %q", s)
	}
}

// Equals 不区分大小写地比较两个角色字符串。
func (r Role) Equals(other string) bool {
	return strings.EqualFold(string(r), other)
}

// Lower 返回角色的小写形式，用于路由拼接。
func (r Role) Lower() string {
	return strings.ToLower(string(r))
}

// DashboardRoute 返回角色对应的默认工作台路由，形如 /dashboard/{role}。
// 该映射对三个角色是全函数，不存在默认分支。
func (r Role) DashboardRoute() string {
	return "/dashboard/" + r.Lower()
}

// LandingRoute 返回登录成功后各角色的落地路由。
// 建筑师落地在 overview 子页，其余角色落地在工作台首页。
func (r Role) LandingRoute() string {
	switch r {
	case RoleArchitect:
		return "/dashboard/architect/overview"
	case RoleClient:
		return "/dashboard/client"
	case RoleAdmin:
		return "/dashboard/admin"
	}
	return "/"
}

// LobbyConversationID 返回角色专属大厅会话的固定 ID。
func (r Role) LobbyConversationID() string {
	return r.Lower() + "-lobby"
}
