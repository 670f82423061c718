package middleware

import (
	"net/http"

	"arch-market-go/internal/handler/respond"
	"arch-market-go/internal/model"

	"github.com/gin-gonic/gin"
)

// RequireRole 检查当前用户是否具有指定角色。
// 此中间件必须在 AuthMiddleware 之后使用。
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从 AuthMiddleware 设置的上下文中获取 user 对象
		user, exists := c.Get("user")
		if !exists {
			// user 对象不存在说明 AuthMiddleware 未能成功解析，这是一个服务器内部错误
			respond.Abort(c, http.StatusInternalServerError, "无法获取用户信息")
			return
		}

		currentUser, ok := user.(*model.User)
		if !ok {
			respond.Abort(c, http.StatusInternalServerError, "用户数据类型错误")
			return
		}

		if currentUser.Role != role {
			respond.Abort(c, http.StatusForbidden, "权限不足")
			return
		}

		c.Next()
	}
}

// CurrentUser 从上下文中取出 AuthMiddleware 注入的用户对象。
func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok && user != nil
}
