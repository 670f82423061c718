// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"net/http"
	"strings"

	"arch-market-go/internal/handler/respond"
	"arch-market-go/internal/service"
	"arch-market-go/pkg/token"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 创建一个 Gin 中间件，用于 JWT 认证。
// 它会从请求头中提取 token，验证其有效性与黑名单状态，
// 并将完整的 User 对象存入 Gin 的上下文中。
func AuthMiddleware(jwtManager *token.JWTManager, authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从 Authorization 请求头中获取 token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respond.Abort(c, http.StatusUnauthorized, "请求未包含授权头")
			return
		}

		// Token 以 "Bearer <token>" 的形式提供，提取出 token 本身
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			respond.Abort(c, http.StatusUnauthorized, "无效的授权头格式")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)

		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			respond.Abort(c, http.StatusUnauthorized, "无效或已过期的 token")
			return
		}

		// 登出后的 token 即使未过期也一律拒绝
		denied, err := authService.TokenDenied(c.Request.Context(), tokenString)
		if err != nil || denied {
			respond.Abort(c, http.StatusUnauthorized, "无效或已过期的 token")
			return
		}

		// 使用 claims 中的用户 ID 从数据库获取完整的用户信息；
		// 身份永远以后端当前视图为准，不信任 token 中缓存的角色之外的数据
		user, err := authService.GetUser(claims.UserID)
		if err != nil {
			// 根据 token 中的用户信息无法找到用户，说明该用户可能已被删除
			respond.Abort(c, http.StatusUnauthorized, "用户不存在")
			return
		}

		// 将完整的 User 对象存储在 context 中，供后续处理函数使用
		c.Set("user", user)
		c.Set("token", tokenString)
		c.Set("claims", claims)

		c.Next()
	}
}
