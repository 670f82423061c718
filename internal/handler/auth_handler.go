// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"
	"strings"

	"arch-market-go/internal/handler/respond"
	"arch-market-go/internal/middleware"
	"arch-market-go/internal/model"
	"arch-market-go/internal/service"
	"arch-market-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// AuthHandler 负责处理所有与认证相关的 API 请求。
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler 创建一个新的 AuthHandler 实例。
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest 定义了用户注册 API 的请求体结构。
type RegisterRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	// Role 省略时默认注册为客户；注册入口不允许自助注册管理员
	Role string `json:"role"`
}

// LoginResponse 定义了登录与注册成功后的响应载体。
type LoginResponse struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	User         model.Identity `json:"user"`
}

// Register 处理用户注册请求。
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Register: Invalid request payload, error: %v", err)
		respond.Error(c, http.StatusBadRequest, "无效的请求负载：姓名、邮箱和密码不能为空")
		return
	}

	role := model.RoleClient
	if req.Role != "" {
		parsed, err := model.ParseRole(req.Role)
		if err != nil || parsed == model.RoleAdmin {
			respond.Error(c, http.StatusBadRequest, "非法的注册角色")
			return
		}
		role = parsed
	}

	user, pair, err := h.authService.Register(req.FullName, req.Email, req.Password, role)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respond.Error(c, http.StatusConflict, "邮箱已被注册")
			return
		}
		log.Warnf("Register: registration failed for '%s', error: %v", req.Email, err)
		respond.Error(c, http.StatusInternalServerError, "注册失败")
		return
	}

	log.Infof("User '%s' registered successfully", user.Email)
	respond.Created(c, LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user.Identity(),
	})
}

// LoginRequest 定义了用户登录 API 的请求体结构。
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 处理用户登录请求。
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Login: Invalid request payload, error: %v", err)
		respond.Error(c, http.StatusBadRequest, "无效的请求负载：邮箱和密码不能为空")
		return
	}

	user, pair, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		log.Warnf("Login: authentication failed for '%s', error: %v", req.Email, err)
		respond.Error(c, http.StatusUnauthorized, "无效的凭证")
		return
	}

	log.Infof("User '%s' logged in successfully", user.Email)
	respond.OK(c, LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user.Identity(),
	})
}

// Me 返回当前登录用户的身份信息。
// 用户信息已经由 AuthMiddleware 注入到上下文中。
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respond.Error(c, http.StatusInternalServerError, "无法获取用户信息")
		return
	}
	respond.OK(c, user.Identity())
}

// Logout 处理用户登出逻辑。
func (h *AuthHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	if err := h.authService.Logout(c.Request.Context(), tokenString); err != nil {
		log.Error("Logout: Failed to logout", err)
		respond.Error(c, http.StatusInternalServerError, "登出失败")
		return
	}

	if user, ok := middleware.CurrentUser(c); ok {
		log.Infof("User '%s' logged out successfully", user.Email)
	}
	respond.OKMessage(c, "登出成功")
}

// RefreshRequest 定义了刷新 token API 的请求体结构。
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshToken 校验 refresh token 并签发新的 token 对。
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "无效的请求负载")
		return
	}

	pair, err := h.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		respond.Error(c, http.StatusUnauthorized, "无效或已过期的 refresh token")
		return
	}
	respond.OK(c, pair)
}
