package handler

import (
	"net/http"

	"arch-market-go/internal/handler/respond"
	"arch-market-go/internal/middleware"
	"arch-market-go/internal/service"

	"github.com/gin-gonic/gin"
)

// ArchitectHandler 负责处理建筑师工作台相关的 API 请求。
type ArchitectHandler struct {
	architectService service.ArchitectService
}

// NewArchitectHandler 创建一个新的 ArchitectHandler 实例。
func NewArchitectHandler(architectService service.ArchitectService) *ArchitectHandler {
	return &ArchitectHandler{architectService: architectService}
}

// Earnings 返回当前建筑师的收益汇总。
func (h *ArchitectHandler) Earnings(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respond.Error(c, http.StatusInternalServerError, "无法获取用户信息")
		return
	}

	earnings, err := h.architectService.Earnings(user.ID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "获取收益信息失败")
		return
	}
	respond.OK(c, earnings)
}
