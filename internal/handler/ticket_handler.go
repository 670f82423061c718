package handler

import (
	"errors"
	"net/http"

	"arch-market-go/internal/handler/respond"
	"arch-market-go/internal/middleware"
	"arch-market-go/internal/service"

	"github.com/gin-gonic/gin"
)

// TicketHandler 负责处理支持工单相关的 API 请求。
// 提交对所有已登录用户开放，列表与状态更新仅限管理员。
type TicketHandler struct {
	ticketService service.TicketService
}

// NewTicketHandler 创建一个新的 TicketHandler 实例。
func NewTicketHandler(ticketService service.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// CreateTicketRequest 定义了提交工单 API 的请求体结构。
type CreateTicketRequest struct {
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message"`
}

// Create 由当前用户提交一条工单。
func (h *TicketHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respond.Error(c, http.StatusInternalServerError, "无法获取用户信息")
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "无效的请求负载：工单主题不能为空")
		return
	}

	ticket, err := h.ticketService.Create(user, req.Subject, req.Message)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "提交工单失败")
		return
	}
	respond.Created(c, ticket)
}

// List 返回全部工单。
func (h *TicketHandler) List(c *gin.Context) {
	tickets, err := h.ticketService.ListAll()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "获取工单列表失败")
		return
	}
	respond.OK(c, tickets)
}

// UpdateStatusTicketRequest 定义了更新工单状态 API 的请求体结构。
type UpdateStatusTicketRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus 更新一条工单的状态。
func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	ticketID, err := parseUintParam(c, "id")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "非法的工单 ID")
		return
	}

	var req UpdateStatusTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "无效的请求负载：状态不能为空")
		return
	}

	ticket, err := h.ticketService.UpdateStatus(ticketID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTicketStatus):
			respond.Error(c, http.StatusBadRequest, "非法的工单状态")
		case errors.Is(err, service.ErrTicketNotFound):
			respond.Error(c, http.StatusNotFound, "工单不存在")
		default:
			respond.Error(c, http.StatusInternalServerError, "更新工单状态失败")
		}
		return
	}
	respond.OK(c, ticket)
}
