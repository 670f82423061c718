package handler

import (
	"errors"
	"net/http"
	"time"

	"arch-market-go/internal/handler/respond"
	"arch-market-go/internal/middleware"
	"arch-market-go/internal/model"
	"arch-market-go/internal/service"

	"github.com/gin-gonic/gin"
)

// ConsultationHandler 负责处理咨询预约相关的 API 请求。
type ConsultationHandler struct {
	consultationService service.ConsultationService
}

// NewConsultationHandler 创建一个新的 ConsultationHandler 实例。
func NewConsultationHandler(consultationService service.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{consultationService: consultationService}
}

// BookRequest 定义了预约咨询 API 的请求体结构。
type BookRequest struct {
	ArchitectID uint      `json:"architectId" binding:"required"`
	ServiceID   uint      `json:"serviceId"`
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
	Notes       string    `json:"notes"`
}

// Book 由客户预约一次咨询。
func (h *ConsultationHandler) Book(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respond.Error(c, http.StatusInternalServerError, "无法获取用户信息")
		return
	}
	if user.Role != model.RoleClient {
		respond.Error(c, http.StatusForbidden, "只有客户可以预约咨询")
		return
	}

	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "无效的请求负载：建筑师和预约时间不能为空")
		return
	}

	consultation, err := h.consultationService.Book(user, req.ArchitectID, req.ServiceID, req.ScheduledAt, req.Notes)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	respond.Created(c, consultation)
}

// ListForClient 返回当前客户的全部咨询预约。
func (h *ConsultationHandler) ListForClient(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respond.Error(c, http.StatusInternalServerError, "无法获取用户信息")
		return
	}

	list, err := h.consultationService.ListForClient(user.ID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "获取咨询列表失败")
		return
	}
	respond.OK(c, list)
}

// ListForArchitect 返回指定建筑师的咨询预约。
func (h *ConsultationHandler) ListForArchitect(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respond.Error(c, http.StatusInternalServerError, "无法获取用户信息")
		return
	}
	architectID, err := parseUintParam(c, "architectId")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "非法的建筑师 ID")
		return
	}

	list, err := h.consultationService.ListForArchitect(user, architectID)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			respond.Error(c, http.StatusForbidden, "只能查看自己的咨询预约")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "获取咨询列表失败")
		return
	}
	respond.OK(c, list)
}

// UpdateStatusRequest 定义了更新咨询状态 API 的请求体结构。
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus 更新一条咨询预约的状态。
func (h *ConsultationHandler) UpdateStatus(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respond.Error(c, http.StatusInternalServerError, "无法获取用户信息")
		return
	}
	consultationID, err := parseUintParam(c, "id")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "非法的咨询 ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "无效的请求负载：状态不能为空")
		return
	}

	consultation, err := h.consultationService.UpdateStatus(user, consultationID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			respond.Error(c, http.StatusBadRequest, "非法的咨询状态")
		case errors.Is(err, service.ErrConsultationNotFound):
			respond.Error(c, http.StatusNotFound, "咨询预约不存在")
		case errors.Is(err, service.ErrForbidden):
			respond.Error(c, http.StatusForbidden, "无权更新该咨询")
		default:
			respond.Error(c, http.StatusInternalServerError, "更新咨询状态失败")
		}
		return
	}
	respond.OK(c, consultation)
}
