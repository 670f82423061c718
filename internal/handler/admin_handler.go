package handler

import (
	"errors"
	"net/http"

	"arch-market-go/internal/handler/respond"
	"arch-market-go/internal/service"
	"arch-market-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// AdminHandler 负责处理管理端的 API 请求。
// 路由层已通过 RequireRole(Admin) 保证调用者是管理员。
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler 创建一个新的 AdminHandler 实例。
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers 返回全部用户列表。
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "获取用户列表失败")
		return
	}
	respond.OK(c, users)
}

// ListServices 返回全部服务项目。
func (h *AdminHandler) ListServices(c *gin.Context) {
	services, err := h.adminService.ListServices()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "获取服务列表失败")
		return
	}
	respond.OK(c, services)
}

// SaveServiceRequest 定义了新建服务 API 的请求体结构。
type SaveServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}

// SaveService 新建一项服务。
func (h *AdminHandler) SaveService(c *gin.Context) {
	var req SaveServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "无效的请求负载：服务名称和价格不能为空")
		return
	}

	offering, err := h.adminService.SaveService(req.Name, req.Description, req.Price)
	if err != nil {
		log.Warnf("SaveService: failed, error: %v", err)
		respond.Error(c, http.StatusInternalServerError, "保存服务失败")
		return
	}
	respond.Created(c, offering)
}

// ListPayments 返回全部支付记录。
func (h *AdminHandler) ListPayments(c *gin.Context) {
	payments, err := h.adminService.ListPayments()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "获取支付列表失败")
		return
	}
	respond.OK(c, payments)
}

// RecordPaymentRequest 定义了登记支付结果 API 的请求体结构。
type RecordPaymentRequest struct {
	ProjectID   uint    `json:"projectId"`
	ClientID    uint    `json:"clientId" binding:"required"`
	ArchitectID uint    `json:"architectId"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Status      string  `json:"status" binding:"required"`
}

// RecordPayment 登记一笔外部网关完成的支付结果。
func (h *AdminHandler) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "无效的请求负载：客户、金额和状态不能为空")
		return
	}

	payment, err := h.adminService.RecordPayment(req.ProjectID, req.ClientID, req.ArchitectID, req.Amount, req.Status)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPaymentStatus) {
			respond.Error(c, http.StatusBadRequest, "非法的支付状态")
			return
		}
		log.Warnf("RecordPayment: failed, error: %v", err)
		respond.Error(c, http.StatusInternalServerError, "登记支付失败")
		return
	}
	respond.Created(c, payment)
}

// PaymentSummary 返回支付汇总报表。
func (h *AdminHandler) PaymentSummary(c *gin.Context) {
	summary, err := h.adminService.PaymentSummary()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "获取支付汇总失败")
		return
	}
	respond.OK(c, summary)
}

// Report 返回平台 KPI 报表。
func (h *AdminHandler) Report(c *gin.Context) {
	report, err := h.adminService.Report()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "获取报表失败")
		return
	}
	respond.OK(c, report)
}
