package handler

import (
	"errors"
	"net/http"

	"arch-market-go/internal/handler/respond"
	"arch-market-go/internal/middleware"
	"arch-market-go/internal/model"
	"arch-market-go/internal/service"
	"arch-market-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// ProjectHandler 负责处理项目相关的 API 请求。
type ProjectHandler struct {
	projectService service.ProjectService
}

// NewProjectHandler 创建一个新的 ProjectHandler 实例。
func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProjectRequest 定义了创建项目 API 的请求体结构。
type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ArchitectID uint   `json:"architectId"`
}

// Create 由客户创建一个新项目。
func (h *ProjectHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respond.Error(c, http.StatusInternalServerError, "无法获取用户信息")
		return
	}
	if user.Role != model.RoleClient {
		respond.Error(c, http.StatusForbidden, "只有客户可以创建项目")
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "无效的请求负载：项目标题不能为空")
		return
	}

	project, err := h.projectService.Create(user, req.Title, req.Description, req.ArchitectID)
	if err != nil {
		log.Warnf("CreateProject: failed for user %d, error: %v", user.ID, err)
		respond.Error(c, http.StatusInternalServerError, "创建项目失败")
		return
	}
	respond.Created(c, project)
}

// List 按当前用户的角色返回项目列表。
func (h *ProjectHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respond.Error(c, http.StatusInternalServerError, "无法获取用户信息")
		return
	}

	projects, err := h.projectService.ListFor(user)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "获取项目列表失败")
		return
	}
	respond.OK(c, projects)
}

// Get 返回单个项目详情。
func (h *ProjectHandler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respond.Error(c, http.StatusInternalServerError, "无法获取用户信息")
		return
	}
	projectID, err := parseUintParam(c, "projectId")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "非法的项目 ID")
		return
	}

	project, err := h.projectService.Get(user, projectID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProjectNotFound):
			respond.Error(c, http.StatusNotFound, "项目不存在")
		case errors.Is(err, service.ErrForbidden):
			respond.Error(c, http.StatusForbidden, "无权访问该项目")
		default:
			respond.Error(c, http.StatusInternalServerError, "获取项目失败")
		}
		return
	}
	respond.OK(c, project)
}
