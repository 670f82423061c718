package handler

import (
	"errors"
	"net/http"
	"strconv"

	"arch-market-go/internal/handler/respond"
	"arch-market-go/internal/middleware"
	"arch-market-go/internal/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler 负责处理项目会话与大厅会话的消息请求。
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler 创建一个新的 ChatHandler 实例。
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// SendMessageRequest 定义了发送消息 API 的请求体结构。
// clientRef 由客户端生成、服务端原样回显，用于轮询端对账。
type SendMessageRequest struct {
	Text      string `json:"text" binding:"required"`
	ClientRef string `json:"clientRef"`
}

// ProjectMessages 返回项目会话的全部消息。
func (h *ChatHandler) ProjectMessages(c *gin.Context) {
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

	messages, err := h.chatService.ProjectMessages(c.Request.Context(), user, projectID)
	if err != nil {
		h.renderChatError(c, err)
		return
	}
	respond.OK(c, messages)
}

// SendProjectMessage 向项目会话发送一条消息。
func (h *ChatHandler) SendProjectMessage(c *gin.Context) {
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

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "消息内容不能为空")
		return
	}

	msg, err := h.chatService.SendProjectMessage(c.Request.Context(), user, projectID, req.Text, req.ClientRef)
	if err != nil {
		h.renderChatError(c, err)
		return
	}
	respond.Created(c, msg)
}

// LobbyMessages 返回角色大厅会话的全部消息。
func (h *ChatHandler) LobbyMessages(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respond.Error(c, http.StatusInternalServerError, "无法获取用户信息")
		return
	}

	messages, err := h.chatService.LobbyMessages(c.Request.Context(), user, c.Param("conversationId"))
	if err != nil {
		h.renderChatError(c, err)
		return
	}
	respond.OK(c, messages)
}

// SendLobbyMessage 向角色大厅会话发送一条消息。
func (h *ChatHandler) SendLobbyMessage(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respond.Error(c, http.StatusInternalServerError, "无法获取用户信息")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "消息内容不能为空")
		return
	}

	msg, err := h.chatService.SendLobbyMessage(c.Request.Context(), user, c.Param("conversationId"), req.Text, req.ClientRef)
	if err != nil {
		h.renderChatError(c, err)
		return
	}
	respond.Created(c, msg)
}

// renderChatError 将会话业务错误映射为对应的 HTTP 状态码。
func (h *ChatHandler) renderChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		respond.Error(c, http.StatusForbidden, "无权访问该会话")
	case errors.Is(err, service.ErrProjectNotFound):
		respond.Error(c, http.StatusNotFound, "项目不存在")
	case errors.Is(err, service.ErrUnknownLobby):
		respond.Error(c, http.StatusNotFound, "未知的大厅会话")
	case errors.Is(err, service.ErrEmptyMessage):
		respond.Error(c, http.StatusBadRequest, "消息内容不能为空")
	default:
		respond.Error(c, http.StatusInternalServerError, "会话服务暂不可用")
	}
}

// parseUintParam 解析路径参数中的无符号整数 ID。
func parseUintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(v), nil
}
