package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"arch-market-go/internal/model"
	"arch-market-go/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrForbidden 表示当前用户无权访问目标会话。
	ErrForbidden = errors.New("无权访问该会话")
	// ErrEmptyMessage 表示消息正文为空。
	ErrEmptyMessage = errors.New("消息内容不能为空")
	// ErrProjectNotFound 表示项目不存在。
	ErrProjectNotFound = errors.New("项目不存在")
	// ErrUnknownLobby 表示大厅会话 ID 不合法。
	ErrUnknownLobby = errors.New("未知的大厅会话")
)

// ChatService 接口定义了项目会话与大厅会话的消息操作。
// 两类会话共用同一套消息存储，只是访问边界不同。
type ChatService interface {
	ProjectMessages(ctx context.Context, user *model.User, projectID uint) ([]model.ChatMessage, error)
	SendProjectMessage(ctx context.Context, user *model.User, projectID uint, text, clientRef string) (*model.ChatMessage, error)
	LobbyMessages(ctx context.Context, user *model.User, lobbyID string) ([]model.ChatMessage, error)
	SendLobbyMessage(ctx context.Context, user *model.User, lobbyID, text, clientRef string) (*model.ChatMessage, error)
}

type chatService struct {
	messageRepo repository.MessageRepository
	projectRepo repository.ProjectRepository
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(messageRepo repository.MessageRepository, projectRepo repository.ProjectRepository) ChatService {
	return &chatService{
		messageRepo: messageRepo,
		projectRepo: projectRepo,
	}
}

// ProjectMessages 返回项目会话的全部消息。
// 仅项目参与双方与管理员可读。
func (s *chatService) ProjectMessages(ctx context.Context, user *model.User, projectID uint) ([]model.ChatMessage, error) {
	if err := s.checkProjectAccess(user, projectID); err != nil {
		return nil, err
	}
	return s.messageRepo.List(ctx, model.ProjectConversation(projectID))
}

// SendProjectMessage 向项目会话追加一条消息并返回服务端确认的记录。
func (s *chatService) SendProjectMessage(ctx context.Context, user *model.User, projectID uint, text, clientRef string) (*model.ChatMessage, error) {
	if err := s.checkProjectAccess(user, projectID); err != nil {
		return nil, err
	}
	return s.append(ctx, model.ProjectConversation(projectID), user, text, clientRef)
}

// LobbyMessages 返回角色大厅会话的全部消息。
// 普通用户只能读取本角色的大厅，管理员可读取任意大厅。
func (s *chatService) LobbyMessages(ctx context.Context, user *model.User, lobbyID string) ([]model.ChatMessage, error) {
	if err := checkLobbyAccess(user, lobbyID); err != nil {
		return nil, err
	}
	return s.messageRepo.List(ctx, model.LobbyConversation(lobbyID))
}

// SendLobbyMessage 向角色大厅会话追加一条消息。
func (s *chatService) SendLobbyMessage(ctx context.Context, user *model.User, lobbyID, text, clientRef string) (*model.ChatMessage, error) {
	if err := checkLobbyAccess(user, lobbyID); err != nil {
		return nil, err
	}
	return s.append(ctx, model.LobbyConversation(lobbyID), user, text, clientRef)
}

// append 构造服务端消息记录并持久化。clientRef 原样回显，
// 供客户端在轮询刷新时与本地待确认消息对账。
func (s *chatService) append(ctx context.Context, ref model.ConversationRef, user *model.User, text, clientRef string) (*model.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	msg := model.ChatMessage{
		ID:         uuid.NewString(),
		ClientRef:  clientRef,
		SenderID:   user.ID,
		SenderName: user.FullName,
		SenderRole: user.Role.Lower(),
		Text:       text,
		CreatedAt:  time.Now(),
	}
	if err := s.messageRepo.Append(ctx, ref, msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// checkProjectAccess 校验用户对项目会话的访问权限。
func (s *chatService) checkProjectAccess(user *model.User, projectID uint) error {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	if user.Role == model.RoleAdmin {
		return nil
	}
	if !project.IsParticipant(user.ID) {
		return ErrForbidden
	}
	return nil
}

// checkLobbyAccess 校验用户对大厅会话的访问权限。
func checkLobbyAccess(user *model.User, lobbyID string) error {
	switch lobbyID {
	case model.RoleClient.LobbyConversationID(),
		model.RoleArchitect.LobbyConversationID(),
		model.RoleAdmin.LobbyConversationID():
	default:
		return ErrUnknownLobby
	}
	if user.Role == model.RoleAdmin {
		return nil
	}
	if user.Role.LobbyConversationID() != lobbyID {
		return ErrForbidden
	}
	return nil
}
