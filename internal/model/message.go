package model

import (
	"strconv"
	"strings"
	"time"
)

// PendingIDPrefix 是客户端本地占位消息 ID 的前缀。
// 带该前缀的消息尚未得到服务端确认，服务端永远不会签发这样的 ID。
const PendingIDPrefix = "temp-"

// ChatMessage 代表会话中的一条消息，持久化为 Redis 中按会话 key 存储的 JSON 数组。
type ChatMessage struct {
	// ID 由服务端签发；客户端在确认前使用 temp- 前缀的本地占位 ID
	ID string `json:"id"`
	// ClientRef 是客户端生成的幂等引用，服务端原样回显，
	// 供轮询端在刷新快照时识别尚未确认的本地消息
	ClientRef  string    `json:"clientRef,omitempty"`
	SenderID   uint      `json:"senderId"`
	SenderName string    `json:"senderName"`
	SenderRole string    `json:"senderRole"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Pending 判断该消息是否为尚未确认的本地占位消息。
func (m ChatMessage) Pending() bool {
	return strings.HasPrefix(m.ID, PendingIDPrefix)
}

// ConversationRef 标识一个会话的归属：项目级会话或角色大厅。
// 两种会话共用同一套存储，只是访问边界不同。
type ConversationRef struct {
	// ProjectID 非零时表示项目级会话
	ProjectID uint
	// LobbyID 非空时表示角色大厅会话，取值为 client-lobby / architect-lobby / admin-lobby
	LobbyID string
}

// ProjectConversation 构造项目级会话引用。
func ProjectConversation(projectID uint) ConversationRef {
	return ConversationRef{ProjectID: projectID}
}

// LobbyConversation 构造大厅会话引用。
func LobbyConversation(lobbyID string) ConversationRef {
	return ConversationRef{LobbyID: lobbyID}
}

// Key 返回该会话在存储层使用的唯一键。
func (r ConversationRef) Key() string {
	if r.ProjectID != 0 {
		return "project:" + strconv.FormatUint(uint64(r.ProjectID), 10)
	}
	return "lobby:" + r.LobbyID
}
