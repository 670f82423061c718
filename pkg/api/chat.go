package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"arch-market-go/internal/model"
)

// ConversationTarget 指向一个可轮询的会话：项目会话或大厅会话。
// 轮询端对两种会话一视同仁，只是请求的路径不同。
type ConversationTarget struct {
	ProjectID uint
	LobbyID   string
}

// path 返回该会话的消息端点路径。
func (t ConversationTarget) path() string {
	if t.ProjectID != 0 {
		return "/projects/" + strconv.FormatUint(uint64(t.ProjectID), 10) + "/messages"
	}
	return "/chat/" + t.LobbyID
}

// String 返回可读的会话标识，用于日志。
func (t ConversationTarget) String() string {
	if t.ProjectID != 0 {
		return fmt.Sprintf("project:%d", t.ProjectID)
	}
	return t.LobbyID
}

// Messages 拉取会话的完整消息序列。服务端对已确认消息具有权威性。
func (c *Client) Messages(ctx context.Context, token string, target ConversationTarget) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	if err := c.do(ctx, http.MethodGet, target.path(), token, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage 向会话发送一条消息。clientRef 由调用方生成，
// 服务端会在持久化的消息记录中原样回显它。
func (c *Client) SendMessage(ctx context.Context, token string, target ConversationTarget, text, clientRef string) (*model.ChatMessage, error) {
	var msg model.ChatMessage
	body := map[string]string{"text": text, "clientRef": clientRef}
	if err := c.do(ctx, http.MethodPost, target.path(), token, body, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
