package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"arch-market-go/internal/model"

	"github.com/go-redis/redis/v8"
)

// MessageRepository 定义了会话消息的操作接口。
// 每个会话的全部消息以 JSON 数组的形式存储在单个 Redis key 下。
type MessageRepository interface {
	List(ctx context.Context, ref model.ConversationRef) ([]model.ChatMessage, error)
	Append(ctx context.Context, ref model.ConversationRef, msg model.ChatMessage) error
}

type redisMessageRepository struct {
	redisClient *redis.Client
	// historyLimit 为单个会话保留的最大消息条数
	historyLimit int
	// ttl 为会话 key 的过期时间，每次写入时续期
	ttl time.Duration
}

// NewMessageRepository 创建一个新的 MessageRepository 实例。
func NewMessageRepository(redisClient *redis.Client, historyLimit int, ttl time.Duration) MessageRepository {
	return &redisMessageRepository{
		redisClient:  redisClient,
		historyLimit: historyLimit,
		ttl:          ttl,
	}
}

// List 从 Redis 获取会话的全部消息，按追加顺序返回。
func (r *redisMessageRepository) List(ctx context.Context, ref model.ConversationRef) ([]model.ChatMessage, error) {
	key := "conversation:" + ref.Key()
	jsonData, err := r.redisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return []model.ChatMessage{}, nil // 会话尚无历史
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation history: %w", err)
	}
	var messages []model.ChatMessage
	if err := json.Unmarshal([]byte(jsonData), &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation history: %w", err)
	}
	return messages, nil
}

// Append 向会话追加一条消息并回写整个数组，超出上限时裁剪最旧的部分。
func (r *redisMessageRepository) Append(ctx context.Context, ref model.ConversationRef, msg model.ChatMessage) error {
	messages, err := r.List(ctx, ref)
	if err != nil {
		return err
	}
	messages = append(messages, msg)
	if r.historyLimit > 0 && len(messages) > r.historyLimit {
		messages = messages[len(messages)-r.historyLimit:]
	}

	jsonData, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation history: %w", err)
	}
	key := "conversation:" + ref.Key()
	if err := r.redisClient.Set(ctx, key, jsonData, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save conversation history: %w", err)
	}
	return nil
}
