package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenDenylist 定义了登出 token 黑名单的操作接口。
// 登出后的 access token 在其剩余有效期内被拒绝。
type TokenDenylist interface {
	Add(ctx context.Context, token string, ttl time.Duration) error
	Contains(ctx context.Context, token string) (bool, error)
}

type redisTokenDenylist struct {
	redisClient *redis.Client
}

// NewTokenDenylist 创建一个新的 TokenDenylist 实例。
func NewTokenDenylist(redisClient *redis.Client) TokenDenylist {
	return &redisTokenDenylist{redisClient: redisClient}
}

func (r *redisTokenDenylist) Add(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// token 已过期，无需入黑名单
		return nil
	}
	return r.redisClient.Set(ctx, "blacklist:"+token, "true", ttl).Err()
}

func (r *redisTokenDenylist) Contains(ctx context.Context, token string) (bool, error) {
	_, err := r.redisClient.Get(ctx, "blacklist:"+token).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token denylist: %w", err)
	}
	return true, nil
}
