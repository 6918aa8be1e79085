package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/wyfcoding/electronicsstore/internal/auth/domain"
	"github.com/wyfcoding/electronicsstore/pkg/cache"
)

const sessionKeyPrefix = "auth:session:"

// SessionRepositoryImpl 会话仓储的 Redis 实现
type SessionRepositoryImpl struct {
	cache *cache.RedisCache
}

// NewSessionRepository 创建会话仓储实例
func NewSessionRepository(cache *cache.RedisCache) domain.SessionRepository {
	return &SessionRepositoryImpl{cache: cache}
}

func (r *SessionRepositoryImpl) Save(ctx context.Context, session *domain.AuthSession, ttl time.Duration) error {
	return r.cache.SetJSON(ctx, sessionKeyPrefix+session.Token, session, ttl)
}

func (r *SessionRepositoryImpl) Get(ctx context.Context, token string) (*domain.AuthSession, error) {
	data, err := r.cache.Client().Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	var session domain.AuthSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepositoryImpl) Delete(ctx context.Context, token string) error {
	return r.cache.Delete(ctx, sessionKeyPrefix+token)
}
