package redis

import (
	"context"
	"time"

	"github.com/wyfcoding/electronicsstore/internal/cart/domain"
	"github.com/wyfcoding/electronicsstore/pkg/cache"
)

const guestKeyPrefix = "cart:guest:"

// GuestSessionRepositoryImpl 游客会话仓储的 Redis 实现
type GuestSessionRepositoryImpl struct {
	cache *cache.RedisCache
}

// NewGuestSessionRepository 创建游客会话仓储实例
func NewGuestSessionRepository(cache *cache.RedisCache) domain.GuestSessionRepository {
	return &GuestSessionRepositoryImpl{cache: cache}
}

func (r *GuestSessionRepositoryImpl) Touch(ctx context.Context, guestID string, ttl time.Duration) error {
	return r.cache.Set(ctx, guestKeyPrefix+guestID, "1", ttl)
}

func (r *GuestSessionRepositoryImpl) Exists(ctx context.Context, guestID string) (bool, error) {
	count, err := r.cache.Exists(ctx, guestKeyPrefix+guestID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
