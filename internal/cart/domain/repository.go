package domain

import (
	"context"
	"time"
)

// CartRepository 购物车仓储接口
type CartRepository interface {
	Save(ctx context.Context, cart *Cart) error
	// GetByUserID 根据用户标识获取购物车（含条目），未找到返回 ErrCartNotFound
	GetByUserID(ctx context.Context, userID string) (*Cart, error)
	SaveItem(ctx context.Context, item *CartItem) error
	// Touch 刷新购物车行的 updated_at，条目变更后调用
	Touch(ctx context.Context, cartID uint) error
	DeleteItem(ctx context.Context, cartID, productID uint) error
	// DeleteItems 清空购物车条目，下单成功后调用
	DeleteItems(ctx context.Context, cartID uint) error
	// CountItems 购物车商品总件数，购物车不存在时返回 0
	CountItems(ctx context.Context, userID string) (int, error)
}

// GuestSessionRepository 游客会话仓储接口，维护游客标识的空闲过期
type GuestSessionRepository interface {
	// Touch 写入或续期游客标识
	Touch(ctx context.Context, guestID string, ttl time.Duration) error
	// Exists 游客标识是否仍然有效
	Exists(ctx context.Context, guestID string) (bool, error)
}
