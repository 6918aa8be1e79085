package domain

import (
	"context"
	"time"
)

const (
	CartCreatedEventType     = "cart.created"
	CartItemAddedEventType   = "cart.item.added"
	CartItemRemovedEventType = "cart.item.removed"
)

// CartCreatedEvent 购物车创建事件
type CartCreatedEvent struct {
	CartID    uint      `json:"cart_id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CartItemAddedEvent 条目加入事件
type CartItemAddedEvent struct {
	CartID    uint      `json:"cart_id"`
	UserID    string    `json:"user_id"`
	ProductID uint      `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
	Timestamp time.Time `json:"timestamp"`
}

// CartItemRemovedEvent 条目移除事件
type CartItemRemovedEvent struct {
	CartID    uint      `json:"cart_id"`
	UserID    string    `json:"user_id"`
	ProductID uint      `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher 购物车事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
