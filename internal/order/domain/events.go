package domain

import (
	"context"
	"time"
)

const (
	OrderPlacedEventType        = "order.placed"
	OrderStatusChangedEventType = "order.status.changed"
)

// OrderPlacedItem 下单事件中的条目摘要
type OrderPlacedItem struct {
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// OrderPlacedEvent 下单事件
type OrderPlacedEvent struct {
	OrderID     uint              `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	UserID      string            `json:"user_id"`
	TotalAmount string            `json:"total_amount"`
	Items       []OrderPlacedItem `json:"items"`
	Timestamp   time.Time         `json:"timestamp"`
}

// OrderStatusChangedEvent 订单状态变更事件
type OrderStatusChangedEvent struct {
	OrderID     uint        `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	FromStatus  OrderStatus `json:"from_status"`
	ToStatus    OrderStatus `json:"to_status"`
	Timestamp   time.Time   `json:"timestamp"`
}

// EventPublisher 订单事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
