package domain

import (
	"context"
	"time"
)

const (
	UserRegisteredEventType = "user.registered"
)

// UserRegisteredEvent 用户注册事件
type UserRegisteredEvent struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher 认证事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
