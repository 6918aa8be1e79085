package domain

import "errors"

var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidStatus 非法订单状态
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidTransition 订单状态机不允许的迁移
	ErrInvalidTransition = errors.New("invalid order status transition")
)
