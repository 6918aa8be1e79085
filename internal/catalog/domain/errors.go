package domain

import "errors"

var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateSKU SKU 已存在
	ErrDuplicateSKU = errors.New("sku already exists")
	// ErrInsufficientStock 库存不足，条件扣减未命中任何行时返回
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidRating 评分超出 1-5 范围
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)
