package domain

import (
	"context"
	"time"
)

// OrderFilter 订单列表过滤条件
type OrderFilter struct {
	UserID string
	Status *OrderStatus
	// Search 匹配订单号或客户姓名
	Search string
	Offset int
	Limit  int
}

// RevenuePoint 按天汇总的营收
type RevenuePoint struct {
	Day     time.Time
	Orders  int64
	Revenue string
}

// TopProduct 销量排行条目
type TopProduct struct {
	ProductID   uint
	ProductName string
	Quantity    int64
	Revenue     string
}

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// WithTx 在单个数据库事务内执行 fn
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Save(ctx context.Context, order *Order) error
	// GetByID 根据 ID 获取订单（含条目），未找到返回 ErrOrderNotFound
	GetByID(ctx context.Context, id uint) (*Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*Order, int64, error)
	// CountByStatus 按状态统计订单数
	CountByStatus(ctx context.Context, status OrderStatus) (int64, error)
	// Totals 全量订单数与非取消订单的累计营收
	Totals(ctx context.Context) (int64, string, error)
	// RevenueByDay 最近 days 天按天汇总的已完成营收
	RevenueByDay(ctx context.Context, days int) ([]RevenuePoint, error)
	// TopProducts 按销量排序的商品
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
}
