package application

import (
	"context"

	"github.com/wyfcoding/electronicsstore/internal/order/domain"
)

// OrderQueryService 订单查询服务
type OrderQueryService struct {
	orders domain.OrderRepository
}

// NewOrderQueryService 创建订单查询服务实例
func NewOrderQueryService(orders domain.OrderRepository) *OrderQueryService {
	return &OrderQueryService{orders: orders}
}

// GetOrder 根据 ID 获取订单
func (s *OrderQueryService) GetOrder(ctx context.Context, id uint) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// GetOrderByNumber 根据订单号获取订单
func (s *OrderQueryService) GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return s.orders.GetByNumber(ctx, orderNumber)
}

// ListOrders 按过滤条件分页查询订单
func (s *OrderQueryService) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, int64, error) {
	return s.orders.List(ctx, filter)
}

// CountByStatus 按状态统计订单数
func (s *OrderQueryService) CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error) {
	return s.orders.CountByStatus(ctx, status)
}

// Totals 全量订单数与累计营收
func (s *OrderQueryService) Totals(ctx context.Context) (int64, string, error) {
	return s.orders.Totals(ctx)
}

// RevenueByDay 最近 days 天按天汇总的营收
func (s *OrderQueryService) RevenueByDay(ctx context.Context, days int) ([]domain.RevenuePoint, error) {
	return s.orders.RevenueByDay(ctx, days)
}

// TopProducts 按销量排序的商品
func (s *OrderQueryService) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	return s.orders.TopProducts(ctx, limit)
}
