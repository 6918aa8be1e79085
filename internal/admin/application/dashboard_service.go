package application

import (
	"context"

	authapp "github.com/wyfcoding/electronicsstore/internal/auth/application"
	authdomain "github.com/wyfcoding/electronicsstore/internal/auth/domain"
	catalogapp "github.com/wyfcoding/electronicsstore/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/electronicsstore/internal/catalog/domain"
	orderapp "github.com/wyfcoding/electronicsstore/internal/order/application"
	orderdomain "github.com/wyfcoding/electronicsstore/internal/order/domain"
)

// DashboardView 后台首页统计
type DashboardView struct {
	TotalOrders      int64                          `json:"total_orders"`
	TotalRevenue     string                         `json:"total_revenue"`
	TotalProducts    int64                          `json:"total_products"`
	PendingOrders    int64                          `json:"pending_orders"`
	ProcessingOrders int64                          `json:"processing_orders"`
	ShippedOrders    int64                          `json:"shipped_orders"`
	DeliveredOrders  int64                          `json:"delivered_orders"`
	CustomerCount    int64                          `json:"customer_count"`
	RecentOrders     []*orderdomain.Order           `json:"recent_orders"`
	LowStockProducts []*catalogdomain.Product       `json:"low_stock_products"`
	PendingReviews   []*catalogdomain.ProductReview `json:"pending_reviews"`
	RevenueByDay     []orderdomain.RevenuePoint     `json:"revenue_by_day"`
	TopProducts      []orderdomain.TopProduct       `json:"top_products"`
}

// AdminApplicationService 后台应用服务，聚合各上下文的管理能力
type AdminApplicationService struct {
	catalog *catalogapp.CatalogApplicationService
	auth    *authapp.AuthApplicationService
	orders  *orderapp.OrderApplicationService
}

// NewAdminApplicationService 创建后台应用服务实例
func NewAdminApplicationService(
	catalog *catalogapp.CatalogApplicationService,
	auth *authapp.AuthApplicationService,
	orders *orderapp.OrderApplicationService,
) *AdminApplicationService {
	return &AdminApplicationService{catalog: catalog, auth: auth, orders: orders}
}

// Dashboard 汇总后台首页数据
func (s *AdminApplicationService) Dashboard(ctx context.Context) (*DashboardView, error) {
	view := &DashboardView{}

	var err error
	if view.TotalOrders, view.TotalRevenue, err = s.orders.Totals(ctx); err != nil {
		return nil, err
	}
	if _, view.TotalProducts, err = s.catalog.ListProducts(ctx, catalogdomain.ProductFilter{Limit: 1}); err != nil {
		return nil, err
	}
	if view.PendingOrders, err = s.orders.CountByStatus(ctx, orderdomain.StatusPending); err != nil {
		return nil, err
	}
	if view.ProcessingOrders, err = s.orders.CountByStatus(ctx, orderdomain.StatusProcessing); err != nil {
		return nil, err
	}
	if view.ShippedOrders, err = s.orders.CountByStatus(ctx, orderdomain.StatusShipped); err != nil {
		return nil, err
	}
	if view.DeliveredOrders, err = s.orders.CountByStatus(ctx, orderdomain.StatusDelivered); err != nil {
		return nil, err
	}
	if view.CustomerCount, err = s.auth.CountByRole(ctx, authdomain.RoleCustomer); err != nil {
		return nil, err
	}
	if view.RecentOrders, _, err = s.orders.ListOrders(ctx, orderdomain.OrderFilter{Limit: 10}); err != nil {
		return nil, err
	}
	if view.LowStockProducts, err = s.catalog.LowStockProducts(ctx, 10); err != nil {
		return nil, err
	}
	if view.PendingReviews, err = s.catalog.ListPendingReviews(ctx, 10); err != nil {
		return nil, err
	}
	if view.RevenueByDay, err = s.orders.RevenueByDay(ctx, 30); err != nil {
		return nil, err
	}
	if view.TopProducts, err = s.orders.TopProducts(ctx, 10); err != nil {
		return nil, err
	}
	return view, nil
}

// Catalog 目录管理能力
func (s *AdminApplicationService) Catalog() *catalogapp.CatalogApplicationService { return s.catalog }

// Auth 用户管理能力
func (s *AdminApplicationService) Auth() *authapp.AuthApplicationService { return s.auth }

// Orders 订单管理能力
func (s *AdminApplicationService) Orders() *orderapp.OrderApplicationService { return s.orders }
