// Package metrics 提供 Prometheus helper，包含常用 counter/gauge/histogram 模板
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 指标集合
type Metrics struct {
	registry *prometheus.Registry

	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration prometheus.Histogram

	// 业务指标
	CartsCreatedTotal    prometheus.Counter
	CartItemsAddedTotal  prometheus.Counter
	OrdersPlacedTotal    prometheus.Counter
	OrderRevenueTotal    prometheus.Counter
	StockRejectionsTotal prometheus.Counter
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "store",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "store",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		CartsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "store",
			Subsystem: serviceName,
			Name:      "carts_created_total",
			Help:      "Total carts lazily created",
		}),
		CartItemsAddedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "store",
			Subsystem: serviceName,
			Name:      "cart_items_added_total",
			Help:      "Total items added to carts",
		}),
		OrdersPlacedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "store",
			Subsystem: serviceName,
			Name:      "orders_placed_total",
			Help:      "Total orders placed",
		}),
		OrderRevenueTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "store",
			Subsystem: serviceName,
			Name:      "order_revenue_total",
			Help:      "Cumulative order revenue in minor currency units",
		}),
		StockRejectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "store",
			Subsystem: serviceName,
			Name:      "stock_rejections_total",
			Help:      "Cart or checkout requests rejected for insufficient stock",
		}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.CartsCreatedTotal,
		m.CartItemsAddedTotal,
		m.OrdersPlacedTotal,
		m.OrderRevenueTotal,
		m.StockRejectionsTotal,
	)

	return m
}

// Handler 返回 /metrics 的 gin 处理函数
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
