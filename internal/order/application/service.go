package application

import (
	catalogdomain "github.com/wyfcoding/electronicsstore/internal/catalog/domain"
	cartdomain "github.com/wyfcoding/electronicsstore/internal/cart/domain"
	"github.com/wyfcoding/electronicsstore/internal/order/domain"
	"github.com/wyfcoding/electronicsstore/pkg/metrics"
	"github.com/wyfcoding/electronicsstore/pkg/utils"
)

// OrderApplicationService 订单应用服务门面，聚合命令与查询
type OrderApplicationService struct {
	*CheckoutCommandService
	*OrderQueryService
}

// NewOrderApplicationService 创建订单应用服务实例
func NewOrderApplicationService(
	orders domain.OrderRepository,
	carts cartdomain.CartRepository,
	products catalogdomain.ProductRepository,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
	shipping ShippingPolicy,
	idGen *utils.SnowflakeID,
) *OrderApplicationService {
	return &OrderApplicationService{
		CheckoutCommandService: NewCheckoutCommandService(orders, carts, products, publisher, m, shipping, idGen),
		OrderQueryService:      NewOrderQueryService(orders),
	}
}
