package application

import (
	catalogdomain "github.com/wyfcoding/electronicsstore/internal/catalog/domain"
	"github.com/wyfcoding/electronicsstore/internal/cart/domain"
	"github.com/wyfcoding/electronicsstore/pkg/metrics"
)

// CartApplicationService 购物车应用服务门面，聚合命令与查询
type CartApplicationService struct {
	*CartCommandService
	*CartQueryService
}

// NewCartApplicationService 创建购物车应用服务实例
func NewCartApplicationService(
	carts domain.CartRepository,
	products catalogdomain.ProductRepository,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *CartApplicationService {
	return &CartApplicationService{
		CartCommandService: NewCartCommandService(carts, products, publisher, m),
		CartQueryService:   NewCartQueryService(carts, products),
	}
}
