package application

import "github.com/wyfcoding/electronicsstore/internal/catalog/domain"

// CatalogApplicationService 目录应用服务门面，聚合命令与查询
type CatalogApplicationService struct {
	*CatalogCommandService
	*CatalogQueryService
}

// NewCatalogApplicationService 创建目录应用服务实例
func NewCatalogApplicationService(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	brands domain.BrandRepository,
	reviews domain.ReviewRepository,
	publisher domain.EventPublisher,
) *CatalogApplicationService {
	return &CatalogApplicationService{
		CatalogCommandService: NewCatalogCommandService(products, categories, brands, reviews, publisher),
		CatalogQueryService:   NewCatalogQueryService(products, categories, brands, reviews),
	}
}
