package application

import (
	"context"

	"github.com/wyfcoding/electronicsstore/internal/catalog/domain"
	"github.com/wyfcoding/electronicsstore/pkg/logger"
)

// CatalogQueryService 目录查询服务
type CatalogQueryService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	brands     domain.BrandRepository
	reviews    domain.ReviewRepository
}

// NewCatalogQueryService 创建目录查询服务实例
func NewCatalogQueryService(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	brands domain.BrandRepository,
	reviews domain.ReviewRepository,
) *CatalogQueryService {
	return &CatalogQueryService{
		products:   products,
		categories: categories,
		brands:     brands,
		reviews:    reviews,
	}
}

// GetProduct 商品详情，并累加浏览计数
func (s *CatalogQueryService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.products.IncrementView(ctx, id); err != nil {
		logger.Warn(ctx, "failed to increment product view count", "product_id", id, "error", err)
	}
	return product, nil
}

// GetProductBySKU 根据 SKU 查询商品
func (s *CatalogQueryService) GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return s.products.GetBySKU(ctx, sku)
}

// ListProducts 按过滤条件分页查询商品
func (s *CatalogQueryService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, int64, error) {
	return s.products.List(ctx, filter)
}

// FeaturedProducts 首页推荐商品
func (s *CatalogQueryService) FeaturedProducts(ctx context.Context, limit int) ([]*domain.Product, error) {
	products, _, err := s.products.List(ctx, domain.ProductFilter{
		ActiveOnly:   true,
		FeaturedOnly: true,
		Limit:        limit,
	})
	return products, err
}

// NewProducts 首页新品
func (s *CatalogQueryService) NewProducts(ctx context.Context, limit int) ([]*domain.Product, error) {
	products, _, err := s.products.List(ctx, domain.ProductFilter{
		ActiveOnly: true,
		NewOnly:    true,
		Limit:      limit,
	})
	return products, err
}

// ListCategories 启用的分类
func (s *CatalogQueryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.ListActive(ctx)
}

// ListBrands 启用的品牌
func (s *CatalogQueryService) ListBrands(ctx context.Context) ([]*domain.Brand, error) {
	return s.brands.ListActive(ctx)
}

// ListApprovedReviews 商品审核通过的评价
func (s *CatalogQueryService) ListApprovedReviews(ctx context.Context, productID uint) ([]*domain.ProductReview, error) {
	return s.reviews.ListApproved(ctx, productID)
}

// ListPendingReviews 待审核评价，供后台使用
func (s *CatalogQueryService) ListPendingReviews(ctx context.Context, limit int) ([]*domain.ProductReview, error) {
	return s.reviews.ListPending(ctx, limit)
}

// LowStockProducts 低库存商品，供后台预警
func (s *CatalogQueryService) LowStockProducts(ctx context.Context, limit int) ([]*domain.Product, error) {
	return s.products.LowStock(ctx, limit)
}
