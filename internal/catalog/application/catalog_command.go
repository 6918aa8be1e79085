package application

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/electronicsstore/internal/catalog/domain"
	"github.com/wyfcoding/electronicsstore/pkg/logger"
)

// CreateProductCommand 创建商品命令
type CreateProductCommand struct {
	Name                string
	SKU                 string
	PartNumber          string
	ShortDescription    string
	DetailedDescription string
	Price               decimal.Decimal
	DiscountPrice       *decimal.Decimal
	StockQuantity       int
	MinStockLevel       int
	MainImageURL        string
	CategoryID          uint
	BrandID             uint
	IsFeatured          bool
	IsNewProduct        bool
	Attributes          []domain.ProductAttribute
}

// UpdateProductCommand 更新商品命令
type UpdateProductCommand struct {
	ProductID           uint
	Name                string
	ShortDescription    string
	DetailedDescription string
	Price               decimal.Decimal
	DiscountPrice       *decimal.Decimal
	StockQuantity       int
	MinStockLevel       int
	MainImageURL        string
	CategoryID          uint
	BrandID             uint
	IsActive            bool
	IsFeatured          bool
	IsNewProduct        bool
}

// CreateReviewCommand 创建评价命令
type CreateReviewCommand struct {
	ProductID     uint
	CustomerName  string
	CustomerEmail string
	Rating        int
	Title         string
	Comment       string
}

// CatalogCommandService 目录命令服务
type CatalogCommandService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	brands     domain.BrandRepository
	reviews    domain.ReviewRepository
	publisher  domain.EventPublisher
}

// NewCatalogCommandService 创建目录命令服务实例
func NewCatalogCommandService(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	brands domain.BrandRepository,
	reviews domain.ReviewRepository,
	publisher domain.EventPublisher,
) *CatalogCommandService {
	return &CatalogCommandService{
		products:   products,
		categories: categories,
		brands:     brands,
		reviews:    reviews,
		publisher:  publisher,
	}
}

// CreateProduct 处理创建商品
func (s *CatalogCommandService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	existing, err := s.products.GetBySKU(ctx, cmd.SKU)
	if err != nil && !errors.Is(err, domain.ErrProductNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateSKU
	}

	product := &domain.Product{
		Name:                cmd.Name,
		SKU:                 cmd.SKU,
		PartNumber:          cmd.PartNumber,
		ShortDescription:    cmd.ShortDescription,
		DetailedDescription: cmd.DetailedDescription,
		Price:               cmd.Price,
		DiscountPrice:       cmd.DiscountPrice,
		StockQuantity:       cmd.StockQuantity,
		MinStockLevel:       cmd.MinStockLevel,
		MainImageURL:        cmd.MainImageURL,
		CategoryID:          cmd.CategoryID,
		BrandID:             cmd.BrandID,
		IsActive:            true,
		IsFeatured:          cmd.IsFeatured,
		IsNewProduct:        cmd.IsNewProduct,
		Attributes:          cmd.Attributes,
	}
	if product.MinStockLevel <= 0 {
		product.MinStockLevel = 5
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.ProductCreatedEvent{
			ProductID: product.ID,
			Name:      product.Name,
			SKU:       product.SKU,
			Price:     product.Price.String(),
			Stock:     product.StockQuantity,
			Timestamp: time.Now(),
		}
		if err := s.publisher.Publish(ctx, domain.ProductCreatedEventType, product.SKU, event); err != nil {
			logger.Warn(ctx, "failed to publish product created event", "sku", product.SKU, "error", err)
		}
	}

	return product, nil
}

// UpdateProduct 处理更新商品
func (s *CatalogCommandService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}

	product.Name = cmd.Name
	product.ShortDescription = cmd.ShortDescription
	product.DetailedDescription = cmd.DetailedDescription
	product.Price = cmd.Price
	product.DiscountPrice = cmd.DiscountPrice
	product.StockQuantity = cmd.StockQuantity
	product.MinStockLevel = cmd.MinStockLevel
	product.MainImageURL = cmd.MainImageURL
	product.CategoryID = cmd.CategoryID
	product.BrandID = cmd.BrandID
	product.IsActive = cmd.IsActive
	product.IsFeatured = cmd.IsFeatured
	product.IsNewProduct = cmd.IsNewProduct

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.ProductUpdatedEvent{
			ProductID: product.ID,
			Name:      product.Name,
			SKU:       product.SKU,
			Price:     product.Price.String(),
			Stock:     product.StockQuantity,
			Timestamp: time.Now(),
		}
		if err := s.publisher.Publish(ctx, domain.ProductUpdatedEventType, product.SKU, event); err != nil {
			logger.Warn(ctx, "failed to publish product updated event", "sku", product.SKU, "error", err)
		}
	}

	return product, nil
}

// DeleteProduct 处理删除商品（软删除）
func (s *CatalogCommandService) DeleteProduct(ctx context.Context, productID uint) error {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return err
	}
	return s.products.Delete(ctx, productID)
}

// CreateReview 处理提交商品评价，默认待审核
func (s *CatalogCommandService) CreateReview(ctx context.Context, cmd CreateReviewCommand) (*domain.ProductReview, error) {
	if cmd.Rating < 1 || cmd.Rating > 5 {
		return nil, domain.ErrInvalidRating
	}
	if _, err := s.products.GetByID(ctx, cmd.ProductID); err != nil {
		return nil, err
	}

	review := &domain.ProductReview{
		ProductID:     cmd.ProductID,
		CustomerName:  cmd.CustomerName,
		CustomerEmail: cmd.CustomerEmail,
		Rating:        cmd.Rating,
		Title:         cmd.Title,
		Comment:       cmd.Comment,
		IsApproved:    false,
	}
	if err := s.reviews.Save(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ApproveReview 处理审核通过评价
func (s *CatalogCommandService) ApproveReview(ctx context.Context, reviewID uint) error {
	return s.reviews.Approve(ctx, reviewID)
}

// RecordSale 订单成交后的销量投影
func (s *CatalogCommandService) RecordSale(ctx context.Context, productID uint, quantity int) error {
	return s.products.IncrementSold(ctx, productID, quantity)
}

// SaveCategory 创建或更新分类
func (s *CatalogCommandService) SaveCategory(ctx context.Context, category *domain.Category) error {
	return s.categories.Save(ctx, category)
}

// SaveBrand 创建或更新品牌
func (s *CatalogCommandService) SaveBrand(ctx context.Context, brand *domain.Brand) error {
	return s.brands.Save(ctx, brand)
}
