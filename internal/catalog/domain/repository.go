package domain

import "context"

// ProductFilter 商品列表过滤条件
type ProductFilter struct {
	CategoryID   *uint
	BrandID      *uint
	Search       string
	// 仅上架商品
	ActiveOnly   bool
	FeaturedOnly bool
	NewOnly      bool
	Offset       int
	Limit        int
}

// ProductRepository 商品仓储接口
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	// GetByID 根据 ID 获取商品，未找到返回 ErrProductNotFound
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*Product, int64, error)
	Delete(ctx context.Context, id uint) error
	// IncrementView 浏览计数自增
	IncrementView(ctx context.Context, id uint) error
	// IncrementSold 销量计数自增
	IncrementSold(ctx context.Context, id uint, quantity int) error
	// DecrementStock 条件扣减库存，库存不足时返回 ErrInsufficientStock
	DecrementStock(ctx context.Context, id uint, quantity int) error
	// LowStock 库存不高于最低水位的上架商品
	LowStock(ctx context.Context, limit int) ([]*Product, error)
}

// CategoryRepository 分类仓储接口
type CategoryRepository interface {
	Save(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id uint) (*Category, error)
	// ListActive 启用的分类，附带商品数
	ListActive(ctx context.Context) ([]*Category, error)
}

// BrandRepository 品牌仓储接口
type BrandRepository interface {
	Save(ctx context.Context, brand *Brand) error
	GetByID(ctx context.Context, id uint) (*Brand, error)
	ListActive(ctx context.Context) ([]*Brand, error)
}

// ReviewRepository 评价仓储接口
type ReviewRepository interface {
	Save(ctx context.Context, review *ProductReview) error
	// ListApproved 指定商品审核通过的评价
	ListApproved(ctx context.Context, productID uint) ([]*ProductReview, error)
	ListPending(ctx context.Context, limit int) ([]*ProductReview, error)
	Approve(ctx context.Context, id uint) error
}
