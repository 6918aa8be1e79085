package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/electronicsstore/internal/catalog/domain"
	"gorm.io/gorm"
)

// ProductRepositoryImpl 商品仓储的 MySQL 实现
type ProductRepositoryImpl struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储实例
func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &ProductRepositoryImpl{db: db}
}

// getDB 优先使用上下文中的事务连接
func (r *ProductRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *ProductRepositoryImpl) Save(ctx context.Context, product *domain.Product) error {
	return r.getDB(ctx).Save(product).Error
}

func (r *ProductRepositoryImpl) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	err := r.getDB(ctx).
		Preload("Category").
		Preload("Brand").
		Preload("Attributes", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepositoryImpl) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	var product domain.Product
	err := r.getDB(ctx).Where("sku = ?", sku).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepositoryImpl) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, int64, error) {
	query := r.getDB(ctx).Model(&domain.Product{})

	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}
	if filter.NewOnly {
		query = query.Where("is_new_product = ?", true)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.BrandID != nil {
		query = query.Where("brand_id = ?", *filter.BrandID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR sku LIKE ? OR part_number LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []*domain.Product
	query = query.Preload("Category").Preload("Brand").Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.getDB(ctx).Delete(&domain.Product{}, id).Error
}

func (r *ProductRepositoryImpl) IncrementView(ctx context.Context, id uint) error {
	return r.getDB(ctx).Model(&domain.Product{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *ProductRepositoryImpl) IncrementSold(ctx context.Context, id uint, quantity int) error {
	return r.getDB(ctx).Model(&domain.Product{}).
		Where("id = ?", id).
		UpdateColumn("sold_count", gorm.Expr("sold_count + ?", quantity)).Error
}

// DecrementStock 条件扣减，WHERE 带库存下限保证并发下不会超卖。
func (r *ProductRepositoryImpl) DecrementStock(ctx context.Context, id uint, quantity int) error {
	result := r.getDB(ctx).Model(&domain.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

func (r *ProductRepositoryImpl) LowStock(ctx context.Context, limit int) ([]*domain.Product, error) {
	var products []*domain.Product
	err := r.getDB(ctx).
		Where("is_active = ? AND stock_quantity <= min_stock_level", true).
		Order("stock_quantity ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// CategoryRepositoryImpl 分类仓储的 MySQL 实现
type CategoryRepositoryImpl struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储实例
func NewCategoryRepository(db *gorm.DB) domain.CategoryRepository {
	return &CategoryRepositoryImpl{db: db}
}

func (r *CategoryRepositoryImpl) Save(ctx context.Context, category *domain.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *CategoryRepositoryImpl) GetByID(ctx context.Context, id uint) (*domain.Category, error) {
	var category domain.Category
	err := r.db.WithContext(ctx).Preload("SubCategories").First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepositoryImpl) ListActive(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC, name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}

	// 子查询统计每个分类下的上架商品数
	type categoryCount struct {
		CategoryID uint
		Count      int64
	}
	var counts []categoryCount
	err = r.db.WithContext(ctx).Model(&domain.Product{}).
		Select("category_id, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("category_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	countByID := make(map[uint]int64, len(counts))
	for _, c := range counts {
		countByID[c.CategoryID] = c.Count
	}
	for _, category := range categories {
		category.ProductCount = countByID[category.ID]
	}
	return categories, nil
}

// BrandRepositoryImpl 品牌仓储的 MySQL 实现
type BrandRepositoryImpl struct {
	db *gorm.DB
}

// NewBrandRepository 创建品牌仓储实例
func NewBrandRepository(db *gorm.DB) domain.BrandRepository {
	return &BrandRepositoryImpl{db: db}
}

func (r *BrandRepositoryImpl) Save(ctx context.Context, brand *domain.Brand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

func (r *BrandRepositoryImpl) GetByID(ctx context.Context, id uint) (*domain.Brand, error) {
	var brand domain.Brand
	err := r.db.WithContext(ctx).First(&brand, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &brand, nil
}

func (r *BrandRepositoryImpl) ListActive(ctx context.Context) ([]*domain.Brand, error) {
	var brands []*domain.Brand
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&brands).Error
	return brands, err
}

// ReviewRepositoryImpl 评价仓储的 MySQL 实现
type ReviewRepositoryImpl struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓储实例
func NewReviewRepository(db *gorm.DB) domain.ReviewRepository {
	return &ReviewRepositoryImpl{db: db}
}

func (r *ReviewRepositoryImpl) Save(ctx context.Context, review *domain.ProductReview) error {
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *ReviewRepositoryImpl) ListApproved(ctx context.Context, productID uint) ([]*domain.ProductReview, error) {
	var reviews []*domain.ProductReview
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND is_approved = ?", productID, true).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) ListPending(ctx context.Context, limit int) ([]*domain.ProductReview, error) {
	var reviews []*domain.ProductReview
	query := r.db.WithContext(ctx).
		Where("is_approved = ?", false).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) Approve(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&domain.ProductReview{}).
		Where("id = ?", id).
		Update("is_approved", true).Error
}
