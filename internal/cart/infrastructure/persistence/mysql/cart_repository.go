package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/wyfcoding/electronicsstore/internal/cart/domain"
	"gorm.io/gorm"
)

// CartRepositoryImpl 购物车仓储的 MySQL 实现
type CartRepositoryImpl struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储实例
func NewCartRepository(db *gorm.DB) domain.CartRepository {
	return &CartRepositoryImpl{db: db}
}

// getDB 优先使用上下文中的事务连接
func (r *CartRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *CartRepositoryImpl) Save(ctx context.Context, cart *domain.Cart) error {
	return r.getDB(ctx).Save(cart).Error
}

func (r *CartRepositoryImpl) GetByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.getDB(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCartNotFound
		}
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepositoryImpl) SaveItem(ctx context.Context, item *domain.CartItem) error {
	return r.getDB(ctx).Save(item).Error
}

func (r *CartRepositoryImpl) Touch(ctx context.Context, cartID uint) error {
	return r.getDB(ctx).Model(&domain.Cart{}).
		Where("id = ?", cartID).
		UpdateColumn("updated_at", time.Now()).Error
}

func (r *CartRepositoryImpl) DeleteItem(ctx context.Context, cartID, productID uint) error {
	return r.getDB(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&domain.CartItem{}).Error
}

func (r *CartRepositoryImpl) DeleteItems(ctx context.Context, cartID uint) error {
	return r.getDB(ctx).
		Where("cart_id = ?", cartID).
		Delete(&domain.CartItem{}).Error
}

func (r *CartRepositoryImpl) CountItems(ctx context.Context, userID string) (int, error) {
	var cart domain.Cart
	err := r.getDB(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	type row struct {
		Total *int
	}
	var result row
	err = r.getDB(ctx).Model(&domain.CartItem{}).
		Select("SUM(quantity) AS total").
		Where("cart_id = ?", cart.ID).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}
	if result.Total == nil {
		return 0, nil
	}
	return *result.Total, nil
}
