package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/wyfcoding/electronicsstore/internal/order/domain"
	"gorm.io/gorm"
)

// OrderRepositoryImpl 订单仓储的 MySQL 实现
type OrderRepositoryImpl struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储实例
func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &OrderRepositoryImpl{db: db}
}

// getDB 优先使用上下文中的事务连接
func (r *OrderRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

// WithTx 在单个事务内执行 fn，事务连接通过上下文传递给各仓储
func (r *OrderRepositoryImpl) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, "tx", tx) //nolint:staticcheck
		return fn(txCtx)
	})
}

func (r *OrderRepositoryImpl) Save(ctx context.Context, order *domain.Order) error {
	return r.getDB(ctx).Save(order).Error
}

func (r *OrderRepositoryImpl) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	var order domain.Order
	err := r.getDB(ctx).Preload("Items").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	var order domain.Order
	err := r.getDB(ctx).Preload("Items").Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, int64, error) {
	query := r.getDB(ctx).Model(&domain.Order{})

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("order_number LIKE ? OR customer_name LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*domain.Order
	query = query.Preload("Items").Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepositoryImpl) CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&domain.Order{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *OrderRepositoryImpl) Totals(ctx context.Context) (int64, string, error) {
	var count int64
	if err := r.getDB(ctx).Model(&domain.Order{}).Count(&count).Error; err != nil {
		return 0, "", err
	}

	type row struct {
		Revenue string
	}
	var rw row
	err := r.getDB(ctx).Model(&domain.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS revenue").
		Where("status <> ?", domain.StatusCancelled).
		Scan(&rw).Error
	if err != nil {
		return 0, "", err
	}
	return count, rw.Revenue, nil
}

func (r *OrderRepositoryImpl) RevenueByDay(ctx context.Context, days int) ([]domain.RevenuePoint, error) {
	since := time.Now().AddDate(0, 0, -days)

	type row struct {
		Day     time.Time
		Orders  int64
		Revenue string
	}
	var rows []row
	err := r.getDB(ctx).Model(&domain.Order{}).
		Select("DATE(created_at) AS day, COUNT(*) AS orders, COALESCE(SUM(total_amount), 0) AS revenue").
		Where("created_at >= ? AND status <> ?", since, domain.StatusCancelled).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	points := make([]domain.RevenuePoint, 0, len(rows))
	for _, rw := range rows {
		points = append(points, domain.RevenuePoint{Day: rw.Day, Orders: rw.Orders, Revenue: rw.Revenue})
	}
	return points, nil
}

func (r *OrderRepositoryImpl) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	type row struct {
		ProductID   uint
		ProductName string
		Quantity    int64
		Revenue     string
	}
	var rows []row
	err := r.getDB(ctx).Model(&domain.OrderItem{}).
		Select("product_id, product_name, SUM(quantity) AS quantity, SUM(unit_price * quantity) AS revenue").
		Group("product_id, product_name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	top := make([]domain.TopProduct, 0, len(rows))
	for _, rw := range rows {
		top = append(top, domain.TopProduct{
			ProductID:   rw.ProductID,
			ProductName: rw.ProductName,
			Quantity:    rw.Quantity,
			Revenue:     rw.Revenue,
		})
	}
	return top, nil
}
