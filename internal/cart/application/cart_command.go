package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogdomain "github.com/wyfcoding/electronicsstore/internal/catalog/domain"
	"github.com/wyfcoding/electronicsstore/internal/cart/domain"
	"github.com/wyfcoding/electronicsstore/pkg/logger"
	"github.com/wyfcoding/electronicsstore/pkg/metrics"
)

// MutationResult 购物车变更结果，message 可直接展示给用户
type MutationResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	CartCount int    `json:"cart_count"`
}

// CartCommandService 购物车命令服务
type CartCommandService struct {
	carts     domain.CartRepository
	products  catalogdomain.ProductRepository
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
}

// NewCartCommandService 创建购物车命令服务实例
func NewCartCommandService(
	carts domain.CartRepository,
	products catalogdomain.ProductRepository,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *CartCommandService {
	return &CartCommandService{carts: carts, products: products, publisher: publisher, metrics: m}
}

// getOrCreateCart 获取用户购物车，不存在则创建
func (s *CartCommandService) getOrCreateCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrCartNotFound) {
		return nil, err
	}

	cart = &domain.Cart{UserID: userID}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.CartsCreatedTotal.Inc()
	}

	if s.publisher != nil {
		event := domain.CartCreatedEvent{
			CartID:    cart.ID,
			UserID:    userID,
			Timestamp: time.Now(),
		}
		if err := s.publisher.Publish(ctx, domain.CartCreatedEventType, userID, event); err != nil {
			logger.Warn(ctx, "failed to publish cart created event", "user_id", userID, "error", err)
		}
	}
	return cart, nil
}

// AddItem 加入购物车。商品必须上架且库存充足；已有条目则合并数量，
// 合并后的数量同样受库存约束。单价取加入时的展示价快照。
func (s *CartCommandService) AddItem(ctx context.Context, userID string, productID uint, quantity int) (*MutationResult, error) {
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogdomain.ErrProductNotFound) {
			return s.rejected(ctx, userID, "Product is unavailable.")
		}
		return nil, err
	}
	if !product.IsActive {
		return s.rejected(ctx, userID, "Product is unavailable.")
	}
	if quantity > product.StockQuantity {
		return s.rejected(ctx, userID, fmt.Sprintf("Only %d left in stock.", product.StockQuantity))
	}

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := cart.FindItem(productID)
	if item != nil {
		newQuantity := item.Quantity + quantity
		if newQuantity > product.StockQuantity {
			return s.rejected(ctx, userID, fmt.Sprintf("Only %d left in stock.", product.StockQuantity))
		}
		item.Quantity = newQuantity
		if err := s.carts.SaveItem(ctx, item); err != nil {
			return nil, err
		}
	} else {
		item = &domain.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: product.DisplayPrice(),
		}
		if err := s.carts.SaveItem(ctx, item); err != nil {
			return nil, err
		}
	}
	if err := s.carts.Touch(ctx, cart.ID); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CartItemsAddedTotal.Inc()
	}

	if s.publisher != nil {
		event := domain.CartItemAddedEvent{
			CartID:    cart.ID,
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: item.UnitPrice.String(),
			Timestamp: time.Now(),
		}
		if err := s.publisher.Publish(ctx, domain.CartItemAddedEventType, userID, event); err != nil {
			logger.Warn(ctx, "failed to publish cart item added event", "user_id", userID, "error", err)
		}
	}

	count, err := s.carts.CountItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MutationResult{
		Success:   true,
		Message:   fmt.Sprintf("%s added to cart.", product.Name),
		CartCount: count,
	}, nil
}

// UpdateQuantity 修改条目数量，数量不大于零时等价于移除
func (s *CartCommandService) UpdateQuantity(ctx context.Context, userID string, productID uint, quantity int) (*MutationResult, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return s.rejected(ctx, userID, "Cart is empty.")
		}
		return nil, err
	}

	item := cart.FindItem(productID)
	if item == nil {
		return s.rejected(ctx, userID, "Item is not in the cart.")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogdomain.ErrProductNotFound) {
			return s.rejected(ctx, userID, "Product is unavailable.")
		}
		return nil, err
	}
	if quantity > product.StockQuantity {
		return s.rejected(ctx, userID, fmt.Sprintf("Only %d left in stock.", product.StockQuantity))
	}

	item.Quantity = quantity
	if err := s.carts.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	if err := s.carts.Touch(ctx, cart.ID); err != nil {
		return nil, err
	}

	count, err := s.carts.CountItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MutationResult{Success: true, Message: "Cart updated.", CartCount: count}, nil
}

// RemoveItem 移除条目，条目不存在时幂等成功
func (s *CartCommandService) RemoveItem(ctx context.Context, userID string, productID uint) (*MutationResult, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return &MutationResult{Success: true, Message: "Item removed.", CartCount: 0}, nil
		}
		return nil, err
	}

	if cart.FindItem(productID) != nil {
		if err := s.carts.DeleteItem(ctx, cart.ID, productID); err != nil {
			return nil, err
		}
		if err := s.carts.Touch(ctx, cart.ID); err != nil {
			return nil, err
		}
		if s.publisher != nil {
			event := domain.CartItemRemovedEvent{
				CartID:    cart.ID,
				UserID:    userID,
				ProductID: productID,
				Timestamp: time.Now(),
			}
			if err := s.publisher.Publish(ctx, domain.CartItemRemovedEventType, userID, event); err != nil {
				logger.Warn(ctx, "failed to publish cart item removed event", "user_id", userID, "error", err)
			}
		}
	}

	count, err := s.carts.CountItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MutationResult{Success: true, Message: "Item removed.", CartCount: count}, nil
}

// ClearItems 清空购物车条目，下单成功后调用
func (s *CartCommandService) ClearItems(ctx context.Context, userID string) error {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return nil
		}
		return err
	}
	return s.carts.DeleteItems(ctx, cart.ID)
}

// rejected 业务拒绝结果，附带当前购物车件数
func (s *CartCommandService) rejected(ctx context.Context, userID, message string) (*MutationResult, error) {
	count, err := s.carts.CountItems(ctx, userID)
	if err != nil {
		logger.Warn(ctx, "failed to count cart items", "user_id", userID, "error", err)
		count = 0
	}
	return &MutationResult{Success: false, Message: message, CartCount: count}, nil
}
