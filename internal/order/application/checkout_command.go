package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	catalogdomain "github.com/wyfcoding/electronicsstore/internal/catalog/domain"
	cartdomain "github.com/wyfcoding/electronicsstore/internal/cart/domain"
	"github.com/wyfcoding/electronicsstore/internal/order/domain"
	"github.com/wyfcoding/electronicsstore/pkg/logger"
	"github.com/wyfcoding/electronicsstore/pkg/metrics"
	"github.com/wyfcoding/electronicsstore/pkg/utils"
)

// CheckoutCommand 下单命令
type CheckoutCommand struct {
	UserID          string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	PaymentMethod   string
	Note            string
}

// CheckoutResult 下单结果，失败时 Message 可直接展示给用户
type CheckoutResult struct {
	Success     bool          `json:"success"`
	Message     string        `json:"message"`
	OrderID     uint          `json:"order_id,omitempty"`
	OrderNumber string        `json:"order_number,omitempty"`
	Order       *domain.Order `json:"order,omitempty"`
}

// ShippingPolicy 运费策略：订单金额低于 FreeThreshold 收取 FlatFee
type ShippingPolicy struct {
	FreeThreshold decimal.Decimal
	FlatFee       decimal.Decimal
}

// Fee 计算运费
func (p ShippingPolicy) Fee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.LessThan(p.FreeThreshold) {
		return p.FlatFee
	}
	return decimal.Zero
}

// CheckoutCommandService 下单命令服务
type CheckoutCommandService struct {
	orders    domain.OrderRepository
	carts     cartdomain.CartRepository
	products  catalogdomain.ProductRepository
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
	shipping  ShippingPolicy
	idGen     *utils.SnowflakeID
}

// NewCheckoutCommandService 创建下单命令服务实例
func NewCheckoutCommandService(
	orders domain.OrderRepository,
	carts cartdomain.CartRepository,
	products catalogdomain.ProductRepository,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
	shipping ShippingPolicy,
	idGen *utils.SnowflakeID,
) *CheckoutCommandService {
	return &CheckoutCommandService{
		orders:    orders,
		carts:     carts,
		products:  products,
		publisher: publisher,
		metrics:   m,
		shipping:  shipping,
		idGen:     idGen,
	}
}

// newOrderNumber 订单号：ORD + 时间戳 + 雪花 ID，带唯一索引兜底
func (s *CheckoutCommandService) newOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD%s-%d", now.Format("20060102150405"), s.idGen.Generate())
}

// PlaceOrder 下单。先对购物车逐项预检（商品在售、库存充足），
// 然后在单个事务内条件扣减库存、落库订单与条目快照、清空购物车。
// 任一扣减未命中即回滚整个事务，不会产生部分扣减。
func (s *CheckoutCommandService) PlaceOrder(ctx context.Context, cmd CheckoutCommand) (*CheckoutResult, error) {
	cart, err := s.carts.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		if errors.Is(err, cartdomain.ErrCartNotFound) {
			return &CheckoutResult{Success: false, Message: "Your cart is empty."}, nil
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return &CheckoutResult{Success: false, Message: "Your cart is empty."}, nil
	}

	// 预检：提前给出指名商品的友好提示，事务内的条件扣减才是最终裁决
	items := make([]domain.OrderItem, 0, len(cart.Items))
	for i := range cart.Items {
		cartItem := &cart.Items[i]
		product, err := s.products.GetByID(ctx, cartItem.ProductID)
		if err != nil {
			if errors.Is(err, catalogdomain.ErrProductNotFound) {
				return &CheckoutResult{Success: false, Message: "Some products in your cart are no longer available."}, nil
			}
			return nil, err
		}
		if !product.IsActive {
			return &CheckoutResult{
				Success: false,
				Message: fmt.Sprintf("%s is no longer available.", product.Name),
			}, nil
		}
		if cartItem.Quantity > product.StockQuantity {
			if s.metrics != nil {
				s.metrics.StockRejectionsTotal.Inc()
			}
			return &CheckoutResult{
				Success: false,
				Message: fmt.Sprintf("Not enough stock for %s. Only %d left.", product.Name, product.StockQuantity),
			}, nil
		}
		items = append(items, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductSKU:  product.SKU,
			UnitPrice:   cartItem.UnitPrice,
			Quantity:    cartItem.Quantity,
		})
	}

	subtotal := cart.TotalAmount()
	shippingFee := s.shipping.Fee(subtotal)
	discount := decimal.Zero
	now := time.Now()

	paymentMethod := cmd.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "COD"
	}

	order := &domain.Order{
		OrderNumber:     s.newOrderNumber(now),
		UserID:          cmd.UserID,
		CustomerName:    cmd.CustomerName,
		CustomerEmail:   cmd.CustomerEmail,
		CustomerPhone:   cmd.CustomerPhone,
		ShippingAddress: cmd.ShippingAddress,
		Note:            cmd.Note,
		Subtotal:        subtotal,
		ShippingFee:     shippingFee,
		DiscountAmount:  discount,
		TotalAmount:     subtotal.Add(shippingFee).Sub(discount),
		Status:          domain.StatusPending,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   domain.PaymentPending,
		Items:           items,
	}

	var stockShortage string
	err = s.orders.WithTx(ctx, func(txCtx context.Context) error {
		for i := range order.Items {
			item := &order.Items[i]
			if err := s.products.DecrementStock(txCtx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, catalogdomain.ErrInsufficientStock) {
					stockShortage = item.ProductName
				}
				return err
			}
		}
		if err := s.orders.Save(txCtx, order); err != nil {
			return err
		}
		return s.carts.DeleteItems(txCtx, cart.ID)
	})
	if err != nil {
		if stockShortage != "" {
			if s.metrics != nil {
				s.metrics.StockRejectionsTotal.Inc()
			}
			return &CheckoutResult{
				Success: false,
				Message: fmt.Sprintf("Not enough stock for %s.", stockShortage),
			}, nil
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrdersPlacedTotal.Inc()
		s.metrics.OrderRevenueTotal.Add(order.TotalAmount.InexactFloat64())
	}

	if s.publisher != nil {
		eventItems := make([]domain.OrderPlacedItem, 0, len(order.Items))
		for i := range order.Items {
			eventItems = append(eventItems, domain.OrderPlacedItem{
				ProductID: order.Items[i].ProductID,
				Quantity:  order.Items[i].Quantity,
				UnitPrice: order.Items[i].UnitPrice.String(),
			})
		}
		event := domain.OrderPlacedEvent{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			UserID:      order.UserID,
			TotalAmount: order.TotalAmount.String(),
			Items:       eventItems,
			Timestamp:   now,
		}
		if err := s.publisher.Publish(ctx, domain.OrderPlacedEventType, order.OrderNumber, event); err != nil {
			logger.Warn(ctx, "failed to publish order placed event", "order_number", order.OrderNumber, "error", err)
		}
	}

	return &CheckoutResult{
		Success:     true,
		Message:     fmt.Sprintf("Order %s placed successfully.", order.OrderNumber),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Order:       order,
	}, nil
}

// UpdateStatus 订单状态迁移，按状态机校验并记录时间戳
func (s *CheckoutCommandService) UpdateStatus(ctx context.Context, orderID uint, target domain.OrderStatus) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if err := order.TransitionTo(target, time.Now()); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.OrderStatusChangedEvent{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			FromStatus:  from,
			ToStatus:    target,
			Timestamp:   time.Now(),
		}
		if err := s.publisher.Publish(ctx, domain.OrderStatusChangedEventType, order.OrderNumber, event); err != nil {
			logger.Warn(ctx, "failed to publish order status changed event", "order_number", order.OrderNumber, "error", err)
		}
	}
	return order, nil
}

// MarkPaid 标记订单已支付
func (s *CheckoutCommandService) MarkPaid(ctx context.Context, orderID uint) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.PaymentStatus = domain.PaymentPaid
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
