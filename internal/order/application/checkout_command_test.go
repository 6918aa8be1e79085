package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	catalogdomain "github.com/wyfcoding/electronicsstore/internal/catalog/domain"
	cartdomain "github.com/wyfcoding/electronicsstore/internal/cart/domain"
	"github.com/wyfcoding/electronicsstore/internal/order/domain"
	"github.com/wyfcoding/electronicsstore/pkg/utils"
)

// fakeProducts 内存商品仓储，仅实现下单用到的方法
type fakeProducts struct {
	products map[uint]*catalogdomain.Product
}

func (r *fakeProducts) Save(ctx context.Context, p *catalogdomain.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProducts) GetByID(ctx context.Context, id uint) (*catalogdomain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, catalogdomain.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProducts) GetBySKU(ctx context.Context, sku string) (*catalogdomain.Product, error) {
	return nil, catalogdomain.ErrProductNotFound
}

func (r *fakeProducts) List(ctx context.Context, f catalogdomain.ProductFilter) ([]*catalogdomain.Product, int64, error) {
	return nil, 0, nil
}

func (r *fakeProducts) Delete(ctx context.Context, id uint) error { return nil }

func (r *fakeProducts) IncrementView(ctx context.Context, id uint) error { return nil }

func (r *fakeProducts) IncrementSold(ctx context.Context, id uint, quantity int) error { return nil }

func (r *fakeProducts) DecrementStock(ctx context.Context, id uint, quantity int) error {
	p, ok := r.products[id]
	if !ok || p.StockQuantity < quantity {
		return catalogdomain.ErrInsufficientStock
	}
	p.StockQuantity -= quantity
	return nil
}

func (r *fakeProducts) LowStock(ctx context.Context, limit int) ([]*catalogdomain.Product, error) {
	return nil, nil
}

// fakeCarts 内存购物车仓储
type fakeCarts struct {
	carts map[string]*cartdomain.Cart
}

func (r *fakeCarts) Save(ctx context.Context, cart *cartdomain.Cart) error {
	r.carts[cart.UserID] = cart
	return nil
}

func (r *fakeCarts) GetByUserID(ctx context.Context, userID string) (*cartdomain.Cart, error) {
	cart, ok := r.carts[userID]
	if !ok {
		return nil, cartdomain.ErrCartNotFound
	}
	return cart, nil
}

func (r *fakeCarts) SaveItem(ctx context.Context, item *cartdomain.CartItem) error { return nil }

func (r *fakeCarts) Touch(ctx context.Context, cartID uint) error { return nil }

func (r *fakeCarts) DeleteItem(ctx context.Context, cartID, productID uint) error { return nil }

func (r *fakeCarts) DeleteItems(ctx context.Context, cartID uint) error {
	for _, cart := range r.carts {
		if cart.ID == cartID {
			cart.Items = nil
		}
	}
	return nil
}

func (r *fakeCarts) CountItems(ctx context.Context, userID string) (int, error) {
	cart, ok := r.carts[userID]
	if !ok {
		return 0, nil
	}
	return cart.TotalItems(), nil
}

// fakeOrders 内存订单仓储。WithTx 模拟事务语义：fn 出错时
// 恢复商品库存、购物车与订单的快照。
type fakeOrders struct {
	nextID   uint
	orders   map[uint]*domain.Order
	products *fakeProducts
	carts    *fakeCarts
}

func (r *fakeOrders) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	stockSnapshot := make(map[uint]int)
	for id, p := range r.products.products {
		stockSnapshot[id] = p.StockQuantity
	}
	cartSnapshot := make(map[string][]cartdomain.CartItem)
	for userID, cart := range r.carts.carts {
		cartSnapshot[userID] = append([]cartdomain.CartItem(nil), cart.Items...)
	}
	orderCount := len(r.orders)

	if err := fn(ctx); err != nil {
		for id, stock := range stockSnapshot {
			r.products.products[id].StockQuantity = stock
		}
		for userID, items := range cartSnapshot {
			r.carts.carts[userID].Items = items
		}
		if len(r.orders) != orderCount {
			for id := range r.orders {
				if id > uint(orderCount) {
					delete(r.orders, id)
				}
			}
		}
		return err
	}
	return nil
}

func (r *fakeOrders) Save(ctx context.Context, order *domain.Order) error {
	if order.ID == 0 {
		r.nextID++
		order.ID = r.nextID
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrders) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (r *fakeOrders) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *fakeOrders) List(ctx context.Context, f domain.OrderFilter) ([]*domain.Order, int64, error) {
	return nil, 0, nil
}

func (r *fakeOrders) CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error) {
	return 0, nil
}

func (r *fakeOrders) Totals(ctx context.Context) (int64, string, error) {
	return int64(len(r.orders)), "0", nil
}

func (r *fakeOrders) RevenueByDay(ctx context.Context, days int) ([]domain.RevenuePoint, error) {
	return nil, nil
}

func (r *fakeOrders) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	return nil, nil
}

// eventRecorder 记录发布的事件
type eventRecorder struct {
	topics []string
	events []any
}

func (p *eventRecorder) Publish(ctx context.Context, topic string, key string, event any) error {
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func checkoutProduct(id uint, name string, price int64, stock int) *catalogdomain.Product {
	p := &catalogdomain.Product{
		Name:          name,
		SKU:           name,
		Price:         decimal.NewFromInt(price),
		StockQuantity: stock,
		IsActive:      true,
	}
	p.ID = id
	return p
}

func cartWith(userID string, items ...cartdomain.CartItem) *cartdomain.Cart {
	cart := &cartdomain.Cart{UserID: userID, Items: items}
	cart.ID = 1
	return cart
}

func newCheckoutService(products *fakeProducts, carts *fakeCarts) (*CheckoutCommandService, *fakeOrders, *eventRecorder) {
	orders := &fakeOrders{orders: make(map[uint]*domain.Order), products: products, carts: carts}
	publisher := &eventRecorder{}
	policy := ShippingPolicy{
		FreeThreshold: decimal.NewFromInt(500000),
		FlatFee:       decimal.NewFromInt(30000),
	}
	svc := NewCheckoutCommandService(orders, carts, products, publisher, nil, policy, utils.NewSnowflakeID(1))
	return svc, orders, publisher
}

func defaultCommand(userID string) CheckoutCommand {
	return CheckoutCommand{
		UserID:          userID,
		CustomerName:    "Jordan Lee",
		CustomerEmail:   "jordan@example.com",
		ShippingAddress: "12 Circuit Road",
	}
}

func TestPlaceOrderFreeShippingAboveThreshold(t *testing.T) {
	products := &fakeProducts{products: map[uint]*catalogdomain.Product{
		1: checkoutProduct(1, "ESP32-S3 DevKit", 320000, 50),
	}}
	carts := &fakeCarts{carts: map[string]*cartdomain.Cart{
		"user-1": cartWith("user-1", cartdomain.CartItem{
			CartID: 1, ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(320000),
		}),
	}}
	svc, orders, publisher := newCheckoutService(products, carts)

	result, err := svc.PlaceOrder(context.Background(), defaultCommand("user-1"))
	require.NoError(t, err)
	require.True(t, result.Success)
	require.NotNil(t, result.Order)

	order := result.Order
	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(640000)))
	assert.True(t, order.ShippingFee.IsZero())
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(640000)))
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD"))

	// 库存已扣减，购物车已清空，订单已落库
	assert.Equal(t, 48, products.products[1].StockQuantity)
	assert.Empty(t, carts.carts["user-1"].Items)
	assert.Len(t, orders.orders, 1)

	assert.Contains(t, publisher.topics, domain.OrderPlacedEventType)
}

func TestPlaceOrderChargesFlatFeeBelowThreshold(t *testing.T) {
	products := &fakeProducts{products: map[uint]*catalogdomain.Product{
		3: checkoutProduct(3, "BME280", 85000, 120),
	}}
	carts := &fakeCarts{carts: map[string]*cartdomain.Cart{
		"user-1": cartWith("user-1", cartdomain.CartItem{
			CartID: 1, ProductID: 3, Quantity: 1, UnitPrice: decimal.NewFromInt(85000),
		}),
	}}
	svc, _, _ := newCheckoutService(products, carts)

	result, err := svc.PlaceOrder(context.Background(), defaultCommand("user-1"))
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.True(t, result.Order.Subtotal.Equal(decimal.NewFromInt(85000)))
	assert.True(t, result.Order.ShippingFee.Equal(decimal.NewFromInt(30000)))
	assert.True(t, result.Order.TotalAmount.Equal(decimal.NewFromInt(115000)))
}

func TestPlaceOrderSnapshotsItems(t *testing.T) {
	products := &fakeProducts{products: map[uint]*catalogdomain.Product{
		1: checkoutProduct(1, "STM32F4 Discovery Board", 450000, 30),
	}}
	carts := &fakeCarts{carts: map[string]*cartdomain.Cart{
		"user-1": cartWith("user-1", cartdomain.CartItem{
			CartID: 1, ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(450000),
		}),
	}}
	svc, _, _ := newCheckoutService(products, carts)

	result, err := svc.PlaceOrder(context.Background(), defaultCommand("user-1"))
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, result.Order.Items, 1)

	item := result.Order.Items[0]
	assert.Equal(t, "STM32F4 Discovery Board", item.ProductName)
	assert.Equal(t, "STM32F4 Discovery Board", item.ProductSKU)
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromInt(450000)))
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	products := &fakeProducts{products: map[uint]*catalogdomain.Product{}}
	carts := &fakeCarts{carts: map[string]*cartdomain.Cart{
		"user-1": cartWith("user-1"),
	}}
	svc, orders, _ := newCheckoutService(products, carts)

	result, err := svc.PlaceOrder(context.Background(), defaultCommand("user-1"))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "empty")
	assert.Empty(t, orders.orders)

	// 从未创建过购物车时同样视为空
	result, err = svc.PlaceOrder(context.Background(), defaultCommand("user-2"))
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestPlaceOrderRejectsInsufficientStockNamingProduct(t *testing.T) {
	products := &fakeProducts{products: map[uint]*catalogdomain.Product{
		1: checkoutProduct(1, "DHT22 Temperature Sensor", 65000, 2),
	}}
	carts := &fakeCarts{carts: map[string]*cartdomain.Cart{
		"user-1": cartWith("user-1", cartdomain.CartItem{
			CartID: 1, ProductID: 1, Quantity: 5, UnitPrice: decimal.NewFromInt(65000),
		}),
	}}
	svc, orders, _ := newCheckoutService(products, carts)

	result, err := svc.PlaceOrder(context.Background(), defaultCommand("user-1"))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "DHT22 Temperature Sensor")

	// 库存与购物车原样保留
	assert.Equal(t, 2, products.products[1].StockQuantity)
	assert.Len(t, carts.carts["user-1"].Items, 1)
	assert.Empty(t, orders.orders)
}

func TestPlaceOrderRollsBackOnPartialStockFailure(t *testing.T) {
	// 预检通过但事务内第二件商品扣减失败，第一件的扣减必须回滚
	products := &fakeProducts{products: map[uint]*catalogdomain.Product{
		1: checkoutProduct(1, "LM2596 Buck Converter", 42000, 10),
		2: checkoutProduct(2, "Ceramic Capacitor Kit", 78000, 3),
	}}
	carts := &fakeCarts{carts: map[string]*cartdomain.Cart{
		"user-1": cartWith("user-1",
			cartdomain.CartItem{CartID: 1, ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(42000)},
			cartdomain.CartItem{CartID: 1, ProductID: 2, Quantity: 3, UnitPrice: decimal.NewFromInt(78000)},
		),
	}}
	svc, orders, _ := newCheckoutService(products, carts)

	// 预检后、扣减前被并发请求抢走库存
	products.products[2].StockQuantity = 1

	result, err := svc.PlaceOrder(context.Background(), defaultCommand("user-1"))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Ceramic Capacitor Kit")

	assert.Equal(t, 10, products.products[1].StockQuantity)
	assert.Equal(t, 1, products.products[2].StockQuantity)
	assert.Len(t, carts.carts["user-1"].Items, 2)
	assert.Empty(t, orders.orders)
}

func TestPlaceOrderRejectsInactiveProduct(t *testing.T) {
	inactive := checkoutProduct(1, "Legacy Module", 50000, 10)
	inactive.IsActive = false
	products := &fakeProducts{products: map[uint]*catalogdomain.Product{1: inactive}}
	carts := &fakeCarts{carts: map[string]*cartdomain.Cart{
		"user-1": cartWith("user-1", cartdomain.CartItem{
			CartID: 1, ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(50000),
		}),
	}}
	svc, _, _ := newCheckoutService(products, carts)

	result, err := svc.PlaceOrder(context.Background(), defaultCommand("user-1"))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Legacy Module")
}

func TestMarkPaidSetsPaymentStatus(t *testing.T) {
	products := &fakeProducts{products: map[uint]*catalogdomain.Product{}}
	carts := &fakeCarts{carts: map[string]*cartdomain.Cart{}}
	svc, orders, _ := newCheckoutService(products, carts)

	order := &domain.Order{OrderNumber: "ORD-PAY", Status: domain.StatusDelivered, PaymentStatus: domain.PaymentPending}
	require.NoError(t, orders.Save(context.Background(), order))

	paid, err := svc.MarkPaid(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, paid.PaymentStatus)

	_, err = svc.MarkPaid(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestUpdateStatusFollowsStateMachine(t *testing.T) {
	products := &fakeProducts{products: map[uint]*catalogdomain.Product{}}
	carts := &fakeCarts{carts: map[string]*cartdomain.Cart{}}
	svc, orders, publisher := newCheckoutService(products, carts)

	order := &domain.Order{OrderNumber: "ORD-TEST", Status: domain.StatusPending}
	require.NoError(t, orders.Save(context.Background(), order))

	updated, err := svc.UpdateStatus(context.Background(), order.ID, domain.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, updated.Status)
	require.NotNil(t, updated.ProcessedAt)
	assert.WithinDuration(t, time.Now(), *updated.ProcessedAt, time.Minute)

	_, err = svc.UpdateStatus(context.Background(), order.ID, domain.StatusDelivered)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	assert.Contains(t, publisher.topics, domain.OrderStatusChangedEventType)
}
