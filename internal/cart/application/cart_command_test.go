package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	authdomain "github.com/wyfcoding/electronicsstore/internal/auth/domain"
	catalogdomain "github.com/wyfcoding/electronicsstore/internal/catalog/domain"
	"github.com/wyfcoding/electronicsstore/internal/cart/domain"
)

// fakeProductRepo 内存商品仓储
type fakeProductRepo struct {
	products map[uint]*catalogdomain.Product
}

func newFakeProductRepo(products ...*catalogdomain.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[uint]*catalogdomain.Product)}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (r *fakeProductRepo) Save(ctx context.Context, p *catalogdomain.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uint) (*catalogdomain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, catalogdomain.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) GetBySKU(ctx context.Context, sku string) (*catalogdomain.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, catalogdomain.ErrProductNotFound
}

func (r *fakeProductRepo) List(ctx context.Context, f catalogdomain.ProductFilter) ([]*catalogdomain.Product, int64, error) {
	var out []*catalogdomain.Product
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uint) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) IncrementView(ctx context.Context, id uint) error {
	if p, ok := r.products[id]; ok {
		p.ViewCount++
	}
	return nil
}

func (r *fakeProductRepo) IncrementSold(ctx context.Context, id uint, quantity int) error {
	if p, ok := r.products[id]; ok {
		p.SoldCount += quantity
	}
	return nil
}

func (r *fakeProductRepo) DecrementStock(ctx context.Context, id uint, quantity int) error {
	p, ok := r.products[id]
	if !ok || p.StockQuantity < quantity {
		return catalogdomain.ErrInsufficientStock
	}
	p.StockQuantity -= quantity
	return nil
}

func (r *fakeProductRepo) LowStock(ctx context.Context, limit int) ([]*catalogdomain.Product, error) {
	return nil, nil
}

// fakeCartRepo 内存购物车仓储。条目单独存放，读取时重新装配副本，
// 与 mysql 实现每次 Preload 重查的行为一致。
type fakeCartRepo struct {
	nextID uint
	carts  map[string]*domain.Cart
	items  map[uint][]domain.CartItem
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{
		nextID: 1,
		carts:  make(map[string]*domain.Cart),
		items:  make(map[uint][]domain.CartItem),
	}
}

func (r *fakeCartRepo) Save(ctx context.Context, cart *domain.Cart) error {
	if cart.ID == 0 {
		cart.ID = r.nextID
		r.nextID++
	}
	row := *cart
	row.Items = nil
	r.carts[cart.UserID] = &row
	return nil
}

func (r *fakeCartRepo) GetByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	row, ok := r.carts[userID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	cart := *row
	cart.Items = append([]domain.CartItem(nil), r.items[row.ID]...)
	return &cart, nil
}

func (r *fakeCartRepo) SaveItem(ctx context.Context, item *domain.CartItem) error {
	items := r.items[item.CartID]
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i] = *item
			return nil
		}
	}
	r.items[item.CartID] = append(items, *item)
	return nil
}

func (r *fakeCartRepo) Touch(ctx context.Context, cartID uint) error {
	for _, row := range r.carts {
		if row.ID == cartID {
			row.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (r *fakeCartRepo) DeleteItem(ctx context.Context, cartID, productID uint) error {
	items := r.items[cartID]
	for i := range items {
		if items[i].ProductID == productID {
			r.items[cartID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeCartRepo) DeleteItems(ctx context.Context, cartID uint) error {
	r.items[cartID] = nil
	return nil
}

func (r *fakeCartRepo) CountItems(ctx context.Context, userID string) (int, error) {
	row, ok := r.carts[userID]
	if !ok {
		return 0, nil
	}
	total := 0
	for _, item := range r.items[row.ID] {
		total += item.Quantity
	}
	return total, nil
}

// recordingPublisher 记录发布的事件主题
type recordingPublisher struct {
	topics []string
}

func (p *recordingPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	p.topics = append(p.topics, topic)
	return nil
}

func testProduct(id uint, name string, price int64, stock int) *catalogdomain.Product {
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

func newCartService(products *fakeProductRepo) (*CartCommandService, *fakeCartRepo, *recordingPublisher) {
	carts := newFakeCartRepo()
	publisher := &recordingPublisher{}
	return NewCartCommandService(carts, products, publisher, nil), carts, publisher
}

func TestAddItemCreatesCartAndSnapshotsPrice(t *testing.T) {
	product := testProduct(1, "ESP32-S3 DevKit", 320000, 50)
	discount := decimal.NewFromInt(280000)
	product.DiscountPrice = &discount
	svc, carts, publisher := newCartService(newFakeProductRepo(product))

	result, err := svc.AddItem(context.Background(), "guest_abc", 1, 2)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.CartCount)
	assert.Contains(t, result.Message, "ESP32-S3 DevKit")

	cart, err := carts.GetByUserID(context.Background(), "guest_abc")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	// 单价取折扣后的展示价快照
	assert.True(t, cart.Items[0].UnitPrice.Equal(discount))

	assert.Contains(t, publisher.topics, domain.CartCreatedEventType)
	assert.Contains(t, publisher.topics, domain.CartItemAddedEventType)
}

func TestAddItemMergesQuantity(t *testing.T) {
	svc, carts, _ := newCartService(newFakeProductRepo(testProduct(1, "BME280", 85000, 10)))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", 1, 3)
	require.NoError(t, err)
	result, err := svc.AddItem(ctx, "user-1", 1, 4)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 7, result.CartCount)

	cart, _ := carts.GetByUserID(ctx, "user-1")
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 7, cart.Items[0].Quantity)
}

func TestAddItemBumpsCartUpdatedAt(t *testing.T) {
	svc, carts, _ := newCartService(newFakeProductRepo(testProduct(1, "BME280", 85000, 10)))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", 1, 1)
	require.NoError(t, err)

	stale := time.Now().Add(-time.Hour)
	carts.carts["user-1"].UpdatedAt = stale

	_, err = svc.AddItem(ctx, "user-1", 1, 1)
	require.NoError(t, err)

	cart, err := carts.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, cart.UpdatedAt.After(stale))
}

func TestAddItemRejectsOverStock(t *testing.T) {
	svc, _, _ := newCartService(newFakeProductRepo(testProduct(1, "DHT22", 65000, 5)))
	ctx := context.Background()

	result, err := svc.AddItem(ctx, "user-1", 1, 6)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Only 5 left")
	assert.Equal(t, 0, result.CartCount)

	// 合并后的数量同样受库存约束
	_, err = svc.AddItem(ctx, "user-1", 1, 3)
	require.NoError(t, err)
	result, err = svc.AddItem(ctx, "user-1", 1, 3)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 3, result.CartCount)
}

func TestAddItemRejectsUnavailableProduct(t *testing.T) {
	inactive := testProduct(2, "Old Board", 10000, 10)
	inactive.IsActive = false
	svc, _, _ := newCartService(newFakeProductRepo(inactive))
	ctx := context.Background()

	result, err := svc.AddItem(ctx, "user-1", 2, 1)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "unavailable")

	result, err = svc.AddItem(ctx, "user-1", 99, 1)
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestUpdateQuantityZeroRemovesItem(t *testing.T) {
	svc, carts, _ := newCartService(newFakeProductRepo(testProduct(1, "LM2596", 42000, 100)))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", 1, 2)
	require.NoError(t, err)

	result, err := svc.UpdateQuantity(ctx, "user-1", 1, 0)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.CartCount)

	cart, _ := carts.GetByUserID(ctx, "user-1")
	assert.Empty(t, cart.Items)
}

func TestUpdateQuantityRespectsStock(t *testing.T) {
	svc, _, _ := newCartService(newFakeProductRepo(testProduct(1, "LM2596", 42000, 4)))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", 1, 2)
	require.NoError(t, err)

	result, err := svc.UpdateQuantity(ctx, "user-1", 1, 5)
	require.NoError(t, err)
	assert.False(t, result.Success)

	result, err = svc.UpdateQuantity(ctx, "user-1", 1, 4)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 4, result.CartCount)
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	svc, _, _ := newCartService(newFakeProductRepo(testProduct(1, "RES-KIT", 95000, 10)))
	ctx := context.Background()

	// 没有购物车时也成功
	result, err := svc.RemoveItem(ctx, "user-1", 1)
	require.NoError(t, err)
	assert.True(t, result.Success)

	_, err = svc.AddItem(ctx, "user-1", 1, 1)
	require.NoError(t, err)

	result, err = svc.RemoveItem(ctx, "user-1", 1)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.CartCount)

	// 重复移除同样成功
	result, err = svc.RemoveItem(ctx, "user-1", 1)
	require.NoError(t, err)
	assert.True(t, result.Success)
}

// fakeGuestRepo 内存游客会话仓储
type fakeGuestRepo struct {
	sessions map[string]bool
}

func (r *fakeGuestRepo) Touch(ctx context.Context, guestID string, ttl time.Duration) error {
	r.sessions[guestID] = true
	return nil
}

func (r *fakeGuestRepo) Exists(ctx context.Context, guestID string) (bool, error) {
	return r.sessions[guestID], nil
}

func TestResolveIdentity(t *testing.T) {
	guests := &fakeGuestRepo{sessions: make(map[string]bool)}
	identity := NewCartIdentityService(guests, 30*time.Minute)
	ctx := context.Background()

	// 游客首次访问生成 guest_ 前缀标识
	id1, token1 := identity.Resolve(ctx, nil, "")
	assert.Equal(t, id1, token1)
	assert.Contains(t, id1, GuestIDPrefix)

	// 有效令牌复用
	id2, token2 := identity.Resolve(ctx, nil, token1)
	assert.Equal(t, id1, id2)
	assert.Equal(t, token1, token2)

	// 过期或伪造令牌重新生成
	id3, _ := identity.Resolve(ctx, nil, "guest_expired")
	assert.NotEqual(t, "guest_expired", id3)

	// 登录用户直接使用用户 ID，不再下发游客令牌
	user := &authdomain.User{}
	user.ID = 42
	id4, token4 := identity.Resolve(ctx, user, token1)
	assert.Equal(t, "42", id4)
	assert.Empty(t, token4)
}
