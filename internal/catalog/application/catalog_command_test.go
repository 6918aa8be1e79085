package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/electronicsstore/internal/catalog/domain"
)

// memProductRepo 内存商品仓储
type memProductRepo struct {
	nextID   uint
	products map[uint]*domain.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uint]*domain.Product)}
}

func (r *memProductRepo) Save(ctx context.Context, p *domain.Product) error {
	if p.ID == 0 {
		r.nextID++
		p.ID = r.nextID
	}
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (r *memProductRepo) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *memProductRepo) List(ctx context.Context, f domain.ProductFilter) ([]*domain.Product, int64, error) {
	return nil, 0, nil
}

func (r *memProductRepo) Delete(ctx context.Context, id uint) error {
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) IncrementView(ctx context.Context, id uint) error {
	if p, ok := r.products[id]; ok {
		p.ViewCount++
	}
	return nil
}

func (r *memProductRepo) IncrementSold(ctx context.Context, id uint, quantity int) error {
	if p, ok := r.products[id]; ok {
		p.SoldCount += quantity
	}
	return nil
}

func (r *memProductRepo) DecrementStock(ctx context.Context, id uint, quantity int) error {
	p, ok := r.products[id]
	if !ok || p.StockQuantity < quantity {
		return domain.ErrInsufficientStock
	}
	p.StockQuantity -= quantity
	return nil
}

func (r *memProductRepo) LowStock(ctx context.Context, limit int) ([]*domain.Product, error) {
	return nil, nil
}

// memReviewRepo 内存评价仓储
type memReviewRepo struct {
	nextID  uint
	reviews map[uint]*domain.ProductReview
}

func newMemReviewRepo() *memReviewRepo {
	return &memReviewRepo{reviews: make(map[uint]*domain.ProductReview)}
}

func (r *memReviewRepo) Save(ctx context.Context, review *domain.ProductReview) error {
	if review.ID == 0 {
		r.nextID++
		review.ID = r.nextID
	}
	r.reviews[review.ID] = review
	return nil
}

func (r *memReviewRepo) ListApproved(ctx context.Context, productID uint) ([]*domain.ProductReview, error) {
	var out []*domain.ProductReview
	for _, rv := range r.reviews {
		if rv.ProductID == productID && rv.IsApproved {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *memReviewRepo) ListPending(ctx context.Context, limit int) ([]*domain.ProductReview, error) {
	var out []*domain.ProductReview
	for _, rv := range r.reviews {
		if !rv.IsApproved {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *memReviewRepo) Approve(ctx context.Context, id uint) error {
	if rv, ok := r.reviews[id]; ok {
		rv.IsApproved = true
	}
	return nil
}

func newCatalogCommands() (*CatalogCommandService, *memProductRepo, *memReviewRepo) {
	products := newMemProductRepo()
	reviews := newMemReviewRepo()
	svc := NewCatalogCommandService(products, nil, nil, reviews, nil)
	return svc, products, reviews
}

func TestCreateProductRejectsDuplicateSKU(t *testing.T) {
	svc, _, _ := newCatalogCommands()
	ctx := context.Background()

	cmd := CreateProductCommand{
		Name:       "ESP32-S3 DevKit",
		SKU:        "ESP32-S3-DK",
		Price:      decimal.NewFromInt(320000),
		CategoryID: 1,
		BrandID:    1,
	}
	created, err := svc.CreateProduct(ctx, cmd)
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Equal(t, 5, created.MinStockLevel)

	_, err = svc.CreateProduct(ctx, cmd)
	assert.ErrorIs(t, err, domain.ErrDuplicateSKU)
}

func TestCreateReviewValidatesRatingAndProduct(t *testing.T) {
	svc, products, reviews := newCatalogCommands()
	ctx := context.Background()

	product := &domain.Product{Name: "BME280", SKU: "BME280-MOD", IsActive: true}
	require.NoError(t, products.Save(ctx, product))

	_, err := svc.CreateReview(ctx, CreateReviewCommand{ProductID: product.ID, Rating: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	_, err = svc.CreateReview(ctx, CreateReviewCommand{ProductID: product.ID, Rating: 6})
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	_, err = svc.CreateReview(ctx, CreateReviewCommand{ProductID: 999, Rating: 4})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	review, err := svc.CreateReview(ctx, CreateReviewCommand{
		ProductID:    product.ID,
		CustomerName: "Sam",
		Rating:       4,
		Comment:      "Accurate readings",
	})
	require.NoError(t, err)
	// 新评价默认待审核
	assert.False(t, review.IsApproved)

	require.NoError(t, svc.ApproveReview(ctx, review.ID))
	approved, err := reviews.ListApproved(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, approved, 1)
}

func TestRecordSaleIncrementsSoldCount(t *testing.T) {
	svc, products, _ := newCatalogCommands()
	ctx := context.Background()

	product := &domain.Product{Name: "DHT22", SKU: "DHT22-STD", IsActive: true}
	require.NoError(t, products.Save(ctx, product))

	require.NoError(t, svc.RecordSale(ctx, product.ID, 3))
	require.NoError(t, svc.RecordSale(ctx, product.ID, 2))
	assert.Equal(t, 5, products.products[product.ID].SoldCount)
}
