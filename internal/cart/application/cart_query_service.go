package application

import (
	"context"
	"errors"

	catalogdomain "github.com/wyfcoding/electronicsstore/internal/catalog/domain"
	"github.com/wyfcoding/electronicsstore/internal/cart/domain"
	"github.com/wyfcoding/electronicsstore/pkg/logger"
)

// CartItemView 购物车条目视图，附带商品摘要
type CartItemView struct {
	ProductID  uint   `json:"product_id"`
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	ImageURL   string `json:"image_url"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
	TotalPrice string `json:"total_price"`
}

// CartView 购物车视图
type CartView struct {
	UserID      string         `json:"user_id"`
	Items       []CartItemView `json:"items"`
	TotalItems  int            `json:"total_items"`
	TotalAmount string         `json:"total_amount"`
}

// CartQueryService 购物车查询服务
type CartQueryService struct {
	carts    domain.CartRepository
	products catalogdomain.ProductRepository
}

// NewCartQueryService 创建购物车查询服务实例
func NewCartQueryService(carts domain.CartRepository, products catalogdomain.ProductRepository) *CartQueryService {
	return &CartQueryService{carts: carts, products: products}
}

// GetCart 购物车视图。存储异常时降级为空购物车，保证页面可渲染。
func (s *CartQueryService) GetCart(ctx context.Context, userID string) (*CartView, error) {
	view := &CartView{
		UserID:      userID,
		Items:       []CartItemView{},
		TotalAmount: "0",
	}

	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return view, nil
		}
		logger.Error(ctx, "failed to load cart, degrading to empty view", "user_id", userID, "error", err)
		return view, nil
	}

	for i := range cart.Items {
		item := &cart.Items[i]
		itemView := CartItemView{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.String(),
			TotalPrice: item.TotalPrice().String(),
		}
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err == nil {
			itemView.Name = product.Name
			itemView.SKU = product.SKU
			itemView.ImageURL = product.MainImageURL
		}
		view.Items = append(view.Items, itemView)
	}
	view.TotalItems = cart.TotalItems()
	view.TotalAmount = cart.TotalAmount().String()
	return view, nil
}

// GetCartCount 购物车件数，异常时降级为 0
func (s *CartQueryService) GetCartCount(ctx context.Context, userID string) int {
	count, err := s.carts.CountItems(ctx, userID)
	if err != nil {
		logger.Warn(ctx, "failed to count cart items", "user_id", userID, "error", err)
		return 0
	}
	return count
}
