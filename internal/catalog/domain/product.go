// Package domain 包含商品目录的领域模型
package domain

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockStatus 库存状态
type StockStatus string

const (
	StockStatusOut StockStatus = "OUT_OF_STOCK"
	StockStatusLow StockStatus = "LOW_STOCK"
	StockStatusIn  StockStatus = "IN_STOCK"
)

// Product 商品实体
// 价格使用货币最小单位，discount_price 为空表示无折扣
type Product struct {
	gorm.Model
	Name                string           `gorm:"column:name;type:varchar(200);not null" json:"name"`
	SKU                 string           `gorm:"column:sku;type:varchar(50);uniqueIndex;not null" json:"sku"`
	PartNumber          string           `gorm:"column:part_number;type:varchar(100)" json:"part_number"`
	ShortDescription    string           `gorm:"column:short_description;type:varchar(1000)" json:"short_description"`
	DetailedDescription string           `gorm:"column:detailed_description;type:text" json:"detailed_description"`
	Price               decimal.Decimal  `gorm:"column:price;type:decimal(18,2);not null" json:"price"`
	DiscountPrice       *decimal.Decimal `gorm:"column:discount_price;type:decimal(18,2)" json:"discount_price"`
	StockQuantity       int              `gorm:"column:stock_quantity;not null;default:0" json:"stock_quantity"`
	MinStockLevel       int              `gorm:"column:min_stock_level;not null;default:5" json:"min_stock_level"`
	MainImageURL        string           `gorm:"column:main_image_url;type:varchar(500)" json:"main_image_url"`
	DatasheetURL        string           `gorm:"column:datasheet_url;type:varchar(500)" json:"datasheet_url"`
	CategoryID          uint             `gorm:"column:category_id;index;not null" json:"category_id"`
	Category            *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	BrandID             uint             `gorm:"column:brand_id;index;not null" json:"brand_id"`
	Brand               *Brand           `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	IsActive            bool             `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsFeatured          bool             `gorm:"column:is_featured;not null;default:false" json:"is_featured"`
	IsNewProduct        bool             `gorm:"column:is_new_product;not null;default:false" json:"is_new_product"`
	ViewCount           int              `gorm:"column:view_count;not null;default:0" json:"view_count"`
	SoldCount           int              `gorm:"column:sold_count;not null;default:0" json:"sold_count"`
	Attributes          []ProductAttribute `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"attributes,omitempty"`
	Reviews             []ProductReview    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}

func (Product) TableName() string { return "products" }

// DisplayPrice 对外展示价格，有折扣价时取折扣价
func (p *Product) DisplayPrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// HasDiscount 是否有有效折扣
func (p *Product) HasDiscount() bool {
	return p.DiscountPrice != nil && p.DiscountPrice.LessThan(p.Price)
}

// DiscountPercentage 折扣百分比，无折扣时返回零值和 false
func (p *Product) DiscountPercentage() (decimal.Decimal, bool) {
	if !p.HasDiscount() || p.Price.IsZero() {
		return decimal.Zero, false
	}
	pct := p.Price.Sub(*p.DiscountPrice).
		Div(p.Price).
		Mul(decimal.NewFromInt(100)).
		Round(0)
	return pct, true
}

// Stock 当前库存状态
func (p *Product) Stock() StockStatus {
	switch {
	case p.StockQuantity <= 0:
		return StockStatusOut
	case p.StockQuantity <= p.MinStockLevel:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// IsAvailable 商品是否可按给定数量购买
func (p *Product) IsAvailable(quantity int) bool {
	return p.IsActive && quantity > 0 && p.StockQuantity >= quantity
}
