package domain

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart 购物车聚合根。UserID 既可以是注册用户 ID 的字符串形式，
// 也可以是 guest_<uuid> 形式的游客标识。
type Cart struct {
	gorm.Model
	UserID string     `gorm:"column:user_id;type:varchar(64);uniqueIndex;not null" json:"user_id"`
	Items  []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
}

// TableName 指定表名
func (Cart) TableName() string { return "carts" }

// TotalAmount 购物车商品总金额
func (c *Cart) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].TotalPrice())
	}
	return total
}

// TotalItems 购物车商品总件数
func (c *Cart) TotalItems() int {
	count := 0
	for i := range c.Items {
		count += c.Items[i].Quantity
	}
	return count
}

// FindItem 按商品 ID 查找条目，未找到返回 nil
func (c *Cart) FindItem(productID uint) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// CartItem 购物车条目，UnitPrice 为加入时的展示价快照
type CartItem struct {
	gorm.Model
	CartID    uint            `gorm:"column:cart_id;index;not null" json:"cart_id"`
	ProductID uint            `gorm:"column:product_id;index;not null" json:"product_id"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:decimal(18,2);not null" json:"unit_price"`
}

// TableName 指定表名
func (CartItem) TableName() string { return "cart_items" }

// TotalPrice 条目小计
func (i *CartItem) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
