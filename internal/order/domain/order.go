package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus 订单状态
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// Valid 校验状态是否在闭集内
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// PaymentStatus 支付状态
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Order 订单聚合根
type Order struct {
	gorm.Model
	OrderNumber     string          `gorm:"column:order_number;type:varchar(40);uniqueIndex;not null" json:"order_number"`
	UserID          string          `gorm:"column:user_id;type:varchar(64);index;not null" json:"user_id"`
	CustomerName    string          `gorm:"column:customer_name;type:varchar(100);not null" json:"customer_name"`
	CustomerEmail   string          `gorm:"column:customer_email;type:varchar(200);not null" json:"customer_email"`
	CustomerPhone   string          `gorm:"column:customer_phone;type:varchar(20)" json:"customer_phone"`
	ShippingAddress string          `gorm:"column:shipping_address;type:varchar(500);not null" json:"shipping_address"`
	Note            string          `gorm:"column:note;type:varchar(500)" json:"note"`
	Subtotal        decimal.Decimal `gorm:"column:subtotal;type:decimal(18,2);not null" json:"subtotal"`
	ShippingFee     decimal.Decimal `gorm:"column:shipping_fee;type:decimal(18,2);not null" json:"shipping_fee"`
	DiscountAmount  decimal.Decimal `gorm:"column:discount_amount;type:decimal(18,2);not null;default:0" json:"discount_amount"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:decimal(18,2);not null" json:"total_amount"`
	Status          OrderStatus     `gorm:"column:status;type:varchar(20);not null;default:'PENDING'" json:"status"`
	PaymentMethod   string          `gorm:"column:payment_method;type:varchar(30);not null;default:'COD'" json:"payment_method"`
	PaymentStatus   PaymentStatus   `gorm:"column:payment_status;type:varchar(20);not null;default:'PENDING'" json:"payment_status"`
	ProcessedAt     *time.Time      `gorm:"column:processed_at" json:"processed_at"`
	ShippedAt       *time.Time      `gorm:"column:shipped_at" json:"shipped_at"`
	DeliveredAt     *time.Time      `gorm:"column:delivered_at" json:"delivered_at"`
	CancelledAt     *time.Time      `gorm:"column:cancelled_at" json:"cancelled_at"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// TableName 指定表名
func (Order) TableName() string { return "orders" }

// CanTransitionTo 订单状态机：
// PENDING -> PROCESSING | CANCELLED
// PROCESSING -> SHIPPED | CANCELLED
// SHIPPED -> DELIVERED
func (o *Order) CanTransitionTo(target OrderStatus) bool {
	switch o.Status {
	case StatusPending:
		return target == StatusProcessing || target == StatusCancelled
	case StatusProcessing:
		return target == StatusShipped || target == StatusCancelled
	case StatusShipped:
		return target == StatusDelivered
	}
	return false
}

// TransitionTo 执行状态迁移并记录时间戳，非法迁移返回 ErrInvalidTransition
func (o *Order) TransitionTo(target OrderStatus, now time.Time) error {
	if !target.Valid() {
		return ErrInvalidStatus
	}
	if !o.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	o.Status = target
	switch target {
	case StatusProcessing:
		o.ProcessedAt = &now
	case StatusShipped:
		o.ShippedAt = &now
	case StatusDelivered:
		o.DeliveredAt = &now
	case StatusCancelled:
		o.CancelledAt = &now
	}
	return nil
}

// OrderItem 订单条目，下单时对商品名称、SKU、单价做快照
type OrderItem struct {
	gorm.Model
	OrderID     uint            `gorm:"column:order_id;index;not null" json:"order_id"`
	ProductID   uint            `gorm:"column:product_id;index;not null" json:"product_id"`
	ProductName string          `gorm:"column:product_name;type:varchar(200);not null" json:"product_name"`
	ProductSKU  string          `gorm:"column:product_sku;type:varchar(60);not null" json:"product_sku"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:decimal(18,2);not null" json:"unit_price"`
	Quantity    int             `gorm:"column:quantity;not null" json:"quantity"`
}

// TableName 指定表名
func (OrderItem) TableName() string { return "order_items" }

// TotalPrice 条目小计
func (i *OrderItem) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
