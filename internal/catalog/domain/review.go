package domain

import "gorm.io/gorm"

// ProductAttribute 商品技术参数，例如 电压/5/V
type ProductAttribute struct {
	gorm.Model
	ProductID      uint   `gorm:"column:product_id;index;not null" json:"product_id"`
	AttributeName  string `gorm:"column:attribute_name;type:varchar(100);not null" json:"attribute_name"`
	AttributeValue string `gorm:"column:attribute_value;type:varchar(200);not null" json:"attribute_value"`
	Unit           string `gorm:"column:unit;type:varchar(20)" json:"unit"`
	DisplayOrder   int    `gorm:"column:display_order;not null;default:0" json:"display_order"`
}

func (ProductAttribute) TableName() string { return "product_attributes" }

// ProductReview 商品评价，审核通过后才对外展示
type ProductReview struct {
	gorm.Model
	ProductID     uint   `gorm:"column:product_id;index;not null" json:"product_id"`
	CustomerName  string `gorm:"column:customer_name;type:varchar(100);not null" json:"customer_name"`
	CustomerEmail string `gorm:"column:customer_email;type:varchar(200);not null" json:"customer_email"`
	Rating        int    `gorm:"column:rating;not null" json:"rating"`
	Title         string `gorm:"column:title;type:varchar(100)" json:"title"`
	Comment       string `gorm:"column:comment;type:varchar(1000)" json:"comment"`
	IsApproved    bool   `gorm:"column:is_approved;not null;default:false" json:"is_approved"`
}

func (ProductReview) TableName() string { return "product_reviews" }
