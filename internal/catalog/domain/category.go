package domain

import "gorm.io/gorm"

// Category 商品分类，支持一级父子结构
type Category struct {
	gorm.Model
	Name             string     `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Description      string     `gorm:"column:description;type:varchar(500)" json:"description"`
	ImageURL         string     `gorm:"column:image_url;type:varchar(500)" json:"image_url"`
	ParentCategoryID *uint      `gorm:"column:parent_category_id;index" json:"parent_category_id"`
	SubCategories    []Category `gorm:"foreignKey:ParentCategoryID" json:"sub_categories,omitempty"`
	IsActive         bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	DisplayOrder     int        `gorm:"column:display_order;not null;default:0" json:"display_order"`
	// 列表查询时由仓储填充，不落库
	ProductCount int64 `gorm:"-" json:"product_count"`
}

func (Category) TableName() string { return "categories" }

// Brand 品牌
type Brand struct {
	gorm.Model
	Name         string `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Description  string `gorm:"column:description;type:varchar(500)" json:"description"`
	LogoURL      string `gorm:"column:logo_url;type:varchar(500)" json:"logo_url"`
	Website      string `gorm:"column:website;type:varchar(200)" json:"website"`
	IsActive     bool   `gorm:"column:is_active;not null;default:true" json:"is_active"`
	ProductCount int64  `gorm:"-" json:"product_count"`
}

func (Brand) TableName() string { return "brands" }
