package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductActive   ProductStatus = "ACTIVE"
	ProductInactive ProductStatus = "INACTIVE"
)

type Category struct {
	gorm.Model
	Slug        string `json:"slug" gorm:"uniqueIndex;size:191"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive" gorm:"default:true"`
	SortOrder   int    `json:"sortOrder"`
}

type Product struct {
	gorm.Model
	CategoryID  uint             `json:"categoryId"`
	Slug        string           `json:"slug" gorm:"uniqueIndex;size:191"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price" gorm:"type:decimal(10,2)"`
	OldPrice    *decimal.Decimal `json:"oldPrice" gorm:"type:decimal(10,2)"`
	SKU         string           `json:"sku"`
	Status      ProductStatus    `json:"status" gorm:"type:varchar(20);default:'ACTIVE'"`
	IsFeatured  bool             `json:"isFeatured"`
	Images      []ProductImage   `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Variants    []ProductVariant `json:"variants" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

type ProductImage struct {
	gorm.Model
	ProductID uint   `json:"productId"`
	ImageURL  string `json:"imageUrl"`
	IsMain    bool   `json:"isMain"`
	SortOrder int    `json:"sortOrder"`
}

// ProductVariant carries per size/color stock. Price, when set, overrides the
// product price.
type ProductVariant struct {
	gorm.Model
	ProductID uint             `json:"productId" gorm:"index"`
	Size      string           `json:"size"`
	Color     string           `json:"color"`
	SKU       string           `json:"sku"`
	Stock     int              `json:"stock"`
	Price     *decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
}
