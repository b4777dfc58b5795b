package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartStatus string

const (
	CartActive    CartStatus = "ACTIVE"
	CartConverted CartStatus = "CONVERTED"
	CartAbandoned CartStatus = "ABANDONED"
)

// Cart is the mutable pre-order staging area. A user has at most one ACTIVE
// cart; converted and abandoned carts are kept as history.
type Cart struct {
	gorm.Model
	UserID uint       `json:"userId" gorm:"index"`
	Status CartStatus `json:"status" gorm:"type:varchar(20);default:'ACTIVE'"`
	Items  []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

type CartItem struct {
	gorm.Model
	CartID           uint            `json:"cartId" gorm:"index"`
	ProductID        uint            `json:"productId"`
	ProductVariantID *uint           `json:"productVariantId"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unitPrice" gorm:"type:decimal(10,2)"`
}
