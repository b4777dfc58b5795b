package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderPaid      OrderStatus = "PAID"
	OrderCancelled OrderStatus = "CANCELLED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

type ShippingType string

const (
	ShippingDelivery ShippingType = "DELIVERY"
	ShippingPickup   ShippingType = "PICKUP"
)

// ValidOrderStatus reports whether s is one of the six fulfillment states.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderPaid, OrderCancelled, OrderShipped, OrderDelivered:
		return true
	}
	return false
}

// Order is one checkout attempt. Money fields are snapshots fixed at creation
// and never recomputed from live catalog prices. Status tracks fulfillment,
// PaymentStatus tracks money; the two move independently. Orders are never
// deleted.
type Order struct {
	gorm.Model
	UserID      uint   `json:"userId" gorm:"index"`
	CartID      *uint  `json:"cartId"`
	OrderNumber string `json:"orderNumber" gorm:"uniqueIndex;size:32"`

	Status        OrderStatus   `json:"status" gorm:"type:varchar(20);default:'PENDING'"`
	PaymentStatus PaymentStatus `json:"paymentStatus" gorm:"type:varchar(20);default:'PENDING'"`

	ShippingType ShippingType `json:"shippingType" gorm:"type:varchar(20)"`
	StoreID      *uint        `json:"storeId"`

	SubtotalAmount decimal.Decimal `json:"subtotalAmount" gorm:"type:decimal(10,2)"`
	DiscountAmount decimal.Decimal `json:"discountAmount" gorm:"type:decimal(10,2)"`
	ShippingAmount decimal.Decimal `json:"shippingAmount" gorm:"type:decimal(10,2)"`
	TotalAmount    decimal.Decimal `json:"totalAmount" gorm:"type:decimal(10,2)"`

	MercadoPagoPreferenceID string `json:"mercadoPagoPreferenceId" gorm:"size:191"`
	MercadoPagoPaymentID    string `json:"mercadoPagoPaymentId" gorm:"index;size:64"`

	Items    []OrderItem    `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Shipping *OrderShipping `json:"shipping" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments []OrderPayment `json:"payments" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is an immutable snapshot of a purchased line. Name, slug, size and
// color are captured at creation so later catalog edits never alter history.
type OrderItem struct {
	gorm.Model
	OrderID          uint  `json:"orderId" gorm:"index"`
	ProductID        uint  `json:"productId"`
	ProductVariantID *uint `json:"productVariantId"`

	ProductNameSnapshot string `json:"name"`
	ProductSlugSnapshot string `json:"slug"`
	SizeSnapshot        string `json:"size"`
	ColorSnapshot       string `json:"color"`

	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice" gorm:"type:decimal(10,2)"`
	TotalPrice decimal.Decimal `json:"totalPrice" gorm:"type:decimal(10,2)"`
}

// OrderShipping holds a denormalized address copy, present only for DELIVERY
// orders.
type OrderShipping struct {
	gorm.Model
	OrderID               uint       `json:"orderId" gorm:"uniqueIndex"`
	RecipientName         string     `json:"recipientName"`
	Phone                 string     `json:"phone"`
	Street                string     `json:"street"`
	Number                string     `json:"number"`
	Complement            string     `json:"complement"`
	Neighborhood          string     `json:"neighborhood"`
	City                  string     `json:"city"`
	State                 string     `json:"state"`
	ZipCode               string     `json:"zipCode"`
	Country               string     `json:"country"`
	ShippingMethod        string     `json:"shippingMethod"`
	EstimatedDeliveryDate *time.Time `json:"estimatedDeliveryDate"`
}

// OrderPayment is an append-style ledger of provider-reported payment
// attempts. An order may accumulate several rows across retried or duplicated
// notifications; RawPayload stores the provider response verbatim for audit.
type OrderPayment struct {
	gorm.Model
	OrderID       uint           `json:"orderId" gorm:"index"`
	Provider      string         `json:"provider"`
	Method        string         `json:"method"`
	Status        string         `json:"status"`
	TransactionID string         `json:"transactionId"`
	RawPayload    datatypes.JSON `json:"-"`
	PaidAt        *time.Time     `json:"paidAt"`
}
