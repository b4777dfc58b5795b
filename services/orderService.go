package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/unnastore/unna-api/apperrors"
	"github.com/unnastore/unna-api/gateway/mercadopago"
	"github.com/unnastore/unna-api/models"
	"github.com/unnastore/unna-api/repositories"
	"github.com/unnastore/unna-api/utils"
)

// Flat shipping-cost policy: fixed rate for delivery, free pickup. This is a
// placeholder cost model, not a rate-shopping engine.
var deliveryFlatRate = decimal.NewFromInt(20)

const paymentProvider = "MERCADO_PAGO"

type OrderItemInput struct {
	ProductID        uint  `json:"productId" binding:"required"`
	ProductVariantID *uint `json:"productVariantId"`
	Quantity         int   `json:"quantity" binding:"required"`
}

type CustomerInput struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Document string `json:"document"`
	Phone    string `json:"phone" binding:"required"`
}

type AddressInput struct {
	Street       string `json:"street" binding:"required"`
	Number       string `json:"number" binding:"required"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood" binding:"required"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	ZipCode      string `json:"zipCode" binding:"required"`
	Country      string `json:"country"`
}

type ShippingInput struct {
	Type    models.ShippingType `json:"type" binding:"required"`
	StoreID *uint               `json:"storeId"`
	Address *AddressInput       `json:"address"`
}

type PaymentInput struct {
	Method       string `json:"method" binding:"required"`
	Installments int    `json:"installments"`
}

type CreateOrderInput struct {
	Items    []OrderItemInput `json:"items" binding:"required"`
	Customer CustomerInput    `json:"customer" binding:"required"`
	Shipping ShippingInput    `json:"shipping" binding:"required"`
	Payment  PaymentInput     `json:"payment" binding:"required"`
}

type CreateOrderResult struct {
	OrderNumber string          `json:"orderNumber"`
	Total       decimal.Decimal `json:"total"`
	MercadoPago GatewayRedirect `json:"mercadoPago"`
}

type GatewayRedirect struct {
	PreferenceID string `json:"preferenceId"`
	InitPoint    string `json:"initPoint"`
}

type OrderService struct {
	orders   repositories.OrderRepository
	products repositories.ProductRepository
	carts    repositories.CartRepository
	stores   repositories.StoreRepository
	users    repositories.UserRepository
	gateway  PaymentGateway
	log      zerolog.Logger
}

func NewOrderService(
	orders repositories.OrderRepository,
	products repositories.ProductRepository,
	carts repositories.CartRepository,
	stores repositories.StoreRepository,
	users repositories.UserRepository,
	gateway PaymentGateway,
	log zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		carts:    carts,
		stores:   stores,
		users:    users,
		gateway:  gateway,
		log:      log.With().Str("service", "order").Logger(),
	}
}

func generateOrderNumber() (string, error) {
	suffix, err := utils.RandomHex(4)
	if err != nil {
		return "", err
	}
	return "UNNA-" + suffix, nil
}

func validateCreateOrder(input *CreateOrderInput) *apperrors.Error {
	if len(input.Items) == 0 {
		return apperrors.Validation("order must contain at least one item", nil)
	}
	for i, item := range input.Items {
		if item.Quantity < 1 {
			return apperrors.Validation(
				fmt.Sprintf("items[%d].quantity must be at least 1", i), nil)
		}
	}

	switch input.Shipping.Type {
	case models.ShippingDelivery:
		if input.Shipping.Address == nil {
			return apperrors.Validation("address is required for delivery shipping", nil)
		}
	case models.ShippingPickup:
		if input.Shipping.StoreID == nil {
			return apperrors.Validation("store is required for pickup shipping", nil)
		}
	default:
		return apperrors.Validation("shipping type must be DELIVERY or PICKUP", nil)
	}

	return nil
}

// CreateOrder turns the requested line items into a persisted order with a
// fixed price snapshot, then asks the gateway for a checkout preference.
// Stock is not touched here: it is decremented only at confirmed payment so
// abandoned checkouts never lock stock away.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint, input *CreateOrderInput) (*CreateOrderResult, error) {
	if err := validateCreateOrder(input); err != nil {
		return nil, err
	}

	cart, err := s.carts.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load cart", err)
	}
	if cart == nil {
		return nil, apperrors.NotFound("active cart not found")
	}

	if input.Shipping.Type == models.ShippingPickup {
		store, err := s.stores.FindByID(ctx, *input.Shipping.StoreID)
		if err != nil {
			return nil, apperrors.Internal("failed to load store", err)
		}
		if store == nil {
			return nil, apperrors.NotFound("store not found")
		}
	}

	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(input.Items))

	for _, item := range input.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, apperrors.Internal("failed to load product", err)
		}
		if product == nil {
			return nil, apperrors.NotFound("product not found")
		}

		price := product.Price
		var size, color string
		if item.ProductVariantID != nil {
			variants, err := s.products.FindVariants(ctx, product.ID)
			if err != nil {
				return nil, apperrors.Internal("failed to load product variants", err)
			}
			var variant *models.ProductVariant
			for i := range variants {
				if variants[i].ID == *item.ProductVariantID {
					variant = &variants[i]
					break
				}
			}
			if variant == nil {
				return nil, apperrors.NotFound("product variant not found")
			}
			if variant.Price != nil {
				price = *variant.Price
			}
			size = variant.Size
			color = variant.Color
		}

		lineTotal := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		items = append(items, models.OrderItem{
			ProductID:           product.ID,
			ProductVariantID:    item.ProductVariantID,
			ProductNameSnapshot: product.Name,
			ProductSlugSnapshot: product.Slug,
			SizeSnapshot:        size,
			ColorSnapshot:       color,
			Quantity:            item.Quantity,
			UnitPrice:           price,
			TotalPrice:          lineTotal,
		})
	}

	shippingAmount := decimal.Zero
	if input.Shipping.Type == models.ShippingDelivery {
		shippingAmount = deliveryFlatRate
	}
	discount := decimal.Zero
	total := subtotal.Sub(discount).Add(shippingAmount)

	orderNumber, err := generateOrderNumber()
	if err != nil {
		return nil, apperrors.Internal("failed to generate order number", err)
	}

	order := &models.Order{
		UserID:         userID,
		CartID:         &cart.ID,
		OrderNumber:    orderNumber,
		Status:         models.OrderPending,
		PaymentStatus:  models.PaymentPending,
		ShippingType:   input.Shipping.Type,
		StoreID:        input.Shipping.StoreID,
		SubtotalAmount: subtotal,
		DiscountAmount: discount,
		ShippingAmount: shippingAmount,
		TotalAmount:    total,
	}

	var shipping *models.OrderShipping
	if input.Shipping.Type == models.ShippingDelivery {
		addr := input.Shipping.Address
		country := addr.Country
		if country == "" {
			country = "Brasil"
		}
		shipping = &models.OrderShipping{
			RecipientName:  input.Customer.FullName,
			Phone:          input.Customer.Phone,
			Street:         addr.Street,
			Number:         addr.Number,
			Complement:     addr.Complement,
			Neighborhood:   addr.Neighborhood,
			City:           addr.City,
			State:          addr.State,
			ZipCode:        addr.ZipCode,
			Country:        country,
			ShippingMethod: "standard",
		}
	}

	paymentStub := &models.OrderPayment{
		Provider: paymentProvider,
		Method:   input.Payment.Method,
		Status:   string(models.PaymentPending),
	}

	if err := s.orders.Create(ctx, order, items, shipping, paymentStub); err != nil {
		return nil, apperrors.Internal("failed to create order", err)
	}

	// The cart is consumed, not deleted. Failure here is harmless: the cart
	// just stays ACTIVE as stale staging data.
	if err := s.carts.MarkConverted(ctx, cart.ID); err != nil {
		s.log.Warn().Err(err).Uint("cartId", cart.ID).Msg("failed to mark cart converted")
	}

	payer := mercadopago.Payer{
		FullName: input.Customer.FullName,
		Email:    input.Customer.Email,
		Phone:    input.Customer.Phone,
	}
	preference, err := s.gateway.CreatePreference(ctx, order, items, payer)
	if err != nil {
		// The order is already committed as PENDING; the caller retries
		// preference creation via POST /orders/:orderNumber/preference.
		s.log.Error().Err(err).Str("orderNumber", orderNumber).
			Msg("order persisted but preference creation failed")
		return nil, &apperrors.Error{
			Kind:    apperrors.KindUpstream,
			Message: "order created but payment initiation failed",
			Details: map[string]string{"orderNumber": orderNumber},
			Err:     err,
		}
	}

	if err := s.orders.SetPreferenceID(ctx, order.ID, preference.ID); err != nil {
		s.log.Error().Err(err).Str("orderNumber", orderNumber).
			Str("preferenceId", preference.ID).
			Msg("preference created but not saved on order")
	}

	return &CreateOrderResult{
		OrderNumber: orderNumber,
		Total:       total,
		MercadoPago: GatewayRedirect{PreferenceID: preference.ID, InitPoint: preference.InitPoint},
	}, nil
}

// RetryPreference re-runs the gateway step for a PENDING order that was
// committed but never got a preference (gateway failure at creation time).
func (s *OrderService) RetryPreference(ctx context.Context, requester Requester, orderNumber string) (*CreateOrderResult, error) {
	full, err := s.orders.FindFullByNumber(ctx, orderNumber)
	if err != nil {
		return nil, apperrors.Internal("failed to load order", err)
	}
	if full == nil || !requester.CanAccess(full.Order.UserID) {
		return nil, apperrors.NotFound("order not found")
	}
	order := full.Order

	if order.Status != models.OrderPending {
		return nil, apperrors.Conflict("payment can only be initiated for pending orders")
	}

	user, err := s.users.FindByID(ctx, order.UserID)
	if err != nil || user == nil {
		return nil, apperrors.Internal("failed to load order owner", err)
	}

	payer := mercadopago.Payer{FullName: user.Name, Email: user.Email}
	if full.Shipping != nil {
		payer.FullName = full.Shipping.RecipientName
		payer.Phone = full.Shipping.Phone
	}

	preference, err := s.gateway.CreatePreference(ctx, &order, full.Items, payer)
	if err != nil {
		return nil, err
	}

	if err := s.orders.SetPreferenceID(ctx, order.ID, preference.ID); err != nil {
		s.log.Error().Err(err).Str("orderNumber", orderNumber).
			Msg("preference created but not saved on order")
	}

	return &CreateOrderResult{
		OrderNumber: order.OrderNumber,
		Total:       order.TotalAmount,
		MercadoPago: GatewayRedirect{PreferenceID: preference.ID, InitPoint: preference.InitPoint},
	}, nil
}

// Requester identifies the authenticated caller for ownership checks.
type Requester struct {
	UserID uint
	Role   models.Role
}

// CanAccess reports whether the requester may read an order owned by ownerID.
func (r Requester) CanAccess(ownerID uint) bool {
	return r.UserID == ownerID || r.Role == models.RoleAdmin
}

type TimelineEvent struct {
	Label  string     `json:"label"`
	Status string     `json:"status"`
	Date   *time.Time `json:"date"`
}

type OrderDetails struct {
	Order    models.Order          `json:"order"`
	Items    []models.OrderItem    `json:"items"`
	Shipping *models.OrderShipping `json:"shipping"`
	Payments []models.OrderPayment `json:"payments"`
	Timeline []TimelineEvent       `json:"timeline"`
}

// GetOrderDetails returns the full projection of one order. Requesters who
// are neither the owner nor an admin get the same not-found as a nonexistent
// order, so order numbers cannot be probed.
func (s *OrderService) GetOrderDetails(ctx context.Context, requester Requester, orderNumber string) (*OrderDetails, error) {
	if orderNumber == "" {
		return nil, apperrors.Validation("orderNumber is required", nil)
	}

	full, err := s.orders.FindFullByNumber(ctx, orderNumber)
	if err != nil {
		return nil, apperrors.Internal("failed to load order", err)
	}
	if full == nil || !requester.CanAccess(full.Order.UserID) {
		return nil, apperrors.NotFound("order not found")
	}

	// Fixed event order: created, latest payment, shipping estimate. Not
	// sorted by timestamp.
	createdAt := full.Order.CreatedAt
	timeline := []TimelineEvent{{
		Label:  "Order created",
		Status: string(full.Order.Status),
		Date:   &createdAt,
	}}
	if len(full.Payments) > 0 {
		last := full.Payments[0]
		timeline = append(timeline, TimelineEvent{
			Label:  "Payment updated",
			Status: last.Status,
			Date:   last.PaidAt,
		})
	}
	if full.Shipping != nil {
		timeline = append(timeline, TimelineEvent{
			Label:  "Shipping / Delivery",
			Status: string(full.Order.Status),
			Date:   full.Shipping.EstimatedDeliveryDate,
		})
	}

	return &OrderDetails{
		Order:    full.Order,
		Items:    full.Items,
		Shipping: full.Shipping,
		Payments: full.Payments,
		Timeline: timeline,
	}, nil
}

// ListByUser returns the requester's orders, newest first.
func (s *OrderService) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to list orders", err)
	}
	return orders, nil
}

// ListAll returns all orders, optionally filtered by status, newest first.
func (s *OrderService) ListAll(ctx context.Context, status string) ([]models.Order, error) {
	var filter *models.OrderStatus
	if status != "" {
		candidate := models.OrderStatus(status)
		if !models.ValidOrderStatus(candidate) {
			return nil, apperrors.Validation("invalid status filter", nil)
		}
		filter = &candidate
	}

	orders, err := s.orders.ListAll(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("failed to list orders", err)
	}
	return orders, nil
}

type StatusUpdateResult struct {
	OrderID        uint               `json:"orderId"`
	PreviousStatus models.OrderStatus `json:"previousStatus"`
	NewStatus      models.OrderStatus `json:"newStatus"`
}

// UpdateOrderStatus is the manual admin override of the fulfillment status.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uint, status models.OrderStatus) (*StatusUpdateResult, error) {
	if !models.ValidOrderStatus(status) {
		return nil, apperrors.Validation("invalid order status", nil)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.Internal("failed to load order", err)
	}
	if order == nil {
		return nil, apperrors.NotFound("order not found")
	}

	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, apperrors.Internal("failed to update order status", err)
	}

	return &StatusUpdateResult{
		OrderID:        orderID,
		PreviousStatus: order.Status,
		NewStatus:      status,
	}, nil
}
