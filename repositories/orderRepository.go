package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/unnastore/unna-api/models"
)

// PaymentTransition describes a conditional order state change. Status is
// optional: a refund flips PaymentStatus without touching fulfillment.
type PaymentTransition struct {
	// From lists the payment statuses the order must currently be in for the
	// transition to apply. This is the compare half of the compare-and-swap
	// that makes webhook redelivery safe.
	From          []models.PaymentStatus
	Status        *models.OrderStatus
	PaymentStatus models.PaymentStatus
	PaymentID     string
}

// FullOrder is the read projection for order detail pages.
type FullOrder struct {
	Order    models.Order
	Items    []models.OrderItem
	Shipping *models.OrderShipping
	Payments []models.OrderPayment
}

type OrderRepository interface {
	// Create persists the order, its items, its shipping row (if any) and the
	// initial payment stub in one transaction. No partial order survives a
	// failure.
	Create(ctx context.Context, order *models.Order, items []models.OrderItem, shipping *models.OrderShipping, payment *models.OrderPayment) error

	FindByID(ctx context.Context, id uint) (*models.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*models.Order, error)
	FindFullByNumber(ctx context.Context, orderNumber string) (*FullOrder, error)
	ListAll(ctx context.Context, status *models.OrderStatus) ([]models.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Order, error)

	UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus) error
	SetPreferenceID(ctx context.Context, orderID uint, preferenceID string) error

	// TransitionPayment applies t as a single conditional UPDATE and reports
	// whether any row changed. Concurrent duplicate notifications race on
	// this statement; at most one of them observes applied == true.
	TransitionPayment(ctx context.Context, orderID uint, t PaymentTransition) (applied bool, err error)

	AppendPayment(ctx context.Context, payment *models.OrderPayment) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order, items []models.OrderItem, shipping *models.OrderShipping, payment *models.OrderPayment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		if shipping != nil {
			shipping.OrderID = order.ID
			if err := tx.Create(shipping).Error; err != nil {
				return err
			}
		}
		if payment != nil {
			payment.OrderID = order.ID
			if err := tx.Create(payment).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("order_number = ?", orderNumber).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByPaymentID(ctx context.Context, paymentID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("mercado_pago_payment_id = ?", paymentID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindFullByNumber(ctx context.Context, orderNumber string) (*FullOrder, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("order_number = ?", orderNumber).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	full := &FullOrder{Order: order}

	if err := r.db.WithContext(ctx).Where("order_id = ?", order.ID).Find(&full.Items).Error; err != nil {
		return nil, err
	}

	var shipping models.OrderShipping
	err = r.db.WithContext(ctx).Where("order_id = ?", order.ID).First(&shipping).Error
	if err == nil {
		full.Shipping = &shipping
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Order("paid_at DESC, id DESC").
		Find(&full.Payments).Error; err != nil {
		return nil, err
	}

	return full, nil
}

func (r *orderRepository) ListAll(ctx context.Context, status *models.OrderStatus) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}

func (r *orderRepository) SetPreferenceID(ctx context.Context, orderID uint, preferenceID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("mercado_pago_preference_id", preferenceID).Error
}

func (r *orderRepository) TransitionPayment(ctx context.Context, orderID uint, t PaymentTransition) (bool, error) {
	updates := map[string]any{
		"payment_status": t.PaymentStatus,
	}
	if t.Status != nil {
		updates["status"] = *t.Status
	}
	if t.PaymentID != "" {
		updates["mercado_pago_payment_id"] = t.PaymentID
	}

	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND payment_status IN ?", orderID, t.From).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *orderRepository) AppendPayment(ctx context.Context, payment *models.OrderPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}
