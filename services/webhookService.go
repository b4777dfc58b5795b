package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/unnastore/unna-api/apperrors"
	"github.com/unnastore/unna-api/models"
	"github.com/unnastore/unna-api/repositories"
)

// WebhookNotification is the inbound gateway event after boundary parsing.
// It is only a pointer to a payment: any status carried in the body is
// ignored and the authoritative state is re-fetched from the gateway.
type WebhookNotification struct {
	Topic     string
	PaymentID string
}

// WebhookService reconciles gateway notifications against local order state.
// It owns the order/payment state machine: PENDING -> {PAID, CANCELLED} are
// terminal for fulfillment; a refund flips paymentStatus without reverting
// fulfillment. All transitions run as conditional updates so concurrent
// redeliveries of the same payment are safe without any distributed lock.
type WebhookService struct {
	orders   repositories.OrderRepository
	products repositories.ProductRepository
	gateway  PaymentGateway
	log      zerolog.Logger
}

func NewWebhookService(
	orders repositories.OrderRepository,
	products repositories.ProductRepository,
	gateway PaymentGateway,
	log zerolog.Logger,
) *WebhookService {
	return &WebhookService{
		orders:   orders,
		products: products,
		gateway:  gateway,
		log:      log.With().Str("service", "webhook").Logger(),
	}
}

// Process handles one notification. A nil return means the event was durably
// accepted (including the deliberate drop of unusable events); an error means
// infrastructure failed and the gateway should redeliver.
func (s *WebhookService) Process(ctx context.Context, n WebhookNotification) error {
	if n.Topic != "payment" {
		s.log.Debug().Str("topic", n.Topic).Msg("webhook ignored: unhandled topic")
		return nil
	}
	if n.PaymentID == "" {
		return apperrors.Validation("webhook payload missing data.id", nil)
	}

	logger := s.log.With().Str("paymentId", n.PaymentID).Logger()

	// The notification body is potentially forgeable or stale; fetch the
	// authoritative status from the gateway before acting.
	payment, err := s.gateway.GetPayment(ctx, n.PaymentID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to fetch payment from gateway")
		return err
	}

	order, err := s.resolveOrder(ctx, payment.ExternalReference, n.PaymentID)
	if err != nil {
		return err
	}
	if order == nil {
		if payment.Status == "approved" {
			// Money was confirmed but we cannot bind it to an order. Do not
			// silently accept it; keep the gateway redelivering while an
			// operator investigates.
			logger.Error().Str("externalReference", payment.ExternalReference).
				Msg("approved payment has no matching order")
			return apperrors.Internal("approved payment has no matching order", nil)
		}
		logger.Warn().Str("status", payment.Status).
			Msg("webhook dropped: no matching order")
		return nil
	}

	logger = logger.With().Str("orderNumber", order.OrderNumber).Logger()

	var transition repositories.PaymentTransition
	switch payment.Status {
	case "approved":
		paid := models.OrderPaid
		transition = repositories.PaymentTransition{
			From:          []models.PaymentStatus{models.PaymentPending, models.PaymentFailed},
			Status:        &paid,
			PaymentStatus: models.PaymentPaid,
			PaymentID:     n.PaymentID,
		}
	case "rejected", "cancelled":
		cancelled := models.OrderCancelled
		transition = repositories.PaymentTransition{
			From:          []models.PaymentStatus{models.PaymentPending},
			Status:        &cancelled,
			PaymentStatus: models.PaymentFailed,
			PaymentID:     n.PaymentID,
		}
	case "refunded", "charged_back":
		// Fulfillment status is left as-is: a refunded order may already be
		// shipped and is handled out of band.
		transition = repositories.PaymentTransition{
			From:          []models.PaymentStatus{models.PaymentPaid},
			PaymentStatus: models.PaymentRefunded,
			PaymentID:     n.PaymentID,
		}
	case "pending", "in_process":
		pending := models.OrderPending
		transition = repositories.PaymentTransition{
			From:          []models.PaymentStatus{models.PaymentPending},
			Status:        &pending,
			PaymentStatus: models.PaymentPending,
			PaymentID:     n.PaymentID,
		}
	default:
		logger.Warn().Str("status", payment.Status).
			Msg("webhook ignored: unrecognized gateway status")
		return nil
	}

	applied, err := s.orders.TransitionPayment(ctx, order.ID, transition)
	if err != nil {
		return apperrors.Internal("failed to apply payment transition", err)
	}
	if !applied {
		// Replayed or raced notification: another delivery already moved the
		// order out of the expected state. Nothing further to do.
		logger.Info().Str("status", payment.Status).
			Str("paymentStatus", string(order.PaymentStatus)).
			Msg("webhook replay: transition already applied")
		return nil
	}

	// Stock is decremented on the PENDING -> PAID edge only, exactly once per
	// order: the conditional transition above guarantees a single winner even
	// under concurrent duplicate deliveries.
	if payment.Status == "approved" {
		if err := s.decrementStock(ctx, order); err != nil {
			return err
		}
	}

	paidAt := payment.DateApproved
	if paidAt == nil && payment.Status == "approved" {
		now := time.Now()
		paidAt = &now
	}
	ledger := &models.OrderPayment{
		OrderID:       order.ID,
		Provider:      paymentProvider,
		Method:        payment.Method,
		Status:        payment.Status,
		TransactionID: n.PaymentID,
		RawPayload:    datatypes.JSON(payment.Raw),
		PaidAt:        paidAt,
	}
	if err := s.orders.AppendPayment(ctx, ledger); err != nil {
		// The transition is already durable; losing one audit row is logged,
		// not retried, because a redelivery would no longer transition.
		logger.Error().Err(err).Msg("failed to append payment ledger row")
	}

	logger.Info().Str("gatewayStatus", payment.Status).
		Str("paymentStatus", string(transition.PaymentStatus)).
		Msg("payment reconciled")
	return nil
}

// resolveOrder finds the local order for a payment: by external reference
// (our order number) first, then by a previously bound payment id for
// redeliveries whose reference is already known.
func (s *WebhookService) resolveOrder(ctx context.Context, externalReference, paymentID string) (*models.Order, error) {
	if externalReference != "" {
		order, err := s.orders.FindByOrderNumber(ctx, externalReference)
		if err != nil {
			return nil, apperrors.Internal("failed to look up order by number", err)
		}
		if order != nil {
			return order, nil
		}
	}

	order, err := s.orders.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, apperrors.Internal("failed to look up order by payment id", err)
	}
	return order, nil
}

func (s *WebhookService) decrementStock(ctx context.Context, order *models.Order) error {
	full, err := s.orders.FindFullByNumber(ctx, order.OrderNumber)
	if err != nil || full == nil {
		return apperrors.Internal("failed to load order items for stock decrement", err)
	}
	for _, item := range full.Items {
		if item.ProductVariantID == nil {
			continue
		}
		if err := s.products.DecrementStock(ctx, *item.ProductVariantID, item.Quantity); err != nil {
			return apperrors.Internal("failed to decrement variant stock", err)
		}
	}
	return nil
}
