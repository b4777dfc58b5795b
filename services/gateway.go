package services

import (
	"context"

	"github.com/unnastore/unna-api/gateway/mercadopago"
	"github.com/unnastore/unna-api/models"
)

// PaymentGateway is the slice of the Mercado Pago client the order and
// webhook services depend on. Tests substitute a fake.
type PaymentGateway interface {
	CreatePreference(ctx context.Context, order *models.Order, items []models.OrderItem, payer mercadopago.Payer) (*mercadopago.Preference, error)
	GetPayment(ctx context.Context, paymentID string) (*mercadopago.Payment, error)
}
