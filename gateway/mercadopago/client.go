// Package mercadopago is the HTTP client for the Mercado Pago checkout API.
// It creates hosted-payment preferences and fetches authoritative payment
// state; webhook notifications are only pointers and are never trusted on
// their own.
package mercadopago

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/unnastore/unna-api/apperrors"
	"github.com/unnastore/unna-api/models"
)

type Client struct {
	http          *resty.Client
	webhookSecret string
	appURL        string
}

// Preference is the gateway-side checkout object: an id plus the hosted
// checkout URL the customer is redirected to.
type Preference struct {
	ID        string
	InitPoint string
}

// Payment is the authoritative state of one payment attempt as reported by
// GET /v1/payments/{id}. ExternalReference carries our order number back.
type Payment struct {
	ID                string
	Status            string
	ExternalReference string
	Method            string
	DateApproved      *time.Time
	Raw               json.RawMessage
}

// Payer is the customer contact info forwarded to the gateway.
type Payer struct {
	FullName string
	Email    string
	Phone    string
}

func NewClient(baseURL, accessToken, webhookSecret, appURL string, timeout time.Duration) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(accessToken).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &Client{http: http, webhookSecret: webhookSecret, appURL: appURL}
}

type preferenceItem struct {
	Title      string          `json:"title"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	CurrencyID string          `json:"currency_id"`
}

type preferenceRequest struct {
	Items             []preferenceItem `json:"items"`
	Payer             preferencePayer  `json:"payer"`
	BackURLs          backURLs         `json:"back_urls"`
	AutoReturn        string           `json:"auto_return"`
	NotificationURL   string           `json:"notification_url"`
	ExternalReference string           `json:"external_reference"`
}

type preferencePayer struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
}

type backURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type preferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

// CreatePreference registers the order with the gateway and returns the
// redirect target. The order number travels as external_reference so the
// webhook can correlate the payment back to us.
func (c *Client) CreatePreference(ctx context.Context, order *models.Order, items []models.OrderItem, payer Payer) (*Preference, error) {
	mpItems := make([]preferenceItem, 0, len(items))
	for _, item := range items {
		mpItems = append(mpItems, preferenceItem{
			Title:      item.ProductNameSnapshot,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			CurrencyID: "BRL",
		})
	}

	firstName, surname := splitName(payer.FullName)

	body := preferenceRequest{
		Items: mpItems,
		Payer: preferencePayer{Name: firstName, Surname: surname, Email: payer.Email},
		BackURLs: backURLs{
			Success: fmt.Sprintf("%s/payment/success/%s", c.appURL, order.OrderNumber),
			Failure: fmt.Sprintf("%s/payment/failure/%s", c.appURL, order.OrderNumber),
			Pending: fmt.Sprintf("%s/payment/pending/%s", c.appURL, order.OrderNumber),
		},
		AutoReturn:        "approved",
		NotificationURL:   fmt.Sprintf("%s/api/mercadopago/webhook", c.appURL),
		ExternalReference: order.OrderNumber,
	}

	var parsed preferenceResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&parsed).
		Post("/checkout/preferences")
	if err != nil {
		return nil, apperrors.Upstream("failed to create payment preference", err)
	}
	if resp.IsError() {
		return nil, apperrors.Upstream(
			fmt.Sprintf("preference request failed with status %d", resp.StatusCode()),
			fmt.Errorf("mercadopago: %s", resp.Body()))
	}
	if parsed.ID == "" || parsed.InitPoint == "" {
		return nil, apperrors.Upstream("incomplete preference response from payment gateway", nil)
	}

	return &Preference{ID: parsed.ID, InitPoint: parsed.InitPoint}, nil
}

type paymentResponse struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	ExternalReference string      `json:"external_reference"`
	PaymentMethodID   string      `json:"payment_method_id"`
	DateApproved      string      `json:"date_approved"`
}

// GetPayment fetches the authoritative status of a payment. The raw response
// body is returned untouched so callers can persist it for audit.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/v1/payments/" + paymentID)
	if err != nil {
		return nil, apperrors.Upstream("failed to fetch payment status", err)
	}
	if resp.IsError() {
		return nil, apperrors.Upstream(
			fmt.Sprintf("payment lookup failed with status %d", resp.StatusCode()),
			fmt.Errorf("mercadopago: %s", resp.Body()))
	}

	var parsed paymentResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, apperrors.Upstream("malformed payment response from gateway", err)
	}
	if parsed.Status == "" {
		return nil, apperrors.Upstream("payment response missing status", nil)
	}

	payment := &Payment{
		ID:                parsed.ID.String(),
		Status:            parsed.Status,
		ExternalReference: parsed.ExternalReference,
		Method:            parsed.PaymentMethodID,
		Raw:               json.RawMessage(resp.Body()),
	}
	if parsed.DateApproved != "" {
		if approved, err := time.Parse(time.RFC3339, parsed.DateApproved); err == nil {
			payment.DateApproved = &approved
		}
	}
	return payment, nil
}

func splitName(fullName string) (first, rest string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
