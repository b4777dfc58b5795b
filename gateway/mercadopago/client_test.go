package mercadopago

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unnastore/unna-api/apperrors"
	"github.com/unnastore/unna-api/models"
)

func testClient(baseURL string) *Client {
	return NewClient(baseURL, "test-token", "test-secret", "https://shop.example.com", 5*time.Second)
}

func testOrder() (*models.Order, []models.OrderItem) {
	order := &models.Order{OrderNumber: "UNNA-AB12CD34"}
	items := []models.OrderItem{{
		ProductNameSnapshot: "Camiseta Basica",
		UnitPrice:           decimal.NewFromFloat(49.90),
		Quantity:            2,
	}}
	return order, items
}

func TestCreatePreference(t *testing.T) {
	var captured preferenceRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout/preferences", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pref-123","init_point":"https://mp.example.com/init/pref-123"}`))
	}))
	defer server.Close()

	order, items := testOrder()
	pref, err := testClient(server.URL).CreatePreference(context.Background(), order, items, Payer{
		FullName: "Ana Clara Souza",
		Email:    "ana@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "pref-123", pref.ID)
	assert.Equal(t, "https://mp.example.com/init/pref-123", pref.InitPoint)

	require.Len(t, captured.Items, 1)
	assert.Equal(t, "Camiseta Basica", captured.Items[0].Title)
	assert.Equal(t, "BRL", captured.Items[0].CurrencyID)
	assert.Equal(t, 2, captured.Items[0].Quantity)

	assert.Equal(t, "Ana", captured.Payer.Name)
	assert.Equal(t, "Clara Souza", captured.Payer.Surname)
	assert.Equal(t, "UNNA-AB12CD34", captured.ExternalReference)
	assert.Equal(t, "https://shop.example.com/payment/success/UNNA-AB12CD34", captured.BackURLs.Success)
	assert.Equal(t, "https://shop.example.com/api/mercadopago/webhook", captured.NotificationURL)
	assert.Equal(t, "approved", captured.AutoReturn)
}

func TestCreatePreferenceGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message":"internal error"}`))
	}))
	defer server.Close()

	order, items := testOrder()
	_, err := testClient(server.URL).CreatePreference(context.Background(), order, items, Payer{FullName: "Ana"})
	assert.Equal(t, apperrors.KindUpstream, apperrors.KindOf(err))
}

func TestCreatePreferenceIncompleteResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pref-123"}`))
	}))
	defer server.Close()

	order, items := testOrder()
	_, err := testClient(server.URL).CreatePreference(context.Background(), order, items, Payer{FullName: "Ana"})
	assert.Equal(t, apperrors.KindUpstream, apperrors.KindOf(err))
}

func TestGetPayment(t *testing.T) {
	body := `{"id":12345,"status":"approved","external_reference":"UNNA-AB12CD34",` +
		`"payment_method_id":"pix","date_approved":"2026-08-01T12:00:00Z"}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/12345", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	payment, err := testClient(server.URL).GetPayment(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, "12345", payment.ID)
	assert.Equal(t, "approved", payment.Status)
	assert.Equal(t, "UNNA-AB12CD34", payment.ExternalReference)
	assert.Equal(t, "pix", payment.Method)
	require.NotNil(t, payment.DateApproved)
	assert.Equal(t, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC), payment.DateApproved.UTC())
	assert.JSONEq(t, body, string(payment.Raw), "raw body kept verbatim for audit")
}

func TestGetPaymentNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"payment not found"}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).GetPayment(context.Background(), "999")
	assert.Equal(t, apperrors.KindUpstream, apperrors.KindOf(err))
}

func TestGetPaymentMissingStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":12345}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).GetPayment(context.Background(), "12345")
	assert.Equal(t, apperrors.KindUpstream, apperrors.KindOf(err))
}

func TestSplitName(t *testing.T) {
	first, rest := splitName("Ana Clara Souza")
	assert.Equal(t, "Ana", first)
	assert.Equal(t, "Clara Souza", rest)

	first, rest = splitName("Ana")
	assert.Equal(t, "Ana", first)
	assert.Empty(t, rest)

	first, rest = splitName("")
	assert.Empty(t, first)
	assert.Empty(t, rest)
}
