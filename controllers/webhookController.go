package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/unnastore/unna-api/apperrors"
	"github.com/unnastore/unna-api/services"
)

// SignatureVerifier checks the gateway's webhook HMAC.
type SignatureVerifier interface {
	VerifySignature(timestamp string, rawBody []byte, signatureHeader string) bool
}

type WebhookController struct {
	webhooks *services.WebhookService
	verifier SignatureVerifier
	log      zerolog.Logger
}

func NewWebhookController(webhooks *services.WebhookService, verifier SignatureVerifier, log zerolog.Logger) *WebhookController {
	return &WebhookController{
		webhooks: webhooks,
		verifier: verifier,
		log:      log.With().Str("controller", "webhook").Logger(),
	}
}

type webhookBody struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Topic  string `json:"topic"`
	Data   struct {
		ID flexibleID `json:"id"`
	} `json:"data"`
}

// flexibleID tolerates the gateway sending data.id as either a JSON string
// or a JSON number.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

// Handle is the reconciliation entry point for POST /mercadopago/webhook.
// The response contract matters: 200 once the notification is accepted or
// deliberately dropped, 4xx for garbage, 5xx only when infrastructure failed
// and the gateway should redeliver.
func (c *WebhookController) Handle(ctx *gin.Context) {
	rawBody, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "unreadable body"})
		return
	}

	timestamp := ctx.GetHeader("x-request-timestamp")
	signature := ctx.GetHeader("x-signature")
	if !c.verifier.VerifySignature(timestamp, rawBody, signature) {
		c.log.Warn().Str("clientIp", ctx.ClientIP()).Msg("webhook rejected: bad signature")
		ctx.JSON(http.StatusForbidden, gin.H{"status": "error", "message": "invalid signature"})
		return
	}

	var body webhookBody
	if err := json.Unmarshal(rawBody, &body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid JSON body"})
		return
	}

	topic := body.Type
	if topic == "" {
		topic = body.Topic
	}

	notification := services.WebhookNotification{
		Topic:     topic,
		PaymentID: string(body.Data.ID),
	}

	if err := c.webhooks.Process(ctx.Request.Context(), notification); err != nil {
		if apperrors.KindOf(err) == apperrors.KindValidation {
			respondError(ctx, err)
			return
		}
		// 5xx asks the gateway's retry loop to redeliver later.
		c.log.Error().Err(err).Msg("webhook processing failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "webhook processing failed, will retry",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
