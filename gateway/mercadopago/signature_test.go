package mercadopago

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func signatureFor(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return "v1=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	client := NewClient("https://api.mercadopago.com", "token", "webhook-secret", "https://shop.example.com", time.Second)
	body := []byte(`{"type":"payment","data":{"id":"123"}}`)

	valid := signatureFor("webhook-secret", "1756300000", body)

	assert.True(t, client.VerifySignature("1756300000", body, valid))
	assert.True(t, client.VerifySignature("1756300000", body, "ts=1756300000, "+valid),
		"v1 part is accepted among other comma-separated parts")

	assert.False(t, client.VerifySignature("1756300001", body, valid), "timestamp is part of the signed string")
	assert.False(t, client.VerifySignature("1756300000", []byte(`{}`), valid), "body is part of the signed string")
	assert.False(t, client.VerifySignature("1756300000", body, signatureFor("wrong-secret", "1756300000", body)))
	assert.False(t, client.VerifySignature("", body, valid), "missing timestamp rejected")
	assert.False(t, client.VerifySignature("1756300000", body, ""), "missing header rejected")
}
