package mercadopago

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifySignature checks the x-signature header of a webhook delivery. The
// signed string is "{timestamp}.{rawBody}" and the header must carry
// "v1=<hex hmac-sha256>" computed with the shared webhook secret.
func (c *Client) VerifySignature(timestamp string, rawBody []byte, signatureHeader string) bool {
	if timestamp == "" || signatureHeader == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(rawBody)
	expected := "v1=" + hex.EncodeToString(mac.Sum(nil))

	for _, part := range strings.Split(signatureHeader, ",") {
		if hmac.Equal([]byte(strings.TrimSpace(part)), []byte(expected)) {
			return true
		}
	}
	return false
}
