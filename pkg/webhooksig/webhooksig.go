// Package webhooksig signs and verifies webhook delivery payloads with
// HMAC-SHA256, the same scheme the corpus's razorpay webhook subscriber
// validates incoming signatures with, applied here to outbound deliveries.
package webhooksig

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns the hex-encoded HMAC-SHA256 of body keyed by secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Header formats the signature the way it is sent on the wire.
func Header(secret string, body []byte) string {
	return "sha256=" + Sign(secret, body)
}

// Verify reports whether header matches the HMAC-SHA256 of body under secret.
func Verify(secret string, body []byte, header string) bool {
	const prefix = "sha256="
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return false
	}
	expected := Sign(secret, body)
	return hmac.Equal([]byte(expected), []byte(header[len(prefix):]))
}
