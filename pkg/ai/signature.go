package ai

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// VerifyHMAC verifies a sha256 HMAC hex signature against payload and secret
func VerifyHMAC(secret string, payload []byte, signatureHex string) bool {
	if secret == "" || signatureHex == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signatureHex))
}

// VerifySharedSecret compares the webhook auth header AssemblyAI echoes back.
// An empty secret accepts every request.
func VerifySharedSecret(secret, got string) bool {
	if secret == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(got)) == 1
}

// VerifyWebhook accepts the header when it carries the shared secret itself
// or a hex HMAC of the body keyed by it. Relays that re-sign payloads use the
// second form.
func VerifyWebhook(secret string, payload []byte, header string) bool {
	return VerifySharedSecret(secret, header) || VerifyHMAC(secret, payload, header)
}
