package ai

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyWebhook(t *testing.T) {
	body := []byte(`{"transcript_id":"tr-1","status":"completed"}`)

	mac := hmac.New(sha256.New, []byte("s3cret"))
	mac.Write(body)
	signed := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, VerifyWebhook("", body, ""), "no secret configured")
	assert.True(t, VerifyWebhook("s3cret", body, "s3cret"))
	assert.True(t, VerifyWebhook("s3cret", body, signed))
	assert.False(t, VerifyWebhook("s3cret", body, ""))
	assert.False(t, VerifyWebhook("s3cret", body, "wrong"))
	assert.False(t, VerifyHMAC("", body, signed))
}
