package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	svc := &RazorpayService{webhookSecret: "whsec_test"}
	body := []byte(`{"event":"payment.captured"}`)

	assert.True(t, svc.VerifyWebhookSignature(body, signBody("whsec_test", body)))
	assert.False(t, svc.VerifyWebhookSignature(body, signBody("wrong_secret", body)))
	assert.False(t, svc.VerifyWebhookSignature(body, ""))
	assert.False(t, svc.VerifyWebhookSignature(body, "deadbeef"))

	// A changed body invalidates an otherwise correct signature
	signature := signBody("whsec_test", body)
	assert.False(t, svc.VerifyWebhookSignature([]byte(`{"event":"payment.failed"}`), signature))
}

func TestNewRazorpayServiceRequiresConfig(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_ID", "")
	t.Setenv("RAZORPAY_KEY_SECRET", "")
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "")

	_, err := NewRazorpayService()
	assert.Error(t, err)

	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
	t.Setenv("RAZORPAY_KEY_SECRET", "secret")
	_, err = NewRazorpayService()
	assert.Error(t, err)

	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "whsec")
	svc, err := NewRazorpayService()
	require.NoError(t, err)
	assert.Equal(t, "rzp_test_key", svc.KeyID())
}
