package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rajavruksha/ftii_backend/models"
	"github.com/rajavruksha/ftii_backend/services"
)

func newWebhookContext(body, signature string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/payment/razorpay-webhook", strings.NewReader(body))
	if signature != "" {
		req.Header.Set("X-Razorpay-Signature", signature)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRazorpayWebhookRejectsBadSignature(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
	t.Setenv("RAZORPAY_KEY_SECRET", "secret")
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "whsec_test")

	razorpay, err := services.NewRazorpayService()
	require.NoError(t, err)

	// The signature check runs before any storage access
	pc := &PaymentController{Razorpay: razorpay}

	c, rec := newWebhookContext(`{"event":"payment.captured"}`, "not-a-real-signature")
	require.NoError(t, pc.RazorpayWebhook(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid webhook signature")
}

func TestRazorpayWebhookRejectsMissingSignature(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
	t.Setenv("RAZORPAY_KEY_SECRET", "secret")
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "whsec_test")

	razorpay, err := services.NewRazorpayService()
	require.NoError(t, err)

	pc := &PaymentController{Razorpay: razorpay}

	c, rec := newWebhookContext(`{"event":"payment.captured"}`, "")
	require.NoError(t, pc.RazorpayWebhook(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettlementClaimsPaymentExactlyOnce(t *testing.T) {
	paymentID := primitive.NewObjectID()
	now := time.Now()

	filter := settlementFilter(paymentID)
	update := settlementUpdate("pay_123", "sig", now)

	assert.Equal(t, paymentID, filter["_id"])
	// The filter only matches an open payment
	assert.Equal(t, models.PaymentStatusCreated, filter["status"])

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, models.PaymentStatusSuccess, set["status"])
	assert.Equal(t, "pay_123", set["razorpay.paymentId"])
	assert.Equal(t, "sig", set["razorpay.signature"])
	assert.Equal(t, now, set["paidAt"])

	// A redelivered event finds the settled status and matches nothing
	assert.NotEqual(t, filter["status"], set["status"])
}
