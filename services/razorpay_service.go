// services/razorpay_service.go
package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayService wraps the gateway client for order creation and
// webhook verification
type RazorpayService struct {
	client        *razorpay.Client
	keyID         string
	webhookSecret string
}

// NewRazorpayService builds the service from environment configuration
func NewRazorpayService() (*RazorpayService, error) {
	keyID := os.Getenv("RAZORPAY_KEY_ID")
	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	webhookSecret := os.Getenv("RAZORPAY_WEBHOOK_SECRET")

	if keyID == "" || keySecret == "" {
		return nil, errors.New("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET environment variables are required")
	}
	if webhookSecret == "" {
		return nil, errors.New("RAZORPAY_WEBHOOK_SECRET environment variable is required")
	}

	return &RazorpayService{
		client:        razorpay.NewClient(keyID, keySecret),
		keyID:         keyID,
		webhookSecret: webhookSecret,
	}, nil
}

// KeyID returns the public key id handed to the checkout frontend
func (s *RazorpayService) KeyID() string {
	return s.keyID
}

// CreateOrder opens a gateway order. amountPaise is the plan amount in
// the smallest currency unit.
func (s *RazorpayService) CreateOrder(amountPaise int64, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  receipt,
	}

	order, err := s.client.Order.Create(data, nil)
	if err != nil {
		return "", err
	}

	orderID, ok := order["id"].(string)
	if !ok || orderID == "" {
		return "", errors.New("gateway did not return an order id")
	}
	return orderID, nil
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against
// the raw request body
func (s *RazorpayService) VerifyWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
