// models/payment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment status values. A payment only moves CREATED -> SUCCESS or
// CREATED -> FAILED, never away from SUCCESS.
const (
	PaymentStatusCreated = "CREATED"
	PaymentStatusSuccess = "SUCCESS"
	PaymentStatusFailed  = "FAILED"
)

// Payment sources; RAZORPAY is reserved for gateway-settled payments,
// the rest are manual methods recorded by the admin panel.
const (
	PaymentSourceRazorpay = "RAZORPAY"
	PaymentSourceUPI      = "UPI"
	PaymentSourceNEFT     = "NEFT"
	PaymentSourceIMPS     = "IMPS"
	PaymentSourceCash     = "CASH"
	PaymentSourceCheque   = "CHEQUE"
	PaymentSourceAdmin    = "ADMIN"
)

// ManualPaymentSources lists the sources the admin edit endpoint accepts
var ManualPaymentSources = []string{
	PaymentSourceUPI, PaymentSourceNEFT, PaymentSourceIMPS,
	PaymentSourceCash, PaymentSourceCheque, PaymentSourceAdmin,
}

// RazorpayDetails holds the gateway identifiers on a payment
type RazorpayDetails struct {
	OrderID   string `json:"orderId,omitempty" bson:"orderId,omitempty"`
	PaymentID string `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	Signature string `json:"signature,omitempty" bson:"signature,omitempty"`
}

// ReferralSnapshot is the referral block as submitted on the form
type ReferralSnapshot struct {
	Source           string `json:"source,omitempty" bson:"source,omitempty"`
	ReferredByUserID string `json:"referredByUserId,omitempty" bson:"referredByUserId,omitempty"`
}

// RegistrationSnapshot is the verbatim copy of the registration form
// stored on the payment at order time. The member record is built from
// this snapshot once the payment is confirmed.
type RegistrationSnapshot struct {
	CompanyName      string             `json:"companyName" bson:"companyName"`
	Proprietors      string             `json:"proprietors" bson:"proprietors"`
	Address          Address            `json:"address" bson:"address"`
	MobileNumber     string             `json:"mobileNumber" bson:"mobileNumber"`
	Email            string             `json:"email" bson:"email"`
	BusinessCategory primitive.ObjectID `json:"businessCategory" bson:"businessCategory"`
	BusinessNature   BusinessNature     `json:"businessNature" bson:"businessNature"`
	MajorCommodities []string           `json:"majorCommodities" bson:"majorCommodities"`
	GSTNumber        string             `json:"gstNumber,omitempty" bson:"gstNumber,omitempty"`
	BankDetails      *BankDetails       `json:"bankDetails,omitempty" bson:"bankDetails,omitempty"`
	Referral         *ReferralSnapshot  `json:"referral,omitempty" bson:"referral,omitempty"`

	// Mirrored onto the snapshot when an admin edits a manual payment
	PaymentSource string  `json:"paymentSource,omitempty" bson:"paymentSource,omitempty"`
	TransactionID string  `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	Amount        float64 `json:"amount,omitempty" bson:"amount,omitempty"`
}

// Payment is one collection attempt; User stays nil until the member is
// provisioned on confirmation.
type Payment struct {
	ID             primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	User           *primitive.ObjectID  `json:"user,omitempty" bson:"user,omitempty"`
	MembershipPlan primitive.ObjectID   `json:"membershipPlan" bson:"membershipPlan"`
	Amount         float64              `json:"amount" bson:"amount"`
	PaymentSource  string               `json:"paymentSource" bson:"paymentSource"`
	TransactionID  string               `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	Snapshot       RegistrationSnapshot `json:"registrationSnapshot" bson:"registrationSnapshot"`
	Razorpay       RazorpayDetails      `json:"razorpay,omitempty" bson:"razorpay,omitempty"`
	Status         string               `json:"status" bson:"status"`
	PaidAt         *time.Time           `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	CreatedAt      time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// RegistrationData is the registration form as submitted by the
// prospective member
type RegistrationData struct {
	CompanyName            string            `json:"companyName"`
	Proprietors            string            `json:"proprietors"`
	Address                Address           `json:"address"`
	MobileNumber           string            `json:"mobileNumber"`
	Email                  string            `json:"email"`
	BusinessCategory       string            `json:"businessCategory"`       // existing category id
	CustomBusinessCategory string            `json:"customBusinessCategory"` // free-text fallback
	BusinessNature         *BusinessNature   `json:"businessNature"`
	MajorCommodities       []string          `json:"majorCommodities"`
	GSTNumber              string            `json:"gstNumber"`
	BankDetails            *BankDetails      `json:"bankDetails"`
	Referral               *ReferralSnapshot `json:"referral"`
}

// CreateOrderRequest opens a gateway order for a chosen plan
type CreateOrderRequest struct {
	MembershipPlanID string            `json:"membershipPlanId"`
	RegistrationData *RegistrationData `json:"registrationData"`
}

// EditPaymentRequest updates a manual (non-gateway) payment record
type EditPaymentRequest struct {
	PaymentSource *string  `json:"paymentSource"`
	TransactionID *string  `json:"transactionId"`
	Amount        *float64 `json:"amount"`
	Status        *string  `json:"status"`
}
