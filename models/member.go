// models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership status values
const (
	MembershipStatusPending   = "PENDING"
	MembershipStatusActive    = "ACTIVE"
	MembershipStatusCancelled = "CANCELLED"
)

// Referral source values
const (
	ReferralSourceAdmin = "ADMIN"
	ReferralSourceUser  = "USER"
)

// Address holds the registered business address
type Address struct {
	Street   string `json:"street,omitempty" bson:"street,omitempty"`
	Pin      string `json:"pin" bson:"pin"`
	State    string `json:"state" bson:"state"`
	District string `json:"district" bson:"district"`
	Taluk    string `json:"taluk,omitempty" bson:"taluk,omitempty"`
}

// ManufacturerNature describes the manufacturing side of a business
type ManufacturerNature struct {
	IsManufacturer bool     `json:"isManufacturer" bson:"isManufacturer"`
	Scale          []string `json:"scale,omitempty" bson:"scale,omitempty"` // LARGE / MSME
}

// TraderNature describes the trading side of a business
type TraderNature struct {
	IsTrader bool     `json:"isTrader" bson:"isTrader"`
	Type     []string `json:"type,omitempty" bson:"type,omitempty"` // WHOLESALE / RETAIL
}

// BusinessNature holds the manufacturer/trader flags; at least one side
// must be selected for a valid registration
type BusinessNature struct {
	Manufacturer *ManufacturerNature `json:"manufacturer,omitempty" bson:"manufacturer,omitempty"`
	Trader       *TraderNature       `json:"trader,omitempty" bson:"trader,omitempty"`
}

// BankDetails are all-or-nothing: either every field is present or the
// whole block is absent
type BankDetails struct {
	BankName      string `json:"bankName" bson:"bankName"`
	AccountNumber string `json:"accountNumber" bson:"accountNumber"`
	IFSCCode      string `json:"ifscCode" bson:"ifscCode"`
}

// Referral records who brought this member in
type Referral struct {
	Source           string              `json:"source" bson:"source"`
	ReferredByUser   *primitive.ObjectID `json:"referredByUser,omitempty" bson:"referredByUser,omitempty"`
	ReferredByUserID string              `json:"referredByUserId,omitempty" bson:"referredByUserId,omitempty"`
}

// Membership is the member's subscription sub-record
type Membership struct {
	Plan      primitive.ObjectID `json:"plan" bson:"plan"`
	Status    string             `json:"status" bson:"status"`
	StartedAt time.Time          `json:"startedAt" bson:"startedAt"`
	ExpiresAt *time.Time         `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
}

// ForgotPassword holds the hashed one-time reset code; cleared on use
type ForgotPassword struct {
	OTP          string    `json:"-" bson:"otp"`
	OTPExpiresAt time.Time `json:"-" bson:"otpExpiresAt"`
}

// Member is a registered business. Created only by provisioning (webhook
// or admin manual registration), never by direct signup.
type Member struct {
	ID     primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID string             `json:"userId" bson:"userId"` // 6-digit public id

	CompanyName string  `json:"companyName" bson:"companyName"`
	Proprietors string  `json:"proprietors" bson:"proprietors"`
	Address     Address `json:"address" bson:"address"`

	MobileNumber string `json:"mobileNumber" bson:"mobileNumber"`
	Email        string `json:"email" bson:"email"`
	// Reversibly encrypted; read it only through utils.RevealPassword
	Password string `json:"-" bson:"password"`

	BusinessCategory primitive.ObjectID `json:"businessCategory" bson:"businessCategory"`
	BusinessNature   BusinessNature     `json:"businessNature" bson:"businessNature"`
	MajorCommodities []string           `json:"majorCommodities" bson:"majorCommodities"`
	GSTNumber        string             `json:"gstNumber,omitempty" bson:"gstNumber,omitempty"`

	Referral    Referral     `json:"referral" bson:"referral"`
	BankDetails *BankDetails `json:"bankDetails,omitempty" bson:"bankDetails,omitempty"`

	Membership     Membership      `json:"membership" bson:"membership"`
	ForgotPassword *ForgotPassword `json:"-" bson:"forgotPassword,omitempty"`

	IsActive    bool       `json:"isActive" bson:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" bson:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// MemberLoginRequest logs a member in by email or 6-digit member id
type MemberLoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// ForgotPasswordRequest starts the reset flow
type ForgotPasswordRequest struct {
	Identifier string `json:"identifier" validate:"required"`
}

// ResetPasswordRequest redeems a one-time code
type ResetPasswordRequest struct {
	Identifier  string `json:"identifier" validate:"required"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}
