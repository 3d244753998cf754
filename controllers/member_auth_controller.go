// controllers/member_auth_controller.go
package controllers

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"image/png"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rajavruksha/ftii_backend/config"
	"github.com/rajavruksha/ftii_backend/middleware"
	"github.com/rajavruksha/ftii_backend/models"
	"github.com/rajavruksha/ftii_backend/repositories"
	"github.com/rajavruksha/ftii_backend/utils"
)

type MemberAuthController struct {
	DB      *mongo.Client
	Redis   *redis.Client
	Members *repositories.MemberRepository
}

func NewMemberAuthController(db *mongo.Client, rdb *redis.Client, members *repositories.MemberRepository) *MemberAuthController {
	return &MemberAuthController{DB: db, Redis: rdb, Members: members}
}

// Login authenticates a member by email or 6-digit member id. Only
// members with an active membership may log in.
func (mac *MemberAuthController) Login(c echo.Context) error {
	var req models.MemberLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Identifier and password are required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	member, err := mac.Members.FindByIdentifier(ctx, req.Identifier)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to look up member",
		})
	}
	if member == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}

	stored, err := utils.RevealPassword(member.Password, member.UserID, "member login check")
	if err != nil || !utils.SecureCompare(stored, req.Password) {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}

	if !member.IsActive || member.Membership.Status != models.MembershipStatusActive {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Membership is not active",
		})
	}
	if member.Membership.ExpiresAt != nil && member.Membership.ExpiresAt.Before(time.Now()) {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Membership has expired",
		})
	}

	token, err := middleware.GenerateJWT(member.ID.Hex(), member.Email, middleware.RoleMember)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	if err := mac.Members.RecordLogin(ctx, member.UserID); err != nil {
		log.Printf("failed to record login for member %s: %v", member.UserID, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token": token,
			"member": map[string]interface{}{
				"userId":      member.UserID,
				"companyName": member.CompanyName,
				"email":       member.Email,
				"membership":  member.Membership,
			},
		},
	})
}

// ForgotPassword mails a one-time reset code. The response is the same
// whether or not the identifier matched a member.
func (mac *MemberAuthController) ForgotPassword(c echo.Context) error {
	var req models.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Identifier is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	accepted := models.Response{
		Status:  http.StatusOK,
		Message: "If the account exists, a reset code has been sent",
	}

	member, err := mac.Members.FindByIdentifier(ctx, req.Identifier)
	if err != nil || member == nil {
		return c.JSON(http.StatusOK, accepted)
	}

	if err := utils.ValidateOTPAttempts(member.UserID, mac.Redis); err != nil {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Too many reset attempts, try again later",
		})
	}

	otp, err := utils.GenerateSecureOTP(6)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate reset code",
		})
	}

	// Only the hash is stored; the raw code goes out by mail
	update := bson.M{"$set": bson.M{
		"forgotPassword": models.ForgotPassword{
			OTP:          utils.HashOTP(otp),
			OTPExpiresAt: time.Now().Add(10 * time.Minute),
		},
		"updatedAt": time.Now(),
	}}
	if _, err := config.GetCollection(mac.DB, "users").UpdateOne(ctx, bson.M{"_id": member.ID}, update); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store reset code",
		})
	}

	go func(email, company, code string) {
		if err := utils.SendOTPMail(email, company, code); err != nil {
			log.Printf("failed to send reset code to %s: %v", email, err)
		}
	}(member.Email, member.CompanyName, otp)

	return c.JSON(http.StatusOK, accepted)
}

// resetCodeValid reports whether the stored one-time code matches the
// submitted one and has not expired. The password is only mutated when
// this holds.
func resetCodeValid(fp *models.ForgotPassword, code string, now time.Time) bool {
	if fp == nil {
		return false
	}
	if fp.OTPExpiresAt.Before(now) {
		return false
	}
	return fp.OTP == utils.HashOTP(code)
}

// ResetPassword redeems a one-time code and sets a new password
func (mac *MemberAuthController) ResetPassword(c echo.Context) error {
	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Identifier, code and a password of at least 6 characters are required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	member, err := mac.Members.FindByIdentifier(ctx, req.Identifier)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to look up member",
		})
	}
	if member == nil || !resetCodeValid(member.ForgotPassword, req.OTP, time.Now()) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid or expired reset code",
		})
	}

	encrypted, err := utils.EncryptPassword(req.NewPassword)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store new password",
		})
	}

	update := bson.M{
		"$set":   bson.M{"password": encrypted, "updatedAt": time.Now()},
		"$unset": bson.M{"forgotPassword": ""},
	}
	if _, err := config.GetCollection(mac.DB, "users").UpdateOne(ctx, bson.M{"_id": member.ID}, update); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update password",
		})
	}

	utils.ClearOTPAttempts(member.UserID, mac.Redis)

	go func(email, company string) {
		if err := utils.SendPasswordResetSuccessMail(email, company); err != nil {
			log.Printf("failed to send reset confirmation to %s: %v", email, err)
		}
	}(member.Email, member.CompanyName)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password reset successfully",
	})
}

const certificateTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Membership Certificate</title>
<style>
  body { font-family: Georgia, serif; text-align: center; margin: 0; padding: 40px; }
  .certificate { border: 12px double #1a3c6e; padding: 60px 40px; max-width: 800px; margin: 0 auto; }
  h1 { color: #1a3c6e; letter-spacing: 2px; }
  .company { font-size: 28px; font-weight: bold; margin: 24px 0 8px; }
  .meta { color: #555; margin: 4px 0; }
  .plan { font-size: 20px; color: #1a3c6e; margin-top: 16px; }
  .qr { margin-top: 24px; }
</style>
</head>
<body>
<div class="certificate">
  <h1>Certificate of Membership</h1>
  <p>This certifies that</p>
  <div class="company">{{.CompanyName}}</div>
  <p class="meta">Member ID: {{.UserID}}</p>
  <p class="meta">Proprietors: {{.Proprietors}}</p>
  <div class="plan">{{.PlanName}} Member</div>
  <p class="meta">Member since {{.StartedAt}}</p>
  {{if .ExpiresAt}}<p class="meta">Valid until {{.ExpiresAt}}</p>{{end}}
  {{if .QRCode}}<img class="qr" src="data:image/png;base64,{{.QRCode}}" alt="Verification QR" width="150" height="150">{{end}}
</div>
</body>
</html>`

var certificateTmpl = template.Must(template.New("certificate").Parse(certificateTemplate))

// verificationQRPNG renders the QR code pointing at the member's public
// verification page
func verificationQRPNG(memberID string) ([]byte, error) {
	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "https://members.rajavruksha.org"
	}
	content := fmt.Sprintf("%s/verify?memberId=%s", baseURL, memberID)

	qrCode, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	qrCode, err = barcode.Scale(qrCode, 300, 300)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrCode); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// memberFromToken loads the authenticated member
func (mac *MemberAuthController) memberFromToken(ctx context.Context, c echo.Context) (*models.Member, error) {
	hex, err := middleware.ExtractUserID(c)
	if err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, err
	}

	var member models.Member
	if err := config.GetCollection(mac.DB, "users").FindOne(ctx, bson.M{"_id": id}).Decode(&member); err != nil {
		return nil, err
	}
	return &member, nil
}

// Certificate renders the membership certificate as HTML
func (mac *MemberAuthController) Certificate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	member, err := mac.memberFromToken(ctx, c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	if member.Membership.Status != models.MembershipStatusActive {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Certificate is only available for active memberships",
		})
	}

	planName := ""
	var plan models.MembershipPlan
	if err := config.GetCollection(mac.DB, "membershipplans").FindOne(ctx, bson.M{"_id": member.Membership.Plan}).Decode(&plan); err == nil {
		planName = plan.Name
	}

	expiresAt := ""
	if member.Membership.ExpiresAt != nil {
		expiresAt = member.Membership.ExpiresAt.Format("02 Jan 2006")
	}

	// The QR is embedded so the certificate prints as one page
	qrBase64 := ""
	if qrPNG, err := verificationQRPNG(member.UserID); err == nil {
		qrBase64 = base64.StdEncoding.EncodeToString(qrPNG)
	} else {
		log.Printf("failed to render certificate QR for member %s: %v", member.UserID, err)
	}

	var buf bytes.Buffer
	err = certificateTmpl.Execute(&buf, map[string]string{
		"CompanyName": member.CompanyName,
		"UserID":      member.UserID,
		"Proprietors": member.Proprietors,
		"PlanName":    planName,
		"StartedAt":   member.Membership.StartedAt.Format("02 Jan 2006"),
		"ExpiresAt":   expiresAt,
		"QRCode":      qrBase64,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to render certificate",
		})
	}

	return c.HTML(http.StatusOK, buf.String())
}

// CertificateQR returns a PNG QR code pointing at the member's
// verification page
func (mac *MemberAuthController) CertificateQR(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	member, err := mac.memberFromToken(ctx, c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	qrPNG, err := verificationQRPNG(member.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code",
		})
	}

	return c.Blob(http.StatusOK, "image/png", qrPNG)
}

// Profile returns the authenticated member's own record
func (mac *MemberAuthController) Profile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	member, err := mac.memberFromToken(ctx, c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile fetched successfully",
		Data:    member,
	})
}
