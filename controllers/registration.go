// controllers/registration.go
//
// Shared validation and provisioning helpers used by both the gateway
// order flow and the admin manual registration flow.
package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rajavruksha/ftii_backend/config"
	"github.com/rajavruksha/ftii_backend/models"
	"github.com/rajavruksha/ftii_backend/utils"
)

// validateRegistrationData checks the registration form fields. It
// returns a human-readable message for the first problem found, or ""
// when the form is acceptable.
func validateRegistrationData(data *models.RegistrationData) string {
	if data == nil {
		return "Registration data is required"
	}
	if strings.TrimSpace(data.CompanyName) == "" {
		return "Company name is required"
	}
	if strings.TrimSpace(data.Proprietors) == "" {
		return "Proprietor name is required"
	}
	if !utils.IsValidMobile(data.MobileNumber) {
		return "Mobile number must be exactly 10 digits"
	}
	if !utils.IsValidEmail(utils.SanitizeEmail(data.Email)) {
		return "A valid email address is required"
	}
	if strings.TrimSpace(data.Address.State) == "" || strings.TrimSpace(data.Address.District) == "" {
		return "Address state and district are required"
	}
	if !utils.IsValidPin(data.Address.Pin) {
		return "Address pin code must be 6 digits"
	}
	if data.BusinessCategory == "" && strings.TrimSpace(data.CustomBusinessCategory) == "" {
		return "A business category is required"
	}

	if data.BusinessNature == nil ||
		((data.BusinessNature.Manufacturer == nil || !data.BusinessNature.Manufacturer.IsManufacturer) &&
			(data.BusinessNature.Trader == nil || !data.BusinessNature.Trader.IsTrader)) {
		return "Business nature must include manufacturer or trader"
	}
	if m := data.BusinessNature.Manufacturer; m != nil && m.IsManufacturer && len(m.Scale) == 0 {
		return "Manufacturer scale is required"
	}
	if tr := data.BusinessNature.Trader; tr != nil && tr.IsTrader && len(tr.Type) == 0 {
		return "Trader type is required"
	}

	hasCommodity := false
	for _, commodity := range data.MajorCommodities {
		if strings.TrimSpace(commodity) != "" {
			hasCommodity = true
			break
		}
	}
	if !hasCommodity {
		return "At least one major commodity is required"
	}

	if data.GSTNumber != "" && !utils.IsValidGST(data.GSTNumber) {
		return "GST number format is invalid"
	}

	// Bank details are all-or-nothing
	if data.BankDetails != nil {
		bd := data.BankDetails
		if strings.TrimSpace(bd.BankName) == "" || bd.AccountNumber == "" || bd.IFSCCode == "" {
			return "Bank details require bank name, account number and IFSC code"
		}
		if !utils.IsValidAccountNumber(bd.AccountNumber) {
			return "Bank account number must be at least 9 characters"
		}
		if !utils.IsValidIFSC(bd.IFSCCode) {
			return "IFSC code format is invalid"
		}
	}

	if data.Referral != nil && data.Referral.ReferredByUserID != "" {
		if !utils.IsValidMemberID(data.Referral.ReferredByUserID) {
			return "Referrer id must be a 6-digit member id"
		}
	}

	return ""
}

// resolveBusinessCategory returns the category id for the form, looking
// up an existing id or finding-or-creating one from the custom name
func resolveBusinessCategory(ctx context.Context, db *mongo.Client, data *models.RegistrationData) (primitive.ObjectID, error) {
	collection := config.GetCollection(db, "businesscategories")

	if data.BusinessCategory != "" {
		id, err := primitive.ObjectIDFromHex(data.BusinessCategory)
		if err != nil {
			return primitive.NilObjectID, errors.New("invalid business category id")
		}
		count, err := collection.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return primitive.NilObjectID, err
		}
		if count == 0 {
			return primitive.NilObjectID, errors.New("business category not found")
		}
		return id, nil
	}

	name := strings.TrimSpace(data.CustomBusinessCategory)
	slug := models.Slugify(name)
	if slug == "" {
		return primitive.NilObjectID, errors.New("invalid business category name")
	}

	// Reuse an existing category with the same slug before creating one
	var existing models.BusinessCategory
	err := collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&existing)
	if err == nil {
		return existing.ID, nil
	}
	if err != mongo.ErrNoDocuments {
		return primitive.NilObjectID, err
	}

	now := time.Now()
	category := models.BusinessCategory{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Slug:      slug,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := collection.InsertOne(ctx, category); err != nil {
		return primitive.NilObjectID, err
	}
	return category.ID, nil
}

// buildSnapshot copies the form into the snapshot persisted on the
// payment record
func buildSnapshot(data *models.RegistrationData, categoryID primitive.ObjectID) models.RegistrationSnapshot {
	snapshot := models.RegistrationSnapshot{
		CompanyName:      strings.TrimSpace(data.CompanyName),
		Proprietors:      strings.TrimSpace(data.Proprietors),
		Address:          data.Address,
		MobileNumber:     data.MobileNumber,
		Email:            utils.SanitizeEmail(data.Email),
		BusinessCategory: categoryID,
		BusinessNature:   *data.BusinessNature,
		MajorCommodities: data.MajorCommodities,
		GSTNumber:        data.GSTNumber,
		BankDetails:      data.BankDetails,
		Referral:         data.Referral,
	}
	if snapshot.MajorCommodities == nil {
		snapshot.MajorCommodities = []string{}
	}
	return snapshot
}

// provisionMember creates the member record from a confirmed payment
// snapshot. It allocates the public id, generates and encrypts the
// initial password and activates the membership. The plain password is
// returned so the caller can mail it.
func provisionMember(ctx context.Context, db *mongo.Client, snapshot models.RegistrationSnapshot, plan *models.MembershipPlan, referral models.Referral) (*models.Member, string, error) {
	users := config.GetCollection(db, "users")

	memberID, err := utils.GenerateMemberID(ctx, users)
	if err != nil {
		return nil, "", err
	}

	plainPassword, err := utils.GeneratePassword(10)
	if err != nil {
		return nil, "", err
	}
	encrypted, err := utils.EncryptPassword(plainPassword)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	var expiresAt *time.Time
	if plan.DurationInDays != nil {
		exp := now.Add(time.Duration(*plan.DurationInDays) * 24 * time.Hour)
		expiresAt = &exp
	}

	member := models.Member{
		ID:               primitive.NewObjectID(),
		UserID:           memberID,
		CompanyName:      snapshot.CompanyName,
		Proprietors:      snapshot.Proprietors,
		Address:          snapshot.Address,
		MobileNumber:     snapshot.MobileNumber,
		Email:            snapshot.Email,
		Password:         encrypted,
		BusinessCategory: snapshot.BusinessCategory,
		BusinessNature:   snapshot.BusinessNature,
		MajorCommodities: snapshot.MajorCommodities,
		GSTNumber:        snapshot.GSTNumber,
		Referral:         referral,
		BankDetails:      snapshot.BankDetails,
		Membership: models.Membership{
			Plan:      plan.ID,
			Status:    models.MembershipStatusActive,
			StartedAt: now,
			ExpiresAt: expiresAt,
		},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := users.InsertOne(ctx, member); err != nil {
		return nil, "", err
	}

	return &member, plainPassword, nil
}
