// controllers/member_controller.go
package controllers

import (
	"context"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rajavruksha/ftii_backend/config"
	"github.com/rajavruksha/ftii_backend/models"
	"github.com/rajavruksha/ftii_backend/repositories"
	"github.com/rajavruksha/ftii_backend/services"
	"github.com/rajavruksha/ftii_backend/utils"
)

type MemberController struct {
	DB      *mongo.Client
	Policy  services.ReferralPolicy
	Members *repositories.MemberRepository
}

func NewMemberController(db *mongo.Client, policy services.ReferralPolicy, members *repositories.MemberRepository) *MemberController {
	return &MemberController{DB: db, Policy: policy, Members: members}
}

type createUserRequest struct {
	MembershipPlanID string                   `json:"membershipPlanId"`
	RegistrationData *models.RegistrationData `json:"registrationData"`
	PaymentSource    string                   `json:"paymentSource"`
	TransactionID    string                   `json:"transactionId"`
}

// CreateUser registers a member directly from the admin panel. The
// payment is recorded as settled with the given manual source.
func (mc *MemberController) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if msg := validateRegistrationData(req.RegistrationData); msg != "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: msg,
		})
	}

	source := req.PaymentSource
	if source == "" {
		source = models.PaymentSourceAdmin
	}
	validSource := false
	for _, s := range models.ManualPaymentSources {
		if source == s {
			validSource = true
			break
		}
	}
	if !validSource {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid payment source for manual registration",
		})
	}

	planID, err := primitive.ObjectIDFromHex(req.MembershipPlanID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid membership plan id",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var plan models.MembershipPlan
	err = config.GetCollection(mc.DB, "membershipplans").FindOne(ctx, bson.M{
		"_id":      planID,
		"isActive": true,
	}).Decode(&plan)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Membership plan not found or inactive",
		})
	}

	data := req.RegistrationData

	existing, err := mc.Members.FindByEmailOrMobile(ctx, data.Email, data.MobileNumber)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check existing members",
		})
	}
	if existing != nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "A member with this email or mobile number already exists",
		})
	}

	referral := models.Referral{Source: models.ReferralSourceAdmin}
	if data.Referral != nil && data.Referral.ReferredByUserID != "" {
		referrer, err := mc.Members.FindByPublicID(ctx, data.Referral.ReferredByUserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to check referrer",
			})
		}
		if referrer == nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Referrer member id not found",
			})
		}
		if referrer.Membership.Status != models.MembershipStatusActive {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Referrer membership is not active",
			})
		}
		if err := mc.Policy.Allow(ctx, referrer.UserID); err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		}
		referral = models.Referral{
			Source:           models.ReferralSourceUser,
			ReferredByUser:   &referrer.ID,
			ReferredByUserID: referrer.UserID,
		}
	}

	categoryID, err := resolveBusinessCategory(ctx, mc.DB, data)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	snapshot := buildSnapshot(data, categoryID)
	snapshot.PaymentSource = source
	snapshot.TransactionID = req.TransactionID
	snapshot.Amount = plan.Amount

	member, plainPassword, err := provisionMember(ctx, mc.DB, snapshot, &plan, referral)
	if err != nil {
		log.Printf("manual provisioning failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create member",
		})
	}

	// Record the settled manual payment alongside the member
	now := time.Now()
	payment := models.Payment{
		ID:             primitive.NewObjectID(),
		User:           &member.ID,
		MembershipPlan: plan.ID,
		Amount:         plan.Amount,
		PaymentSource:  source,
		TransactionID:  req.TransactionID,
		Snapshot:       snapshot,
		Status:         models.PaymentStatusSuccess,
		PaidAt:         &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := config.GetCollection(mc.DB, "payments").InsertOne(ctx, payment); err != nil {
		log.Printf("failed to record manual payment for member %s: %v", member.UserID, err)
	}

	go func(email, company, memberID, password string) {
		if err := utils.SendWelcomeMail(email, company, memberID, password); err != nil {
			log.Printf("failed to send welcome mail to %s: %v", email, err)
		}
	}(member.Email, member.CompanyName, member.UserID, plainPassword)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Member created successfully",
		Data:    member,
	})
}

// memberWithPassword widens the member document with the decrypted
// password for the admin listing
type memberWithPassword struct {
	models.Member
	PlainPassword string `json:"password,omitempty"`
}

// FetchAllUsers lists members with pagination, free-text search and
// filters on category, plan, district and membership status
func (mc *MemberController) FetchAllUsers(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := bson.M{}
	if search := c.QueryParam("search"); search != "" {
		regex := bson.M{"$regex": search, "$options": "i"}
		filter["$or"] = []bson.M{
			{"companyName": regex},
			{"email": regex},
			{"userId": regex},
			{"mobileNumber": regex},
		}
	}
	if category := c.QueryParam("businessCategory"); category != "" {
		if id, err := primitive.ObjectIDFromHex(category); err == nil {
			filter["businessCategory"] = id
		}
	}
	if plan := c.QueryParam("membershipPlan"); plan != "" {
		if id, err := primitive.ObjectIDFromHex(plan); err == nil {
			filter["membership.plan"] = id
		}
	}
	if state := c.QueryParam("state"); state != "" {
		filter["address.state"] = state
	}
	if district := c.QueryParam("district"); district != "" {
		filter["address.district"] = district
	}
	if taluk := c.QueryParam("taluk"); taluk != "" {
		filter["address.taluk"] = taluk
	}
	if scale := c.QueryParam("manufacturerScale"); scale != "" {
		filter["businessNature.manufacturer.scale"] = scale
	}
	if traderType := c.QueryParam("traderType"); traderType != "" {
		filter["businessNature.trader.type"] = traderType
	}
	if status := c.QueryParam("status"); status != "" {
		filter["membership.status"] = status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	users := config.GetCollection(mc.DB, "users")

	totalCount, err := users.CountDocuments(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to count members",
		})
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := users.Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch members",
		})
	}
	defer cursor.Close(ctx)

	members := []models.Member{}
	if err := cursor.All(ctx, &members); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode members",
		})
	}

	// The admin listing shows the stored password in clear
	out := make([]memberWithPassword, 0, len(members))
	for _, m := range members {
		entry := memberWithPassword{Member: m}
		if m.Password != "" {
			plain, err := utils.RevealPassword(m.Password, m.UserID, "admin member listing")
			if err == nil {
				entry.PlainPassword = plain
			}
		}
		out = append(out, entry)
	}

	totalPages := int64(math.Ceil(float64(totalCount) / float64(limit)))

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Members fetched successfully",
		Data: map[string]interface{}{
			"users": out,
			"pagination": models.Pagination{
				CurrentPage: page,
				TotalPages:  totalPages,
				TotalCount:  totalCount,
				Limit:       limit,
			},
		},
	})
}

// FetchUserFilters returns the distinct values the member listing can
// filter on
func (mc *MemberController) FetchUserFilters(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	users := config.GetCollection(mc.DB, "users")

	states, err := users.Distinct(ctx, "address.state", bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch filters",
		})
	}

	districts, err := users.Distinct(ctx, "address.district", bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch filters",
		})
	}

	taluks, err := users.Distinct(ctx, "address.taluk", bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch filters",
		})
	}

	statuses, err := users.Distinct(ctx, "membership.status", bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch filters",
		})
	}

	categories := []models.BusinessCategory{}
	catCursor, err := config.GetCollection(mc.DB, "businesscategories").Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err == nil {
		defer catCursor.Close(ctx)
		catCursor.All(ctx, &categories)
	}

	plans := []models.MembershipPlan{}
	planCursor, err := config.GetCollection(mc.DB, "membershipplans").Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err == nil {
		defer planCursor.Close(ctx)
		planCursor.All(ctx, &plans)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Filters fetched successfully",
		Data: map[string]interface{}{
			"states":     states,
			"districts":  districts,
			"taluks":     taluks,
			"statuses":   statuses,
			"categories": categories,
			"plans":      plans,
		},
	})
}

// FetchReferrerByUserId resolves a strict 6-digit id to a referrer
// summary for the registration form
func (mc *MemberController) FetchReferrerByUserId(c echo.Context) error {
	userID := c.Param("userId")
	if !utils.IsValidMemberID(userID) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Member id must be 6 digits",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	member, err := mc.Members.FindByPublicID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to look up member",
		})
	}
	if member == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Member not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Referrer fetched successfully",
		Data: map[string]interface{}{
			"userId":      member.UserID,
			"companyName": member.CompanyName,
			"proprietors": member.Proprietors,
		},
	})
}

// FetchUserById returns the full member record for the admin detail page
func (mc *MemberController) FetchUserById(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid member id",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var member models.Member
	err = config.GetCollection(mc.DB, "users").FindOne(ctx, bson.M{"_id": id}).Decode(&member)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Member not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch member",
		})
	}

	entry := memberWithPassword{Member: member}
	if member.Password != "" {
		plain, err := utils.RevealPassword(member.Password, member.UserID, "admin member detail")
		if err == nil {
			entry.PlainPassword = plain
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Member fetched successfully",
		Data:    entry,
	})
}

type editUserRequest struct {
	CompanyName      *string                `json:"companyName"`
	Proprietors      *string                `json:"proprietors"`
	Address          *models.Address        `json:"address"`
	MobileNumber     *string                `json:"mobileNumber"`
	Email            *string                `json:"email"`
	BusinessCategory *string                `json:"businessCategory"`
	BusinessNature   *models.BusinessNature `json:"businessNature"`
	MajorCommodities []string               `json:"majorCommodities"`
	GSTNumber        *string                `json:"gstNumber"`
	BankDetails      *models.BankDetails    `json:"bankDetails"`
	MembershipPlan   *string                `json:"membershipPlan"`
	MembershipStatus *string                `json:"membershipStatus"`
	IsActive         *bool                  `json:"isActive"`
}

// EditUsersDetails applies a partial update to a member. Changing the
// plan also moves it onto the member's latest settled payment.
func (mc *MemberController) EditUsersDetails(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid member id",
		})
	}

	var req editUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	users := config.GetCollection(mc.DB, "users")

	var member models.Member
	err = users.FindOne(ctx, bson.M{"_id": id}).Decode(&member)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Member not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch member",
		})
	}

	set := bson.M{"updatedAt": time.Now()}

	if req.CompanyName != nil {
		set["companyName"] = *req.CompanyName
	}
	if req.Proprietors != nil {
		set["proprietors"] = *req.Proprietors
	}
	if req.Address != nil {
		if !utils.IsValidPin(req.Address.Pin) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Address pin code must be 6 digits",
			})
		}
		set["address"] = *req.Address
	}
	if req.MobileNumber != nil {
		if !utils.IsValidMobile(*req.MobileNumber) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Mobile number must be exactly 10 digits",
			})
		}
		count, err := users.CountDocuments(ctx, bson.M{"mobileNumber": *req.MobileNumber, "_id": bson.M{"$ne": id}})
		if err == nil && count > 0 {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "A member with this mobile number already exists",
			})
		}
		set["mobileNumber"] = *req.MobileNumber
	}
	if req.Email != nil {
		email := utils.SanitizeEmail(*req.Email)
		if !utils.IsValidEmail(email) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "A valid email address is required",
			})
		}
		count, err := users.CountDocuments(ctx, bson.M{"email": email, "_id": bson.M{"$ne": id}})
		if err == nil && count > 0 {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "A member with this email already exists",
			})
		}
		set["email"] = email
	}
	if req.BusinessCategory != nil {
		catID, err := primitive.ObjectIDFromHex(*req.BusinessCategory)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid business category id",
			})
		}
		set["businessCategory"] = catID
	}
	if req.BusinessNature != nil {
		set["businessNature"] = *req.BusinessNature
	}
	if req.MajorCommodities != nil {
		set["majorCommodities"] = req.MajorCommodities
	}
	if req.GSTNumber != nil {
		if *req.GSTNumber != "" && !utils.IsValidGST(*req.GSTNumber) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "GST number format is invalid",
			})
		}
		set["gstNumber"] = *req.GSTNumber
	}
	if req.BankDetails != nil {
		bd := req.BankDetails
		if bd.BankName != "" || bd.AccountNumber != "" || bd.IFSCCode != "" {
			if !utils.IsValidAccountNumber(bd.AccountNumber) || !utils.IsValidIFSC(bd.IFSCCode) || bd.BankName == "" {
				return c.JSON(http.StatusBadRequest, models.Response{
					Status:  http.StatusBadRequest,
					Message: "Bank details require bank name, account number and IFSC code",
				})
			}
			set["bankDetails"] = *bd
		} else {
			set["bankDetails"] = nil
		}
	}
	if req.MembershipStatus != nil {
		switch *req.MembershipStatus {
		case models.MembershipStatusActive, models.MembershipStatusPending, models.MembershipStatusCancelled:
			set["membership.status"] = *req.MembershipStatus
		default:
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid membership status",
			})
		}
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}

	if req.MembershipPlan != nil {
		planID, err := primitive.ObjectIDFromHex(*req.MembershipPlan)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid membership plan id",
			})
		}

		var plan models.MembershipPlan
		err = config.GetCollection(mc.DB, "membershipplans").FindOne(ctx, bson.M{"_id": planID}).Decode(&plan)
		if err != nil {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Membership plan not found",
			})
		}

		// A plan change restarts the membership term
		started := time.Now()
		set["membership.plan"] = plan.ID
		set["membership.startedAt"] = started
		if plan.DurationInDays != nil {
			exp := started.Add(time.Duration(*plan.DurationInDays) * 24 * time.Hour)
			set["membership.expiresAt"] = exp
		} else {
			set["membership.expiresAt"] = nil
		}

		// Keep the latest settled payment consistent with the new plan
		payments := config.GetCollection(mc.DB, "payments")
		latest := options.FindOneAndUpdate().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		res := payments.FindOneAndUpdate(ctx,
			bson.M{"user": member.ID, "status": models.PaymentStatusSuccess},
			bson.M{"$set": bson.M{
				"membershipPlan": plan.ID,
				"amount":         plan.Amount,
				"updatedAt":      time.Now(),
			}}, latest)
		if res.Err() != nil && res.Err() != mongo.ErrNoDocuments {
			log.Printf("failed to move payment onto plan %s for member %s: %v", plan.Name, member.UserID, res.Err())
		}
	}

	var updated models.Member
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update member",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Member updated successfully",
		Data:    updated,
	})
}
