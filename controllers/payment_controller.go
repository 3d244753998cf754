// controllers/payment_controller.go
package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
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

type PaymentController struct {
	DB       *mongo.Client
	Razorpay *services.RazorpayService
	Policy   services.ReferralPolicy
	Members  *repositories.MemberRepository
}

func NewPaymentController(db *mongo.Client, razorpay *services.RazorpayService, policy services.ReferralPolicy, members *repositories.MemberRepository) *PaymentController {
	return &PaymentController{DB: db, Razorpay: razorpay, Policy: policy, Members: members}
}

// CreateOrder validates the registration form, opens a gateway order and
// persists a CREATED payment carrying the form snapshot
func (pc *PaymentController) CreateOrder(c echo.Context) error {
	var req models.CreateOrderRequest
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
	err = config.GetCollection(pc.DB, "membershipplans").FindOne(ctx, bson.M{
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

	// Reject registrations for already-registered businesses
	existing, err := pc.Members.FindByEmailOrMobile(ctx, data.Email, data.MobileNumber)
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

	// A referral must point at a real member before we take money
	if data.Referral != nil && data.Referral.ReferredByUserID != "" {
		referrer, err := pc.Members.FindByPublicID(ctx, data.Referral.ReferredByUserID)
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
	}

	categoryID, err := resolveBusinessCategory(ctx, pc.DB, data)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	// Gateway amounts are in paise
	amountPaise := int64(math.Round(plan.Amount * 100))
	// Gateway receipts are capped at 40 characters
	receipt := "membership_" + uuid.NewString()[:23]

	orderID, err := pc.Razorpay.CreateOrder(amountPaise, receipt)
	if err != nil {
		log.Printf("razorpay order creation failed: %v", err)
		return c.JSON(http.StatusBadGateway, models.Response{
			Status:  http.StatusBadGateway,
			Message: "Failed to create payment order",
		})
	}

	now := time.Now()
	payment := models.Payment{
		ID:             primitive.NewObjectID(),
		MembershipPlan: plan.ID,
		Amount:         plan.Amount,
		PaymentSource:  models.PaymentSourceRazorpay,
		Snapshot:       buildSnapshot(data, categoryID),
		Razorpay:       models.RazorpayDetails{OrderID: orderID},
		Status:         models.PaymentStatusCreated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := config.GetCollection(pc.DB, "payments").InsertOne(ctx, payment); err != nil {
		log.Printf("failed to persist payment for order %s: %v", orderID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to record payment order",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Order created successfully",
		Data: map[string]interface{}{
			"orderId":  orderID,
			"amount":   amountPaise,
			"currency": "INR",
			"key":      pc.Razorpay.KeyID(),
		},
	})
}

// webhookPayload is the slice of the gateway event we act on
type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// settlementFilter matches a payment only while it is still open, so a
// settled payment can never be claimed a second time
func settlementFilter(paymentID primitive.ObjectID) bson.M {
	return bson.M{"_id": paymentID, "status": models.PaymentStatusCreated}
}

// settlementUpdate moves a claimed payment to SUCCESS with the gateway
// identifiers attached
func settlementUpdate(gatewayPaymentID, signature string, now time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"status":             models.PaymentStatusSuccess,
		"razorpay.paymentId": gatewayPaymentID,
		"razorpay.signature": signature,
		"paidAt":             now,
		"updatedAt":          now,
	}}
}

// RazorpayWebhook settles a payment and provisions the member. The
// handler is idempotent: redelivered events find the payment already
// settled and are acknowledged without side effects.
func (pc *PaymentController) RazorpayWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Failed to read request body",
		})
	}

	signature := c.Request().Header.Get("X-Razorpay-Signature")
	if signature == "" || !pc.Razorpay.VerifyWebhookSignature(body, signature) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid webhook signature",
		})
	}

	var event webhookPayload
	if err := json.Unmarshal(body, &event); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid webhook payload",
		})
	}

	// Only captured payments settle a membership
	if event.Event != "payment.captured" {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Event ignored",
			Data:    map[string]bool{"received": true},
		})
	}

	orderID := event.Payload.Payment.Entity.OrderID
	gatewayPaymentID := event.Payload.Payment.Entity.ID

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	payments := config.GetCollection(pc.DB, "payments")

	var payment models.Payment
	err = payments.FindOne(ctx, bson.M{"razorpay.orderId": orderID}).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		log.Printf("webhook for unknown order %s", orderID)
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Order not found",
			Data:    map[string]bool{"received": true},
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to look up payment",
		})
	}

	if payment.Status == models.PaymentStatusSuccess {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Payment already settled",
			Data:    map[string]bool{"received": true},
		})
	}

	// Resolve the referral before settling anything
	referral := models.Referral{Source: models.ReferralSourceAdmin}
	if ref := payment.Snapshot.Referral; ref != nil && ref.ReferredByUserID != "" {
		referrer, err := pc.Members.FindByPublicID(ctx, ref.ReferredByUserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to look up referrer",
			})
		}
		if referrer == nil {
			log.Printf("webhook for order %s names unknown referrer %s", orderID, ref.ReferredByUserID)
			return c.JSON(http.StatusOK, models.Response{
				Status:  http.StatusOK,
				Message: "Referrer not found",
				Data:    map[string]bool{"received": false},
			})
		}

		if err := pc.Policy.Allow(ctx, ref.ReferredByUserID); err != nil {
			log.Printf("settlement refused for order %s: %v", orderID, err)
			return c.JSON(http.StatusOK, models.Response{
				Status:  http.StatusOK,
				Message: "Referral limit reached",
				Data:    map[string]bool{"received": false},
			})
		}
		referral = models.Referral{
			Source:           models.ReferralSourceUser,
			ReferredByUser:   &referrer.ID,
			ReferredByUserID: referrer.UserID,
		}
	}

	// Claim the payment atomically so concurrent deliveries of the same
	// event settle it exactly once
	claim := payments.FindOneAndUpdate(ctx,
		settlementFilter(payment.ID),
		settlementUpdate(gatewayPaymentID, signature, time.Now()))
	if claim.Err() == mongo.ErrNoDocuments {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Payment already settled",
			Data:    map[string]bool{"received": true},
		})
	}
	if claim.Err() != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to settle payment",
		})
	}

	var plan models.MembershipPlan
	err = config.GetCollection(pc.DB, "membershipplans").FindOne(ctx, bson.M{"_id": payment.MembershipPlan}).Decode(&plan)
	if err != nil {
		log.Printf("plan %s missing while provisioning order %s: %v", payment.MembershipPlan.Hex(), orderID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load membership plan",
		})
	}

	member, plainPassword, err := provisionMember(ctx, pc.DB, payment.Snapshot, &plan, referral)
	if err != nil {
		log.Printf("provisioning failed for order %s: %v", orderID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to provision member",
		})
	}

	if _, err := payments.UpdateOne(ctx,
		bson.M{"_id": payment.ID},
		bson.M{"$set": bson.M{"user": member.ID, "updatedAt": time.Now()}}); err != nil {
		log.Printf("failed to link payment %s to member %s: %v", payment.ID.Hex(), member.UserID, err)
	}

	go func(email, company, memberID, password string) {
		if err := utils.SendWelcomeMail(email, company, memberID, password); err != nil {
			log.Printf("failed to send welcome mail to %s: %v", email, err)
		}
	}(member.Email, member.CompanyName, member.UserID, plainPassword)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment settled and member provisioned",
		Data:    map[string]bool{"received": true},
	})
}

// FetchPaymentRecords lists payments with pagination, status filter and
// free-text search over company, email, order and transaction ids
func (pc *PaymentController) FetchPaymentRecords(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := bson.M{}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}
	if source := c.QueryParam("source"); source != "" {
		filter["paymentSource"] = source
	}
	if search := c.QueryParam("search"); search != "" {
		regex := bson.M{"$regex": search, "$options": "i"}
		filter["$or"] = []bson.M{
			{"registrationSnapshot.companyName": regex},
			{"registrationSnapshot.email": regex},
			{"razorpay.orderId": regex},
			{"transactionId": regex},
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	payments := config.GetCollection(pc.DB, "payments")

	totalCount, err := payments.CountDocuments(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to count payments",
		})
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := payments.Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch payments",
		})
	}
	defer cursor.Close(ctx)

	records := []models.Payment{}
	if err := cursor.All(ctx, &records); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode payments",
		})
	}

	// Attach referrer company names for rows that carry a referral
	type paymentRow struct {
		models.Payment `bson:",inline"`
		ReferrerName   string `json:"referrerName,omitempty"`
	}
	rows := make([]paymentRow, len(records))
	referrerIDs := []string{}
	for i, record := range records {
		rows[i] = paymentRow{Payment: record}
		if ref := record.Snapshot.Referral; ref != nil && ref.ReferredByUserID != "" {
			referrerIDs = append(referrerIDs, ref.ReferredByUserID)
		}
	}
	if len(referrerIDs) > 0 {
		names, err := pc.referrerNames(ctx, referrerIDs)
		if err != nil {
			log.Printf("failed to resolve referrer names: %v", err)
		}
		for i := range rows {
			if ref := rows[i].Snapshot.Referral; ref != nil && ref.ReferredByUserID != "" {
				rows[i].ReferrerName = names[ref.ReferredByUserID]
			}
		}
	}

	// Sum of settled amounts across the whole filtered set
	successMatch := bson.M{}
	for k, v := range filter {
		successMatch[k] = v
	}
	successMatch["status"] = models.PaymentStatusSuccess

	totalSuccessAmount := 0.0
	agg, err := payments.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: successMatch}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	})
	if err == nil {
		var sums []struct {
			Total float64 `bson:"total"`
		}
		if err := agg.All(ctx, &sums); err == nil && len(sums) > 0 {
			totalSuccessAmount = sums[0].Total
		}
	}

	totalPages := int64(math.Ceil(float64(totalCount) / float64(limit)))

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payments fetched successfully",
		Data: map[string]interface{}{
			"payments":           rows,
			"totalSuccessAmount": totalSuccessAmount,
			"pagination": models.Pagination{
				CurrentPage: page,
				TotalPages:  totalPages,
				TotalCount:  totalCount,
				Limit:       limit,
			},
		},
	})
}

// ViewPaymentRecord returns one payment with its snapshot
func (pc *PaymentController) ViewPaymentRecord(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid payment id",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var payment models.Payment
	err = config.GetCollection(pc.DB, "payments").FindOne(ctx, bson.M{"_id": id}).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Payment not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch payment",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment fetched successfully",
		Data: map[string]interface{}{
			"payment":    payment,
			"isEditable": payment.PaymentSource != models.PaymentSourceRazorpay,
		},
	})
}

// referrerNames maps 6-digit member ids to company names in one query
func (pc *PaymentController) referrerNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	cursor, err := config.GetCollection(pc.DB, "users").Find(ctx,
		bson.M{"userId": bson.M{"$in": userIDs}},
		options.Find().SetProjection(bson.M{"userId": 1, "companyName": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	names := map[string]string{}
	for cursor.Next(ctx) {
		var m models.Member
		if err := cursor.Decode(&m); err != nil {
			return nil, err
		}
		names[m.UserID] = m.CompanyName
	}
	return names, cursor.Err()
}

// EditPaymentRecord updates a manually recorded payment. Gateway
// payments are immutable from the admin panel.
func (pc *PaymentController) EditPaymentRecord(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("paymentId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid payment id",
		})
	}

	var req models.EditPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	payments := config.GetCollection(pc.DB, "payments")

	var payment models.Payment
	err = payments.FindOne(ctx, bson.M{"_id": id}).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Payment not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch payment",
		})
	}

	if payment.PaymentSource == models.PaymentSourceRazorpay {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Gateway payments cannot be edited",
		})
	}

	set := bson.M{"updatedAt": time.Now()}

	if req.PaymentSource != nil {
		valid := false
		for _, s := range models.ManualPaymentSources {
			if *req.PaymentSource == s {
				valid = true
				break
			}
		}
		if !valid {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid payment source",
			})
		}
		set["paymentSource"] = *req.PaymentSource
		set["registrationSnapshot.paymentSource"] = *req.PaymentSource
	}
	if req.TransactionID != nil {
		set["transactionId"] = *req.TransactionID
		set["registrationSnapshot.transactionId"] = *req.TransactionID
	}
	if req.Amount != nil {
		if *req.Amount < 0 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Amount cannot be negative",
			})
		}
		set["amount"] = *req.Amount
		set["registrationSnapshot.amount"] = *req.Amount
	}
	if req.Status != nil {
		// A settled payment never changes status again
		if payment.Status == models.PaymentStatusSuccess && *req.Status != models.PaymentStatusSuccess {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Settled payments cannot change status",
			})
		}
		if *req.Status != models.PaymentStatusSuccess && *req.Status != models.PaymentStatusFailed && *req.Status != models.PaymentStatusCreated {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid payment status",
			})
		}
		set["status"] = *req.Status
		if *req.Status == models.PaymentStatusSuccess && payment.PaidAt == nil {
			set["paidAt"] = time.Now()
		}
	}

	var updated models.Payment
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = payments.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update payment",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment updated successfully",
		Data:    updated,
	})
}

// GetUserReferralDetails returns the referrer and the members credited
// to their 6-digit id
func (pc *PaymentController) GetUserReferralDetails(c echo.Context) error {
	userID := c.Param("userId")
	if !utils.IsValidMemberID(userID) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Member id must be 6 digits",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	referrer, err := pc.Members.FindByPublicID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to look up member",
		})
	}
	if referrer == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Member not found",
		})
	}

	users := config.GetCollection(pc.DB, "users")
	cursor, err := users.Find(ctx,
		bson.M{"referral.referredByUserId": userID},
		options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetProjection(bson.M{
				"userId":      1,
				"companyName": 1,
				"email":       1,
				"membership":  1,
				"createdAt":   1,
			}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch referrals",
		})
	}
	defer cursor.Close(ctx)

	referred := []models.Member{}
	if err := cursor.All(ctx, &referred); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode referrals",
		})
	}

	// Settled amounts per referred member
	memberIDs := make([]primitive.ObjectID, len(referred))
	for i, m := range referred {
		memberIDs[i] = m.ID
	}
	paidByMember := map[primitive.ObjectID]float64{}
	if len(memberIDs) > 0 {
		agg, err := config.GetCollection(pc.DB, "payments").Aggregate(ctx, mongo.Pipeline{
			{{Key: "$match", Value: bson.M{
				"user":   bson.M{"$in": memberIDs},
				"status": models.PaymentStatusSuccess,
			}}},
			{{Key: "$group", Value: bson.M{"_id": "$user", "total": bson.M{"$sum": "$amount"}}}},
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to aggregate referral payments",
			})
		}
		var sums []struct {
			ID    primitive.ObjectID `bson:"_id"`
			Total float64            `bson:"total"`
		}
		if err := agg.All(ctx, &sums); err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to decode referral payments",
			})
		}
		for _, s := range sums {
			paidByMember[s.ID] = s.Total
		}
	}

	type referredRow struct {
		models.Member `bson:",inline"`
		PaidAmount    float64 `json:"paidAmount"`
	}
	rows := make([]referredRow, len(referred))
	totalPaid := 0.0
	for i, m := range referred {
		rows[i] = referredRow{Member: m, PaidAmount: paidByMember[m.ID]}
		totalPaid += paidByMember[m.ID]
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Referral details fetched successfully",
		Data: map[string]interface{}{
			"referrer": map[string]interface{}{
				"userId":      referrer.UserID,
				"companyName": referrer.CompanyName,
				"email":       referrer.Email,
			},
			"totalReferrals":  len(referred),
			"totalPaidAmount": totalPaid,
			"referredMembers": rows,
		},
	})
}
