// controllers/dashboard_controller.go
package controllers

import (
	"context"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rajavruksha/ftii_backend/config"
	"github.com/rajavruksha/ftii_backend/models"
)

type DashboardController struct {
	DB *mongo.Client
}

func NewDashboardController(db *mongo.Client) *DashboardController {
	return &DashboardController{DB: db}
}

// PaymentSuccessRate is the settled share of all finished-or-open
// gateway attempts, as a whole percentage. Zero attempts rate as zero.
func PaymentSuccessRate(success, created int64) int {
	denominator := success + created
	if denominator == 0 {
		return 0
	}
	return int(math.Round(100 * float64(success) / float64(denominator)))
}

// ViewDetails aggregates the admin dashboard numbers. The independent
// counters run concurrently against their collections.
func (dc *DashboardController) ViewDetails(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	users := config.GetCollection(dc.DB, "users")
	payments := config.GetCollection(dc.DB, "payments")

	var (
		totalMembers     int64
		activeMembers    int64
		pendingMembers   int64
		cancelledMembers int64
		newMembersToday  int64
		manufacturers    int64
		traders          int64
		createdPayments  int64
		successPayments  int64
		failedPayments   int64
		totalRevenue     float64
		monthlyRevenue   float64
		statesCovered    int

		firstErr error
		errOnce  sync.Once
		wg       sync.WaitGroup
	)

	record := func(err error) {
		if err != nil {
			errOnce.Do(func() { firstErr = err })
		}
	}

	count := func(coll *mongo.Collection, filter bson.M, out *int64) {
		defer wg.Done()
		n, err := coll.CountDocuments(ctx, filter)
		record(err)
		*out = n
	}

	sumAmounts := func(filter bson.M, out *float64) {
		defer wg.Done()
		agg, err := payments.Aggregate(ctx, mongo.Pipeline{
			{{Key: "$match", Value: filter}},
			{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
		})
		if err != nil {
			record(err)
			return
		}
		var sums []struct {
			Total float64 `bson:"total"`
		}
		if err := agg.All(ctx, &sums); err != nil {
			record(err)
			return
		}
		if len(sums) > 0 {
			*out = sums[0].Total
		}
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	wg.Add(13)
	go count(users, bson.M{}, &totalMembers)
	go count(users, bson.M{"membership.status": models.MembershipStatusActive}, &activeMembers)
	go count(users, bson.M{"membership.status": models.MembershipStatusPending}, &pendingMembers)
	go count(users, bson.M{"membership.status": models.MembershipStatusCancelled}, &cancelledMembers)
	go count(users, bson.M{"createdAt": bson.M{"$gte": dayStart}}, &newMembersToday)
	go count(users, bson.M{"businessNature.manufacturer.isManufacturer": true}, &manufacturers)
	go count(users, bson.M{"businessNature.trader.isTrader": true}, &traders)
	go count(payments, bson.M{"status": models.PaymentStatusCreated}, &createdPayments)
	go count(payments, bson.M{"status": models.PaymentStatusSuccess}, &successPayments)
	go count(payments, bson.M{"status": models.PaymentStatusFailed}, &failedPayments)
	go sumAmounts(bson.M{"status": models.PaymentStatusSuccess}, &totalRevenue)
	go sumAmounts(bson.M{
		"status": models.PaymentStatusSuccess,
		"paidAt": bson.M{"$gte": monthStart},
	}, &monthlyRevenue)
	go func() {
		defer wg.Done()
		states, err := users.Distinct(ctx, "address.state", bson.M{})
		record(err)
		statesCovered = len(states)
	}()
	wg.Wait()

	if firstErr != nil {
		log.Printf("dashboard aggregation failed: %v", firstErr)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to aggregate dashboard data",
		})
	}

	// Member distribution across categories, category names joined in
	membersByCategory := []bson.M{}
	catAgg, err := users.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$businessCategory", "count": bson.M{"$sum": 1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "businesscategories",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "category",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$category", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{
			"_id":   0,
			"name":  "$category.name",
			"count": 1,
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	})
	if err == nil {
		defer catAgg.Close(ctx)
		catAgg.All(ctx, &membersByCategory)
	}

	membersByPlan := []bson.M{}
	planAgg, err := users.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$membership.plan", "count": bson.M{"$sum": 1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "membershipplans",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "plan",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$plan", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{
			"_id":   0,
			"name":  "$plan.name",
			"count": 1,
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	})
	if err == nil {
		defer planAgg.Close(ctx)
		planAgg.All(ctx, &membersByPlan)
	}

	recentMembers := []models.Member{}
	cursor, err := users.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(5).
			SetProjection(bson.M{
				"userId":      1,
				"companyName": 1,
				"email":       1,
				"membership":  1,
				"createdAt":   1,
			}))
	if err == nil {
		defer cursor.Close(ctx)
		cursor.All(ctx, &recentMembers)
	}

	averagePayment := 0.0
	if successPayments > 0 {
		averagePayment = totalRevenue / float64(successPayments)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard data fetched successfully",
		Data: map[string]interface{}{
			"members": map[string]interface{}{
				"total":         totalMembers,
				"active":        activeMembers,
				"pending":       pendingMembers,
				"cancelled":     cancelledMembers,
				"newToday":      newMembersToday,
				"manufacturers": manufacturers,
				"traders":       traders,
			},
			"payments": map[string]interface{}{
				"created":        createdPayments,
				"success":        successPayments,
				"failed":         failedPayments,
				"successRate":    PaymentSuccessRate(successPayments, createdPayments),
				"averagePayment": averagePayment,
			},
			"totalRevenue":      totalRevenue,
			"monthlyRevenue":    monthlyRevenue,
			"statesCovered":     statesCovered,
			"membersByCategory": membersByCategory,
			"membersByPlan":     membersByPlan,
			"recentMembers":     recentMembers,
		},
	})
}
