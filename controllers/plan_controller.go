// controllers/plan_controller.go
package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rajavruksha/ftii_backend/config"
	"github.com/rajavruksha/ftii_backend/middleware"
	"github.com/rajavruksha/ftii_backend/models"
)

type PlanController struct {
	DB *mongo.Client
}

func NewPlanController(db *mongo.Client) *PlanController {
	return &PlanController{DB: db}
}

// CreatePlan creates a membership plan. Plan names are stored
// upper-cased and must be unique.
func (pc *PlanController) CreatePlan(c echo.Context) error {
	var req models.CreatePlanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Plan name and amount are required",
		})
	}

	name := strings.ToUpper(strings.TrimSpace(req.Name))
	if name == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Plan name is required",
		})
	}
	if *req.Amount < 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Plan amount cannot be negative",
		})
	}
	if req.DurationDays != nil && *req.DurationDays <= 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Plan duration must be a positive number of days",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(pc.DB, "membershipplans")

	count, err := collection.CountDocuments(ctx, bson.M{"name": name})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check existing plans",
		})
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Plan with this name already exists",
		})
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	benefits := req.Benefits
	if benefits == nil {
		benefits = []models.PlanBenefit{}
	}

	now := time.Now()
	plan := models.MembershipPlan{
		ID:             primitive.NewObjectID(),
		Name:           name,
		Amount:         *req.Amount,
		DurationInDays: req.DurationDays,
		Benefits:       benefits,
		Description:    strings.TrimSpace(req.Description),
		IsActive:       isActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if adminID, err := middleware.ExtractUserID(c); err == nil {
		if objID, err := primitive.ObjectIDFromHex(adminID); err == nil {
			plan.CreatedBy = &objID
		}
	}

	if _, err := collection.InsertOne(ctx, plan); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create plan",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Plan created successfully",
		Data:    plan,
	})
}

// FetchPlans returns all plans for the admin panel
func (pc *PlanController) FetchPlans(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(pc.DB, "membershipplans")

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch plans",
		})
	}
	defer cursor.Close(ctx)

	plans := []models.MembershipPlan{}
	if err := cursor.All(ctx, &plans); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode plans",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Plans fetched successfully",
		Data:    plans,
	})
}

// GetPlan returns one plan for the admin detail view
func (pc *PlanController) GetPlan(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid plan id",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var plan models.MembershipPlan
	err = config.GetCollection(pc.DB, "membershipplans").FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Plan not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch plan",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Plan fetched successfully",
		Data:    plan,
	})
}

// GetActivePlans is the public listing used by the registration page
func (pc *PlanController) GetActivePlans(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(pc.DB, "membershipplans")

	opts := options.Find().SetSort(bson.D{{Key: "amount", Value: 1}})
	cursor, err := collection.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch plans",
		})
	}
	defer cursor.Close(ctx)

	plans := []models.MembershipPlan{}
	if err := cursor.All(ctx, &plans); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode plans",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Plans fetched successfully",
		Data:    plans,
	})
}

// EditPlan applies a partial update. Deactivating a plan never touches
// the members already on it.
func (pc *PlanController) EditPlan(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid plan id",
		})
	}

	var req models.EditPlanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(pc.DB, "membershipplans")

	set := bson.M{"updatedAt": time.Now()}

	if req.Name != nil {
		name := strings.ToUpper(strings.TrimSpace(*req.Name))
		if name == "" {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Plan name cannot be empty",
			})
		}
		count, err := collection.CountDocuments(ctx, bson.M{
			"name": name,
			"_id":  bson.M{"$ne": id},
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to check existing plans",
			})
		}
		if count > 0 {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Plan with this name already exists",
			})
		}
		set["name"] = name
	}
	if req.Amount != nil {
		if *req.Amount < 0 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Plan amount cannot be negative",
			})
		}
		set["amount"] = *req.Amount
	}
	if req.DurationDays != nil {
		if *req.DurationDays <= 0 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Plan duration must be a positive number of days",
			})
		}
		set["durationInDays"] = *req.DurationDays
	}
	if req.Benefits != nil {
		set["benefits"] = req.Benefits
	}
	if req.Description != nil {
		set["description"] = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}

	var updated models.MembershipPlan
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Plan not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update plan",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Plan updated successfully",
		Data:    updated,
	})
}

// TogglePlan flips a plan's active flag
func (pc *PlanController) TogglePlan(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid plan id",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(pc.DB, "membershipplans")

	var plan models.MembershipPlan
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Plan not found",
		})
	}

	update := bson.M{"$set": bson.M{
		"isActive":  !plan.IsActive,
		"updatedAt": time.Now(),
	}}
	if _, err := collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update plan",
		})
	}

	plan.IsActive = !plan.IsActive
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Plan updated successfully",
		Data:    plan,
	})
}
