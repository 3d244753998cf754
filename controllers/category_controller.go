// controllers/category_controller.go
package controllers

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rajavruksha/ftii_backend/config"
	"github.com/rajavruksha/ftii_backend/models"
)

type CategoryController struct {
	DB *mongo.Client
}

func NewCategoryController(db *mongo.Client) *CategoryController {
	return &CategoryController{DB: db}
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

// CreateCategory creates a new business category
func (cc *CategoryController) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Category name is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(cc.DB, "businesscategories")

	// Names are unique case-insensitively
	count, err := collection.CountDocuments(ctx, bson.M{"slug": models.Slugify(name)})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check existing categories",
		})
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Category with this name already exists",
		})
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now()
	category := models.BusinessCategory{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Slug:        models.Slugify(name),
		Description: strings.TrimSpace(req.Description),
		IsActive:    isActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := collection.InsertOne(ctx, category); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create category",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Category created successfully",
		Data:    category,
	})
}

// FetchCategories returns categories for the admin panel, newest first,
// with pagination and name search
func (cc *CategoryController) FetchCategories(c echo.Context) error {
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
		filter["name"] = bson.M{"$regex": search, "$options": "i"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(cc.DB, "businesscategories")

	totalCount, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to count categories",
		})
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch categories",
		})
	}
	defer cursor.Close(ctx)

	categories := []models.BusinessCategory{}
	if err := cursor.All(ctx, &categories); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode categories",
		})
	}

	totalPages := int64(math.Ceil(float64(totalCount) / float64(limit)))

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Categories fetched successfully",
		Data: map[string]interface{}{
			"categories": categories,
			"pagination": models.Pagination{
				CurrentPage: page,
				TotalPages:  totalPages,
				TotalCount:  totalCount,
				Limit:       limit,
			},
		},
	})
}

// GetActiveCategories is the public listing used by the registration
// form, sorted by name
func (cc *CategoryController) GetActiveCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(cc.DB, "businesscategories")

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := collection.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch categories",
		})
	}
	defer cursor.Close(ctx)

	categories := []models.BusinessCategory{}
	if err := cursor.All(ctx, &categories); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode categories",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Categories fetched successfully",
		Data:    categories,
	})
}

// ToggleCategory flips a category's active flag
func (cc *CategoryController) ToggleCategory(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid category id",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(cc.DB, "businesscategories")

	var category models.BusinessCategory
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Category not found",
		})
	}

	update := bson.M{"$set": bson.M{
		"isActive":  !category.IsActive,
		"updatedAt": time.Now(),
	}}
	if _, err := collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update category",
		})
	}

	category.IsActive = !category.IsActive
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Category updated successfully",
		Data:    category,
	})
}

// EditCategory updates name and description; the slug follows the name
func (cc *CategoryController) EditCategory(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid category id",
		})
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(cc.DB, "businesscategories")

	set := bson.M{"updatedAt": time.Now()}

	if name := strings.TrimSpace(req.Name); name != "" {
		slug := models.Slugify(name)
		// Make sure the new name does not collide with another category
		count, err := collection.CountDocuments(ctx, bson.M{
			"slug": slug,
			"_id":  bson.M{"$ne": id},
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to check existing categories",
			})
		}
		if count > 0 {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Category with this name already exists",
			})
		}
		set["name"] = name
		set["slug"] = slug
	}
	if req.Description != "" {
		set["description"] = strings.TrimSpace(req.Description)
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}

	var updated models.BusinessCategory
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Category not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update category",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Category updated successfully",
		Data:    updated,
	})
}
