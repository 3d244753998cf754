// controllers/notification_controller.go
package controllers

import (
	"context"
	"net/http"
	"strconv"
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

type NotificationController struct {
	DB *mongo.Client
}

func NewNotificationController(db *mongo.Client) *NotificationController {
	return &NotificationController{DB: db}
}

// PostNotification creates a targeted broadcast
func (nc *NotificationController) PostNotification(c echo.Context) error {
	var req models.PostNotificationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Title, message and target type are required",
		})
	}

	notifType := req.Type
	if notifType == "" {
		notifType = models.NotificationTypeInfo
	}
	switch notifType {
	case models.NotificationTypeInfo, models.NotificationTypeWish,
		models.NotificationTypeAlert, models.NotificationTypeAnnouncement:
	default:
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid notification type",
		})
	}

	categories := []primitive.ObjectID{}
	targets := []primitive.ObjectID{}

	switch req.TargetType {
	case models.TargetAll:
	case models.TargetBusinessCategory:
		if len(req.BusinessCategories) == 0 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "At least one business category is required",
			})
		}
		for _, raw := range req.BusinessCategories {
			id, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				return c.JSON(http.StatusBadRequest, models.Response{
					Status:  http.StatusBadRequest,
					Message: "Invalid business category id",
				})
			}
			categories = append(categories, id)
		}
	case models.TargetSelectedCompanies:
		if len(req.TargetUsers) == 0 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "At least one target member is required",
			})
		}
		for _, raw := range req.TargetUsers {
			id, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				return c.JSON(http.StatusBadRequest, models.Response{
					Status:  http.StatusBadRequest,
					Message: "Invalid target member id",
				})
			}
			targets = append(targets, id)
		}
	default:
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid target type",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Targets must exist before the broadcast is stored
	if len(categories) > 0 {
		count, err := config.GetCollection(nc.DB, "businesscategories").CountDocuments(ctx,
			bson.M{"_id": bson.M{"$in": categories}})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to check business categories",
			})
		}
		if count != int64(len(categories)) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "One or more business categories do not exist",
			})
		}
	}
	if len(targets) > 0 {
		count, err := config.GetCollection(nc.DB, "users").CountDocuments(ctx,
			bson.M{"_id": bson.M{"$in": targets}, "isActive": true})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to check target members",
			})
		}
		if count != int64(len(targets)) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "One or more target members do not exist or are inactive",
			})
		}
	}

	createdBy := ""
	if id, err := middleware.ExtractUserID(c); err == nil {
		createdBy = id
	}

	now := time.Now()
	notification := models.Notification{
		ID:                 primitive.NewObjectID(),
		Title:              req.Title,
		Message:            req.Message,
		Type:               notifType,
		TargetType:         req.TargetType,
		BusinessCategories: categories,
		TargetUsers:        targets,
		URL:                req.URL,
		IsActive:           true,
		SentAt:             now,
		CreatedBy:          createdBy,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if _, err := config.GetCollection(nc.DB, "notifications").InsertOne(ctx, notification); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create notification",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Notification created successfully",
		Data:    notification,
	})
}

// FetchNotifications lists all notifications for the admin panel
func (nc *NotificationController) FetchNotifications(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(nc.DB, "notifications")

	totalCount, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to count notifications",
		})
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "sentAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch notifications",
		})
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode notifications",
		})
	}

	// Resolve target ids to display names for the admin listing
	categoryIDs := []primitive.ObjectID{}
	memberIDs := []primitive.ObjectID{}
	for _, n := range notifications {
		categoryIDs = append(categoryIDs, n.BusinessCategories...)
		memberIDs = append(memberIDs, n.TargetUsers...)
	}
	categoryNames, err := nc.namesByID(ctx, "businesscategories", "name", categoryIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to resolve notification targets",
		})
	}
	companyNames, err := nc.namesByID(ctx, "users", "companyName", memberIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to resolve notification targets",
		})
	}

	type notificationRow struct {
		models.Notification `bson:",inline"`
		CategoryNames       []string `json:"businessCategoryNames,omitempty"`
		CompanyNames        []string `json:"targetCompanyNames,omitempty"`
	}
	rows := make([]notificationRow, len(notifications))
	for i, n := range notifications {
		row := notificationRow{Notification: n}
		for _, id := range n.BusinessCategories {
			if name, ok := categoryNames[id]; ok {
				row.CategoryNames = append(row.CategoryNames, name)
			}
		}
		for _, id := range n.TargetUsers {
			if name, ok := companyNames[id]; ok {
				row.CompanyNames = append(row.CompanyNames, name)
			}
		}
		rows[i] = row
	}

	totalPages := totalCount / int64(limit)
	if totalCount%int64(limit) != 0 {
		totalPages++
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notifications fetched successfully",
		Data: map[string]interface{}{
			"notifications": rows,
			"pagination": models.Pagination{
				CurrentPage: page,
				TotalPages:  totalPages,
				TotalCount:  totalCount,
				Limit:       limit,
			},
		},
	})
}

// namesByID resolves documents to one display field in a single query
func (nc *NotificationController) namesByID(ctx context.Context, collection, field string, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	names := map[primitive.ObjectID]string{}
	if len(ids) == 0 {
		return names, nil
	}

	cursor, err := config.GetCollection(nc.DB, collection).Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{field: 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		id, _ := doc["_id"].(primitive.ObjectID)
		name, _ := doc[field].(string)
		names[id] = name
	}
	return names, cursor.Err()
}

// GetCompanyOptions lists active members for the selected-companies
// target picker, optionally narrowed to one category
func (nc *NotificationController) GetCompanyOptions(c echo.Context) error {
	filter := bson.M{"isActive": true}
	if category := c.QueryParam("businessCategory"); category != "" {
		id, err := primitive.ObjectIDFromHex(category)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid business category id",
			})
		}
		filter["businessCategory"] = id
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(nc.DB, "users").Find(ctx, filter,
		options.Find().
			SetSort(bson.D{{Key: "companyName", Value: 1}}).
			SetProjection(bson.M{"userId": 1, "companyName": 1, "businessCategory": 1}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch companies",
		})
	}
	defer cursor.Close(ctx)

	companies := []models.Member{}
	if err := cursor.All(ctx, &companies); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode companies",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Companies fetched successfully",
		Data:    companies,
	})
}

// ToggleNotification flips a notification's active flag
func (nc *NotificationController) ToggleNotification(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid notification id",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(nc.DB, "notifications")

	var notification models.Notification
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&notification); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Notification not found",
		})
	}

	update := bson.M{"$set": bson.M{
		"isActive":  !notification.IsActive,
		"updatedAt": time.Now(),
	}}
	if _, err := collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update notification",
		})
	}

	notification.IsActive = !notification.IsActive
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notification updated successfully",
		Data:    notification,
	})
}

// DeleteNotification removes a notification permanently
func (nc *NotificationController) DeleteNotification(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid notification id",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(nc.DB, "notifications").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete notification",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Notification not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notification deleted successfully",
	})
}

// MemberNotificationFilter builds the inbox query for one member: all
// active broadcasts aimed at everyone, their category or them directly
func MemberNotificationFilter(memberID, categoryID primitive.ObjectID) bson.M {
	return bson.M{
		"isActive": true,
		"$or": []bson.M{
			{"targetType": models.TargetAll},
			{"targetType": models.TargetBusinessCategory, "businessCategories": categoryID},
			{"targetType": models.TargetSelectedCompanies, "targetUsers": memberID},
		},
	}
}

// GetMemberNotifications is the member panel inbox
func (nc *NotificationController) GetMemberNotifications(c echo.Context) error {
	memberHex, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}
	memberID, err := primitive.ObjectIDFromHex(memberHex)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var member models.Member
	err = config.GetCollection(nc.DB, "users").FindOne(ctx, bson.M{"_id": memberID}).Decode(&member)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Member not found",
		})
	}

	filter := MemberNotificationFilter(member.ID, member.BusinessCategory)
	opts := options.Find().SetSort(bson.D{{Key: "sentAt", Value: -1}}).SetLimit(100)

	cursor, err := config.GetCollection(nc.DB, "notifications").Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch notifications",
		})
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode notifications",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notifications fetched successfully",
		Data:    notifications,
	})
}
