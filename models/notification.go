// models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationTypeInfo         = "INFO"
	NotificationTypeWish         = "WISH"
	NotificationTypeAlert        = "ALERT"
	NotificationTypeAnnouncement = "ANNOUNCEMENT"
)

// Target types. The matching array is populated only for its own target
// type; the other stays empty.
const (
	TargetAll               = "ALL"
	TargetBusinessCategory  = "BUSINESS_CATEGORY"
	TargetSelectedCompanies = "SELECTED_COMPANIES"
)

// Notification is a broadcast message. Delivery is computed at read
// time by matching the target fields against each member; there is no
// per-member fan-out write.
type Notification struct {
	ID                 primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	Title              string               `json:"title" bson:"title"`
	Message            string               `json:"message" bson:"message"`
	Type               string               `json:"type" bson:"type"`
	TargetType         string               `json:"targetType" bson:"targetType"`
	BusinessCategories []primitive.ObjectID `json:"businessCategories" bson:"businessCategories"`
	TargetUsers        []primitive.ObjectID `json:"targetUsers" bson:"targetUsers"`
	URL                string               `json:"url,omitempty" bson:"url,omitempty"`
	IsActive           bool                 `json:"isActive" bson:"isActive"`
	SentAt             time.Time            `json:"sentAt" bson:"sentAt"`
	CreatedBy          string               `json:"createdBy" bson:"createdBy"`
	CreatedAt          time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// PostNotificationRequest creates a targeted notification
type PostNotificationRequest struct {
	Title              string   `json:"title" validate:"required"`
	Message            string   `json:"message" validate:"required"`
	Type               string   `json:"type"`
	TargetType         string   `json:"targetType" validate:"required"`
	BusinessCategories []string `json:"businessCategories"`
	TargetUsers        []string `json:"targetUsers"`
	URL                string   `json:"url"`
}
