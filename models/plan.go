// models/plan.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanBenefit is one line item on a membership plan
type PlanBenefit struct {
	Title string `json:"title" bson:"title"`
}

// MembershipPlan is a named membership tier. Names are stored
// upper-cased and are unique.
type MembershipPlan struct {
	ID             primitive.ObjectID  `json:"_id,omitempty" bson:"_id,omitempty"`
	Name           string              `json:"name" bson:"name"`
	Amount         float64             `json:"amount" bson:"amount"`
	DurationInDays *int                `json:"durationInDays" bson:"durationInDays"`
	Benefits       []PlanBenefit       `json:"benefits" bson:"benefits"`
	Description    string              `json:"description,omitempty" bson:"description,omitempty"`
	IsActive       bool                `json:"isActive" bson:"isActive"`
	CreatedBy      *primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt      time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// CreatePlanRequest creates a new membership plan
type CreatePlanRequest struct {
	Name         string        `json:"name" validate:"required"`
	Amount       *float64      `json:"amount" validate:"required"`
	DurationDays *int          `json:"durationDays"`
	Benefits     []PlanBenefit `json:"benefits"`
	Description  string        `json:"description"`
	IsActive     *bool         `json:"isActive"`
}

// EditPlanRequest applies a partial update to a plan
type EditPlanRequest struct {
	Name         *string       `json:"name"`
	Amount       *float64      `json:"amount"`
	DurationDays *int          `json:"durationDays"`
	Benefits     []PlanBenefit `json:"benefits"`
	Description  *string       `json:"description"`
	IsActive     *bool         `json:"isActive"`
}
