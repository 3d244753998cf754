package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rajavruksha/ftii_backend/models"
)

func TestMemberNotificationFilter(t *testing.T) {
	memberID := primitive.NewObjectID()
	categoryID := primitive.NewObjectID()

	filter := MemberNotificationFilter(memberID, categoryID)

	assert.Equal(t, true, filter["isActive"])

	clauses, ok := filter["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, clauses, 3)

	assert.Equal(t, models.TargetAll, clauses[0]["targetType"])

	assert.Equal(t, models.TargetBusinessCategory, clauses[1]["targetType"])
	assert.Equal(t, categoryID, clauses[1]["businessCategories"])

	assert.Equal(t, models.TargetSelectedCompanies, clauses[2]["targetType"])
	assert.Equal(t, memberID, clauses[2]["targetUsers"])
}
