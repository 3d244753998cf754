package repositories

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rajavruksha/ftii_backend/models"
	"github.com/rajavruksha/ftii_backend/utils"
)

type MemberRepository struct {
	collection *mongo.Collection
}

func NewMemberRepository(db *mongo.Client) *MemberRepository {
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "ftii"
	}
	return &MemberRepository{
		collection: db.Database(dbName).Collection("users"),
	}
}

// FindByEmailOrMobile is the duplicate check run before a registration
// order or manual member creation
func (r *MemberRepository) FindByEmailOrMobile(ctx context.Context, email, mobile string) (*models.Member, error) {
	filter := bson.M{"$or": []bson.M{
		{"email": utils.SanitizeEmail(email)},
		{"mobileNumber": mobile},
	}}

	var member models.Member
	err := r.collection.FindOne(ctx, filter).Decode(&member)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByPublicID looks a member up by the 6-digit public id
func (r *MemberRepository) FindByPublicID(ctx context.Context, userID string) (*models.Member, error) {
	var member models.Member
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&member)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByIdentifier resolves a login identifier, either an email or a
// 6-digit member id
func (r *MemberRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.Member, error) {
	if utils.IsValidMemberID(identifier) {
		return r.FindByPublicID(ctx, identifier)
	}

	var member models.Member
	err := r.collection.FindOne(ctx, bson.M{"email": utils.SanitizeEmail(identifier)}).Decode(&member)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// CountReferrals counts members brought in by the given public id
func (r *MemberRepository) CountReferrals(ctx context.Context, userID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"referral.referredByUserId": userID})
}

// RecordLogin stamps the member's last successful login
func (r *MemberRepository) RecordLogin(ctx context.Context, userID string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"lastLoginAt": time.Now()}})
	return err
}
