// cmd/seed creates or updates the bootstrap admin account from
// SEED_ADMIN_EMAIL, SEED_ADMIN_PASSWORD and SEED_ADMIN_ROLE.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/rajavruksha/ftii_backend/config"
	"github.com/rajavruksha/ftii_backend/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	email := utils.SanitizeEmail(os.Getenv("SEED_ADMIN_EMAIL"))
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	role := os.Getenv("SEED_ADMIN_ROLE")
	if role == "" {
		role = "admin"
	}

	if email == "" || password == "" {
		log.Fatal("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD environment variables are required")
	}
	if role != "admin" && role != "subadmin" {
		log.Fatal("SEED_ADMIN_ROLE must be admin or subadmin")
	}

	client := config.ConnectDB()
	defer client.Disconnect(context.Background())

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password: ", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	_, err = config.GetCollection(client, "admins").UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$set": bson.M{
				"password":  string(hash),
				"role":      role,
				"isActive":  true,
				"updatedAt": now,
			},
			"$setOnInsert": bson.M{
				"email":     email,
				"createdAt": now,
			},
		},
		options.Update().SetUpsert(true))
	if err != nil {
		log.Fatal("Failed to seed admin: ", err)
	}

	log.Printf("Admin %s (%s) is ready", email, role)
}
