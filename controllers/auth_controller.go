// controllers/auth_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/rajavruksha/ftii_backend/config"
	"github.com/rajavruksha/ftii_backend/middleware"
	"github.com/rajavruksha/ftii_backend/models"
	"github.com/rajavruksha/ftii_backend/utils"
)

type AuthController struct {
	DB *mongo.Client
}

func NewAuthController(db *mongo.Client) *AuthController {
	return &AuthController{DB: db}
}

// Login authenticates an admin with email and password
func (ac *AuthController) Login(c echo.Context) error {
	var req models.AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ac.DB, "admins")

	var admin models.Admin
	err := collection.FindOne(ctx, bson.M{
		"email": utils.SanitizeEmail(req.Email),
	}).Decode(&admin)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}

	if !admin.IsActive {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Account is disabled",
		})
	}

	token, err := middleware.GenerateJWT(admin.ID.Hex(), admin.Email, admin.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token": token,
			"admin": map[string]interface{}{
				"id":    admin.ID.Hex(),
				"email": admin.Email,
				"role":  admin.Role,
			},
		},
	})
}

// Logout acknowledges the logout; the short-lived token simply expires
func (ac *AuthController) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out successfully",
	})
}
