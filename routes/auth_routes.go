package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rajavruksha/ftii_backend/controllers"
	"github.com/rajavruksha/ftii_backend/middleware"
)

// RegisterAuthRoutes sets up admin authentication routes
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client) {
	authController := controllers.NewAuthController(db)

	admin := e.Group("/api/admin")
	admin.POST("/login", authController.Login)

	protected := e.Group("/api/admin")
	protected.Use(middleware.JWTMiddleware())
	protected.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleSubadmin))
	protected.POST("/logout", authController.Logout)
}
