package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rajavruksha/ftii_backend/controllers"
	"github.com/rajavruksha/ftii_backend/middleware"
	"github.com/rajavruksha/ftii_backend/repositories"
)

// RegisterMemberRoutes sets up the member panel routes
func RegisterMemberRoutes(e *echo.Echo, db *mongo.Client, rdb *redis.Client, members *repositories.MemberRepository) {
	memberAuthController := controllers.NewMemberAuthController(db, rdb, members)

	auth := e.Group("/api/member/auth")
	auth.POST("/login", memberAuthController.Login)
	auth.POST("/forgot-password", memberAuthController.ForgotPassword)
	auth.POST("/reset-password", memberAuthController.ResetPassword)

	member := e.Group("/api/member")
	member.Use(middleware.JWTMiddleware())
	member.Use(middleware.RequireRole(middleware.RoleMember))

	member.GET("/profile", memberAuthController.Profile)
	member.GET("/certificate", memberAuthController.Certificate)
	member.GET("/certificate/qr", memberAuthController.CertificateQR)
}
