package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rajavruksha/ftii_backend/controllers"
	"github.com/rajavruksha/ftii_backend/middleware"
	"github.com/rajavruksha/ftii_backend/repositories"
	"github.com/rajavruksha/ftii_backend/services"
)

// RegisterUserRoutes sets up the admin member management routes
func RegisterUserRoutes(e *echo.Echo, db *mongo.Client, policy services.ReferralPolicy, members *repositories.MemberRepository) {
	memberController := controllers.NewMemberController(db, policy, members)

	// The registration form resolves referrer ids without auth
	e.GET("/api/users/referral/:userId", memberController.FetchReferrerByUserId)

	users := e.Group("/api/users")
	users.Use(middleware.JWTMiddleware())
	users.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleSubadmin))

	users.POST("/create-user", memberController.CreateUser)
	users.GET("/fetch-user-details", memberController.FetchAllUsers)
	users.GET("/filters", memberController.FetchUserFilters)
	users.GET("/:id", memberController.FetchUserById)
	users.PUT("/:id", memberController.EditUsersDetails)
}
