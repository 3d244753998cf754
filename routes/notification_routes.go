package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rajavruksha/ftii_backend/controllers"
	"github.com/rajavruksha/ftii_backend/middleware"
)

// RegisterNotificationRoutes sets up notification broadcast routes
func RegisterNotificationRoutes(e *echo.Echo, db *mongo.Client) {
	notificationController := controllers.NewNotificationController(db)

	admin := e.Group("/api/admin/notification")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleSubadmin))

	admin.POST("/create", notificationController.PostNotification)
	admin.GET("/fetch", notificationController.FetchNotifications)
	admin.GET("/companies", notificationController.GetCompanyOptions)
	admin.PUT("/toggle/:id", notificationController.ToggleNotification)
	admin.DELETE("/delete/:id", notificationController.DeleteNotification)

	member := e.Group("/api/member")
	member.Use(middleware.JWTMiddleware())
	member.Use(middleware.RequireRole(middleware.RoleMember))
	member.GET("/notifications", notificationController.GetMemberNotifications)
}
