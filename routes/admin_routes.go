package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rajavruksha/ftii_backend/controllers"
	"github.com/rajavruksha/ftii_backend/middleware"
	"github.com/rajavruksha/ftii_backend/services"
)

// RegisterAdminRoutes sets up the dashboard and sheet export routes
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Client, sheets *services.SheetsService) {
	dashboardController := controllers.NewDashboardController(db)
	sheetController := controllers.NewSheetController(db, sheets)

	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleSubadmin))

	admin.GET("/dashboard/view-details", dashboardController.ViewDetails)
	admin.POST("/sheet/upload-data-sheet", sheetController.UploadDataSheet)
}
