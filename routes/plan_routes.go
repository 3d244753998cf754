package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rajavruksha/ftii_backend/controllers"
	"github.com/rajavruksha/ftii_backend/middleware"
)

// RegisterPlanRoutes sets up membership plan routes
func RegisterPlanRoutes(e *echo.Echo, db *mongo.Client) {
	planController := controllers.NewPlanController(db)

	// Public listing for the registration page
	e.GET("/api/businessplans/active", planController.GetActivePlans)

	admin := e.Group("/api/admin/businessplans")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleSubadmin))

	admin.POST("/create", planController.CreatePlan)
	admin.GET("/fetch", planController.FetchPlans)
	admin.GET("/:id", planController.GetPlan)
	admin.PUT("/edit/:id", planController.EditPlan)
	admin.PUT("/toggle/:id", planController.TogglePlan)
}
