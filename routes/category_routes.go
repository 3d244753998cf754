package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rajavruksha/ftii_backend/controllers"
	"github.com/rajavruksha/ftii_backend/middleware"
)

// RegisterCategoryRoutes sets up business category routes
func RegisterCategoryRoutes(e *echo.Echo, db *mongo.Client) {
	categoryController := controllers.NewCategoryController(db)

	// Public listing for the registration form
	e.GET("/api/getCategories", categoryController.GetActiveCategories)

	admin := e.Group("/api/admin/category")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleSubadmin))

	admin.POST("/create", categoryController.CreateCategory)
	admin.GET("/fetch", categoryController.FetchCategories)
	admin.PUT("/toggle/:id", categoryController.ToggleCategory)
	admin.PUT("/edit/:id", categoryController.EditCategory)
}
