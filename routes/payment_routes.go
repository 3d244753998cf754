package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rajavruksha/ftii_backend/controllers"
	"github.com/rajavruksha/ftii_backend/middleware"
	"github.com/rajavruksha/ftii_backend/repositories"
	"github.com/rajavruksha/ftii_backend/services"
)

// RegisterPaymentRoutes sets up order creation, the gateway webhook and
// the admin payment records
func RegisterPaymentRoutes(e *echo.Echo, db *mongo.Client, razorpay *services.RazorpayService, policy services.ReferralPolicy, members *repositories.MemberRepository) {
	paymentController := controllers.NewPaymentController(db, razorpay, policy, members)

	// Public registration flow
	e.POST("/api/payment/create-order", paymentController.CreateOrder)
	e.POST("/api/payment/razorpay-webhook", paymentController.RazorpayWebhook)

	admin := e.Group("/api/admin/payment")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleSubadmin))

	admin.GET("/get-payment-records", paymentController.FetchPaymentRecords)
	admin.GET("/view-payment/:id", paymentController.ViewPaymentRecord)
	admin.PATCH("/edit-payment/:paymentId", paymentController.EditPaymentRecord)
	admin.GET("/referral-details/:userId", paymentController.GetUserReferralDetails)
}
