package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/rajavruksha/ftii_backend/config"
	"github.com/rajavruksha/ftii_backend/middleware"
	"github.com/rajavruksha/ftii_backend/repositories"
	"github.com/rajavruksha/ftii_backend/routes"
	"github.com/rajavruksha/ftii_backend/services"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis
	config.ConnectRedis()
	defer config.CloseRedis()

	// Connect to database
	client := config.ConnectDB()
	defer client.Disconnect(context.Background())

	// Shared services
	razorpayService, err := services.NewRazorpayService()
	if err != nil {
		log.Fatal("Razorpay configuration error: ", err)
	}

	sheetsService, err := services.NewSheetsService(context.Background())
	if err != nil {
		log.Printf("Warning: sheet export disabled: %v", err)
		sheetsService = nil
	}

	memberRepo := repositories.NewMemberRepository(client)
	referralPolicy := services.NewReferralPolicy(memberRepo)

	// Create a new Echo instance
	e := echo.New()

	e.Validator = &CustomValidator{validator: validator.New()}

	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeaders())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Routes
	routes.RegisterAuthRoutes(e, client)
	routes.RegisterCategoryRoutes(e, client)
	routes.RegisterPlanRoutes(e, client)
	routes.RegisterPaymentRoutes(e, client, razorpayService, referralPolicy, memberRepo)
	routes.RegisterNotificationRoutes(e, client)
	routes.RegisterUserRoutes(e, client, referralPolicy, memberRepo)
	routes.RegisterMemberRoutes(e, client, config.GetRedisClient(), memberRepo)
	routes.RegisterAdminRoutes(e, client, sheetsService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
