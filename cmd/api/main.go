package main

import (
	"log"
	"os"

	_ "github.com/mageuzialbert/skymap-courier/api/swagger" // swagger docs
	"github.com/mageuzialbert/skymap-courier/internal/database"
	"github.com/mageuzialbert/skymap-courier/internal/handler"
	"github.com/mageuzialbert/skymap-courier/internal/middleware"
	"github.com/mageuzialbert/skymap-courier/internal/repository"
	"github.com/mageuzialbert/skymap-courier/internal/service"
	"github.com/mageuzialbert/skymap-courier/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Skymap Courier API
// @version         1.0
// @description     Delivery management backend for businesses, riders and operations staff.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	middleware.InitPermissionMiddleware(db)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db)
	permRepo := repository.NewPermissionRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	packageRepo := repository.NewFeePackageRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	chargeRepo := repository.NewChargeRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	categoryRepo := repository.NewExpenseCategoryRepository(db)
	cmsRepo := repository.NewCMSRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	feeResolver := service.NewFeeResolver(businessRepo, packageRepo)
	userService := service.NewUserService(db, userRepo, permRepo, auditRepo)
	permService := service.NewPermissionService(userRepo, permRepo, auditRepo)
	deliveryService := service.NewDeliveryService(db, deliveryRepo, userRepo, chargeRepo, feeResolver, auditRepo, wsHub)
	businessService := service.NewBusinessService(businessRepo, packageRepo)
	packageService := service.NewFeePackageService(packageRepo)
	chargeService := service.NewChargeService(chargeRepo, businessRepo, deliveryRepo, auditRepo)
	invoiceService := service.NewInvoiceService(db, invoiceRepo, chargeRepo, deliveryRepo, businessRepo, auditRepo)
	statisticsService := service.NewStatisticsService(db, deliveryRepo)
	expenseService := service.NewExpenseService(expenseRepo, categoryRepo)
	cmsService := service.NewCMSService(cmsRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService, permService)
	permHandler := handler.NewPermissionHandler(permService)
	deliveryHandler := handler.NewDeliveryHandler(deliveryService)
	publicHandler := handler.NewPublicHandler(deliveryService, cmsService, settingsService)
	businessHandler := handler.NewBusinessHandler(businessService)
	packageHandler := handler.NewFeePackageHandler(packageService)
	chargeHandler := handler.NewChargeHandler(chargeService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	cmsHandler := handler.NewCMSHandler(cmsService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	api := router.Group("/api/v1")
	userHandler.RegisterRoutes(api)
	permHandler.RegisterRoutes(api)
	deliveryHandler.RegisterRoutes(api)
	publicHandler.RegisterRoutes(api)
	businessHandler.RegisterRoutes(api)
	packageHandler.RegisterRoutes(api)
	chargeHandler.RegisterRoutes(api)
	invoiceHandler.RegisterRoutes(api)
	statisticsHandler.RegisterRoutes(api)
	expenseHandler.RegisterRoutes(api)
	cmsHandler.RegisterRoutes(api)
	settingsHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
