package main

import (
	"fmt"
	"net/http"
	"os"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
	"fintrack/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "fintrack/internal/docs" // Import swagger docs
)

// @title           Fintrack API
// @version         1.0
// @description     Fintrack is a personal finance tracker: record income and expense transactions, organize them into categories, set budgets, and view aggregate reports.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, categoryService)
	reportService := services.NewReportService(db)
	budgetService := services.NewBudgetService(db, categoryService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	reportHandler := handlers.NewReportHandler(reportService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/profile", authHandler.GetProfile)

		protected.GET("/categories", categoryHandler.ListCategories)

		protected.POST("/transactions", transactionHandler.CreateTransaction)
		protected.GET("/transactions", transactionHandler.ListTransactions)
		protected.GET("/transactions/:id", transactionHandler.GetTransaction)
		protected.PUT("/transactions/:id", transactionHandler.UpdateTransaction)
		protected.DELETE("/transactions/:id", transactionHandler.DeleteTransaction)

		protected.GET("/reports/summary", reportHandler.GetSummary)
		protected.GET("/reports/category-spending", reportHandler.GetCategorySpending)

		protected.POST("/budgets", budgetHandler.CreateBudget)
		protected.GET("/budgets", budgetHandler.ListBudgets)
		protected.GET("/budgets/:id", budgetHandler.GetBudget)
		protected.PUT("/budgets/:id", budgetHandler.UpdateBudget)
		protected.DELETE("/budgets/:id", budgetHandler.DeleteBudget)
		protected.GET("/budgets/:id/progress", budgetHandler.GetBudgetProgress)
	}

	// Start server
	log.Infof("Starting server on port %s", appConfig.Port)
	if err := router.Run(":" + appConfig.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
