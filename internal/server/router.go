// Package server assembles the HTTP router from the application services.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"fintrack/internal/config"
	_ "fintrack/internal/docs" // registers the swagger document
	"fintrack/internal/handlers"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
	"fintrack/internal/validator"
)

// Deps are the collaborators the router needs.
type Deps struct {
	Config  *config.Config
	Tokens  *middleware.TokenManager
	Metrics *middleware.Metrics

	UserService        services.UserServicer
	AccountService     services.AccountServicer
	CategoryService    services.CategoryServicer
	TransactionService services.TransactionServicer
	AuditService       services.AuditServicer
}

// NewDeps wires the gorm-backed services for db.
func NewDeps(cfg *config.Config, db *gorm.DB) *Deps {
	return &Deps{
		Config:             cfg,
		Tokens:             middleware.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExpirationDur),
		Metrics:            middleware.NewMetrics(),
		UserService:        services.NewUserService(db),
		AccountService:     services.NewAccountService(db),
		CategoryService:    services.NewCategoryService(db),
		TransactionService: services.NewTransactionService(db),
		AuditService:       services.NewAuditService(db),
	}
}

// NewRouter builds the gin engine with every route of the API.
func NewRouter(deps *Deps) *gin.Engine {
	validator.Register()

	authHandler := handlers.NewAuthHandler(deps.UserService, deps.AuditService, deps.Tokens)
	accountHandler := handlers.NewAccountHandler(deps.AccountService, deps.AuditService)
	categoryHandler := handlers.NewCategoryHandler(deps.CategoryService, deps.AuditService)
	transactionHandler := handlers.NewTransactionHandler(deps.TransactionService, deps.AuditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(deps.Metrics.Middleware())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(deps.Config.CORSAllowedOrigin))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", middleware.APIKeyMiddleware(deps.Config.MetricsAPIKey), deps.Metrics.Handler())

	api := router.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))

	protected.GET("/profile", authHandler.GetProfile)

	accounts := protected.Group("/accounts")
	accounts.GET("", accountHandler.ListAccounts)
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.ListCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("/summary", transactionHandler.Summarize)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	return router
}
