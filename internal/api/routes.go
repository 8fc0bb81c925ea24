package api

import (
	"net/http" // HTTP status codes

	"github.com/sb141/personal-finance-project/internal/middleware" // Bearer authentication
	"github.com/sb141/personal-finance-project/internal/service"    // Services behind the handlers

	"github.com/gin-gonic/gin" // Gin web framework
)

// RegisterRoutes mounts every endpoint on r
func RegisterRoutes(r *gin.Engine, auth *service.AuthService, txs *service.TransactionService) {
	// Health check
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Personal Finance API is running"})
	})

	// Auth routes
	authGroup := r.Group("/auth")
	authGroup.POST("/register", RegisterHandler(auth))              // Registration endpoint
	authGroup.POST("/login", LoginHandler(auth))                    // Login endpoint
	authGroup.POST("/forgot-password", ForgotPasswordHandler(auth)) // Reset request endpoint
	authGroup.POST("/reset-password", ResetPasswordHandler(auth))   // Reset completion endpoint

	bearer := middleware.BearerAuthMiddleware(auth) // Protect routes with bearer tokens

	// Transaction routes
	txGroup := r.Group("/transactions", bearer)
	txGroup.POST("", CreateTransactionHandler(txs))       // Create transaction endpoint
	txGroup.GET("", ListTransactionsHandler(txs))         // List transactions endpoint
	txGroup.PUT("/:id", UpdateTransactionHandler(txs))    // Update transaction endpoint
	txGroup.DELETE("/:id", DeleteTransactionHandler(txs)) // Delete transaction endpoint

	// Report routes
	reportGroup := r.Group("/reports", bearer)
	reportGroup.GET("/weekly", WeeklyReportHandler(txs))   // Weekly report endpoint
	reportGroup.GET("/monthly", MonthlyReportHandler(txs)) // Monthly report endpoint
}
