package api

import (
	"net/http" // HTTP status codes

	"github.com/sb141/personal-finance-project/internal/middleware" // Authenticated user lookup
	"github.com/sb141/personal-finance-project/internal/service"    // Transaction service

	"github.com/gin-gonic/gin" // Gin web framework
)

// WeeklyReportHandler returns daily credit and debit totals for the last seven days
func WeeklyReportHandler(txs *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c) // Get userID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		report, err := txs.WeeklyReport(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// MonthlyReportHandler returns daily totals for ?year=&month=, or the current month
func MonthlyReportHandler(txs *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c) // Get userID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		year, err := optionalIntQuery(c, "year")
		if err != nil {
			badRequest(c, "Invalid year")
			return
		}
		month, err := optionalIntQuery(c, "month")
		if err != nil {
			badRequest(c, "Invalid month")
			return
		}
		report, err := txs.MonthlyReport(c.Request.Context(), userID, year, month)
		if err != nil {
			respondError(c, err) // Bad request for a month outside 1..12
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
