package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Transaction dates

	"github.com/sb141/personal-finance-project/internal/domain"     // Importing domain models
	"github.com/sb141/personal-finance-project/internal/middleware" // Authenticated user lookup
	"github.com/sb141/personal-finance-project/internal/service"    // Transaction service

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Decimal amounts
)

const dateLayout = "2006-01-02" // Calendar day query format

// TransactionRequest is the body of create and update calls
type TransactionRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"required"`                  // Number or decimal string
	Type        string           `json:"type" binding:"required,oneof=credit debit"` // credit or debit
	Category    *string          `json:"category"`                                   // Optional category
	Description *string          `json:"description"`                                // Optional free text
	Date        *time.Time       `json:"date"`                                       // RFC 3339, defaults to now on create
}

func (r TransactionRequest) input() service.TransactionInput {
	return service.TransactionInput{
		Amount:      *r.Amount,
		Type:        r.Type,
		Category:    r.Category,
		Description: r.Description,
		Date:        r.Date,
	}
}

// TransactionResponse is the public view of a transaction
type TransactionResponse struct {
	ID          uint            `json:"id"`          // Transaction ID
	Amount      decimal.Decimal `json:"amount"`      // Amount as a decimal string
	Type        string          `json:"type"`        // credit or debit
	Category    *string         `json:"category"`    // Category or null
	Description *string         `json:"description"` // Description or null
	Date        time.Time       `json:"date"`        // UTC timestamp
}

func transactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		Amount:      tx.Amount,
		Type:        tx.Type,
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date.UTC(),
	}
}

// CreateTransactionHandler records a transaction for the authenticated user
func CreateTransactionHandler(txs *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c) // Get userID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req TransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			badRequest(c, "Invalid request")
			return
		}
		tx, err := txs.Create(c.Request.Context(), userID, req.input())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, transactionResponse(tx))
	}
}

// ListTransactionsHandler returns a page of the authenticated user's transactions
func ListTransactionsHandler(txs *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c) // Get userID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var f service.ListFilter
		var err error
		// Parse pagination parameters
		if f.Skip, err = intQuery(c, "skip"); err != nil {
			badRequest(c, "Invalid skip")
			return
		}
		if f.Limit, err = intQuery(c, "limit"); err != nil {
			badRequest(c, "Invalid limit")
			return
		}
		// Parse date filters
		if f.Year, err = optionalIntQuery(c, "year"); err != nil {
			badRequest(c, "Invalid year")
			return
		}
		if f.Month, err = optionalIntQuery(c, "month"); err != nil {
			badRequest(c, "Invalid month")
			return
		}
		if d := c.Query("date"); d != "" {
			day, err := time.Parse(dateLayout, d)
			if err != nil {
				badRequest(c, "Invalid date, expected YYYY-MM-DD")
				return
			}
			f.Date = &day
		}

		rows, err := txs.List(c.Request.Context(), userID, f)
		if err != nil {
			respondError(c, err)
			return
		}
		out := make([]TransactionResponse, 0, len(rows)) // Empty list, never null
		for i := range rows {
			out = append(out, transactionResponse(&rows[i]))
		}
		c.JSON(http.StatusOK, out)
	}
}

// UpdateTransactionHandler replaces the fields of one of the user's transactions
func UpdateTransactionHandler(txs *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c) // Get userID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id, err := idParam(c)
		if err != nil {
			badRequest(c, "Invalid transaction id")
			return
		}
		var req TransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			badRequest(c, "Invalid request")
			return
		}
		tx, err := txs.Update(c.Request.Context(), userID, id, req.input())
		if err != nil {
			respondError(c, err) // Not found for missing or foreign transactions
			return
		}
		c.JSON(http.StatusOK, transactionResponse(tx))
	}
}

// DeleteTransactionHandler removes one of the user's transactions
func DeleteTransactionHandler(txs *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c) // Get userID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id, err := idParam(c)
		if err != nil {
			badRequest(c, "Invalid transaction id")
			return
		}
		deleted, err := txs.Delete(c.Request.Context(), userID, id)
		if err != nil {
			respondError(c, err) // Not found for missing or foreign transactions
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully", "id": deleted})
	}
}

func idParam(c *gin.Context) (uint, error) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(v), err
}

// intQuery parses an optional integer query parameter, zero when absent
func intQuery(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

// optionalIntQuery parses an optional integer query parameter, nil when absent
func optionalIntQuery(c *gin.Context, key string) (*int, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
