package api

import (
	"errors"   // Error kind matching
	"net/http" // HTTP status codes

	"github.com/sb141/personal-finance-project/internal/service" // Service error kinds

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Maps service error kinds to HTTP status codes
var errorStatus = []struct {
	kind   error
	status int
}{
	{service.ErrConflict, http.StatusConflict},
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrBadRequest, http.StatusBadRequest},
}

// respondError writes the error as {"error": message} with the matching status code
func respondError(c *gin.Context, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.kind) {
			c.JSON(e.status, gin.H{"error": err.Error()}) // Client-facing message
			return
		}
	}
	// Anything else is an internal failure, log it and hide the details
	logrus.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
		"error":  err,
	}).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// badRequest writes a 400 with the given message
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
