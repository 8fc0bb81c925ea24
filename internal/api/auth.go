package api

import (
	"net/http" // HTTP status codes

	"github.com/sb141/personal-finance-project/internal/service" // Auth service

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for registration and login
type CredentialsRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Request struct for starting a password reset
type ForgotPasswordRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
}

// Request struct for completing a password reset
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`        // Reset token from the out-of-band message
	NewPassword string `json:"new_password" binding:"required"` // Replacement password
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID       uint   `json:"id"`       // User ID
	Username string `json:"username"` // Username
}

// Response struct for authentication
type AuthResponse struct {
	Token string       `json:"token"` // Bearer token
	User  UserResponse `json:"user"`  // Authenticated user
}

// Acknowledgement returned whether or not the username exists
const forgotPasswordMessage = "If the account exists, password reset instructions have been sent"

func authResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{Token: res.Token, User: UserResponse{ID: res.UserID, Username: res.Username}}
}

// RegisterHandler creates a user and returns its first bearer token
func RegisterHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CredentialsRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			badRequest(c, "Invalid request")
			return
		}
		res, err := auth.Register(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondError(c, err) // Conflict on a taken username
			return
		}
		c.JSON(http.StatusOK, authResponse(res))
	}
}

// LoginHandler authenticates a user and returns a fresh bearer token
func LoginHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CredentialsRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			badRequest(c, "Invalid request")
			return
		}
		res, err := auth.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondError(c, err) // Unauthorized on bad credentials
			return
		}
		c.JSON(http.StatusOK, authResponse(res))
	}
}

// ForgotPasswordHandler issues a reset token and delivers it out of band
func ForgotPasswordHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ForgotPasswordRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			badRequest(c, "Invalid request")
			return
		}
		if err := auth.ForgotPassword(c.Request.Context(), req.Username); err != nil {
			respondError(c, err)
			return
		}
		// Same response for known and unknown usernames
		c.JSON(http.StatusOK, gin.H{"message": forgotPasswordMessage})
	}
}

// ResetPasswordHandler sets a new password using a reset token
func ResetPasswordHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetPasswordRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			badRequest(c, "Invalid request")
			return
		}
		if err := auth.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
			respondError(c, err) // Bad request on unknown or expired token
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully"})
	}
}
