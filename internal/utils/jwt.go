package utils

import (
	"errors" // Error values
	"time"   // Expiry handling

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// ErrInvalidEnvelope is returned when a reset envelope fails verification
var ErrInvalidEnvelope = errors.New("invalid reset envelope")

// ResetClaims is the signed payload handed to the reset delivery worker
type ResetClaims struct {
	UserID               uint   `json:"user_id"`     // Recipient user ID
	Username             string `json:"username"`    // Recipient username
	ResetToken           string `json:"reset_token"` // Token the user must present to reset
	jwt.RegisteredClaims        // Standard JWT claims
}

// SignResetEnvelope creates a signed envelope that expires together with the reset token
func SignResetEnvelope(userID uint, username, resetToken string, expiresAt time.Time, secret string) (string, error) {
	// Set envelope claims
	claims := ResetClaims{
		UserID:     userID,     // Recipient user ID
		Username:   username,   // Recipient username
		ResetToken: resetToken, // Reset token to deliver
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "password-reset",               // Envelope purpose
			ExpiresAt: jwt.NewNumericDate(expiresAt),  // Same lifetime as the token itself
			IssuedAt:  jwt.NewNumericDate(time.Now()), // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseResetEnvelope verifies an envelope and returns its claims
func ParseResetEnvelope(envelope, secret string) (*ResetClaims, error) {
	token, err := jwt.ParseWithClaims(envelope, &ResetClaims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*ResetClaims); ok && token.Valid && claims.Subject == "password-reset" {
		return claims, nil // Return claims if valid
	}
	// Return error if envelope is invalid
	return nil, ErrInvalidEnvelope
}
