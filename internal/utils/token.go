package utils

import (
	"crypto/rand"     // Cryptographically secure random source
	"encoding/base64" // URL-safe encoding
)

// TokenBytes is the entropy of every issued token
const TokenBytes = 32

// GenerateToken returns a random URL-safe token with TokenBytes of entropy
func GenerateToken() (string, error) {
	b := make([]byte, TokenBytes) // Raw random bytes
	if _, err := rand.Read(b); err != nil {
		return "", err // Random source failure
	}
	return base64.RawURLEncoding.EncodeToString(b), nil // 43 characters, no padding
}
