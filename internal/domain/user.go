package domain

import "time"

// User Model
type User struct {
	ID               uint       `gorm:"primaryKey"`                    // Primary key
	Username         string     `gorm:"size:150;uniqueIndex;not null"` // Unique, case-sensitive username
	PasswordHash     string     `gorm:"not null"`                      // bcrypt hash, never the plaintext
	APIToken         *string    `gorm:"size:64;uniqueIndex"`           // Current bearer token, nil before first issue
	ResetToken       *string    `gorm:"size:64;uniqueIndex"`           // Pending password reset token
	ResetTokenExpiry *time.Time // Set together with ResetToken
	CreatedAt        time.Time  // Registration time
}

// HasPendingReset reports whether a reset token is stored for the user
func (u *User) HasPendingReset() bool {
	return u.ResetToken != nil && u.ResetTokenExpiry != nil
}
