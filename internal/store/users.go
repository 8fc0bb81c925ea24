package store

import (
	"context" // Request scoped sessions
	"fmt"     // Error wrapping
	"time"    // Reset token expiry

	"github.com/sb141/personal-finance-project/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Users is the gorm-backed CredentialStore
type Users struct {
	db *gorm.DB
}

// NewUsers creates a credential store on db
func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// CreateUser inserts user unless the username is already taken
func (s *Users) CreateUser(ctx context.Context, user *domain.User) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64 // Users already holding the name
		if err := tx.Model(&domain.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return err // Return error to rollback
		}
		if count > 0 {
			return ErrDuplicate
		}
		return tx.Create(user).Error // A racing insert still fails on the unique index
	})
	if err = translate(err); err != nil && err != ErrDuplicate {
		return fmt.Errorf("create user: %w", err)
	}
	return err
}

// UserByUsername looks a user up by exact username
func (s *Users) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.first(ctx, "username = ?", username)
}

// UserByAPIToken looks a user up by bearer token
func (s *Users) UserByAPIToken(ctx context.Context, token string) (*domain.User, error) {
	return s.first(ctx, "api_token = ?", token)
}

// UserByResetToken looks a user up by pending reset token
func (s *Users) UserByResetToken(ctx context.Context, token string) (*domain.User, error) {
	return s.first(ctx, "reset_token = ?", token)
}

// SetAPIToken overwrites the user's bearer token, the previous one stops working
func (s *Users) SetAPIToken(ctx context.Context, userID uint, token string) error {
	_, err := s.update(ctx, userID, map[string]any{"api_token": token})
	return err
}

// SetResetToken stores a reset token with its expiry, replacing any pending one
func (s *Users) SetResetToken(ctx context.Context, userID uint, token string, expiry time.Time) error {
	_, err := s.update(ctx, userID, map[string]any{
		"reset_token":        token,        // New pending token
		"reset_token_expiry": expiry.UTC(), // Written together with the token
	})
	return err
}

// ResetPassword stores the new hash and clears the reset token and bearer token in one write.
// It returns ErrNotFound when resetToken is no longer the user's pending token.
func (s *Users) ResetPassword(ctx context.Context, userID uint, resetToken, passwordHash string) error {
	n, err := s.update(ctx, userID, map[string]any{
		"password_hash":      passwordHash, // Replacement hash
		"reset_token":        nil,          // Token is single use
		"reset_token_expiry": nil,          // Cleared with the token
		"api_token":          nil,          // Log out the current session
	}, "reset_token = ?", resetToken) // Redeem only the token that was looked up
	if err != nil {
		return err
	}
	// reset_token always changes to NULL, so zero rows means the token was used or replaced
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Users) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User // Fetch user from database
	if err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if err = translate(err); err == ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// update applies fields to the user, optionally narrowed by an extra condition, and returns the affected row count
func (s *Users) update(ctx context.Context, userID uint, fields map[string]any, cond ...any) (int64, error) {
	query := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", userID)
	if len(cond) > 0 {
		query = query.Where(cond[0], cond[1:]...) // Extra guard on the row
	}
	res := query.Updates(fields)
	if res.Error != nil {
		if err := translate(res.Error); err == ErrDuplicate {
			return 0, err
		}
		return 0, fmt.Errorf("update user %d: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}
