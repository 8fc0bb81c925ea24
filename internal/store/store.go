// Package store persists users and their transactions through gorm.
//
// Every method takes the request context and opens its own session with
// db.WithContext, so no handle outlives the call. Multi-step writes run
// inside db.Transaction and are applied all or nothing.
package store

import (
	"context" // Request scoped sessions
	"errors"  // Sentinel errors
	"time"    // Date range bounds

	"github.com/sb141/personal-finance-project/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

var (
	ErrNotFound  = errors.New("store: record not found") // No row matches the lookup
	ErrDuplicate = errors.New("store: duplicate record") // A unique constraint rejected the write
)

// CredentialStore persists users and the tokens issued to them
type CredentialStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	UserByUsername(ctx context.Context, username string) (*domain.User, error)
	UserByAPIToken(ctx context.Context, token string) (*domain.User, error)
	UserByResetToken(ctx context.Context, token string) (*domain.User, error)
	SetAPIToken(ctx context.Context, userID uint, token string) error
	SetResetToken(ctx context.Context, userID uint, token string, expiry time.Time) error
	// ResetPassword only applies while resetToken is still the user's pending token
	ResetPassword(ctx context.Context, userID uint, resetToken, passwordHash string) error
}

// TransactionStore persists transactions scoped to their owner
type TransactionStore interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	Replace(ctx context.Context, userID, id uint, apply func(*domain.Transaction)) (*domain.Transaction, error)
	Delete(ctx context.Context, userID, id uint) error
	List(ctx context.Context, userID uint, q ListQuery) ([]domain.Transaction, error)
	InRange(ctx context.Context, userID uint, from, to *time.Time) ([]domain.Transaction, error)
}

// ListQuery selects a page of transactions
type ListQuery struct {
	From   *time.Time // Inclusive lower bound, nil for none
	To     *time.Time // Exclusive upper bound, nil for none
	Offset int        // Rows to skip
	Limit  int        // Page size, zero for no limit
}

// translate maps gorm errors onto the store sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
