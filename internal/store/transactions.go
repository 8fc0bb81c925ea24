package store

import (
	"context" // Request scoped sessions
	"fmt"     // Error wrapping
	"time"    // Date range bounds

	"github.com/sb141/personal-finance-project/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Transactions is the gorm-backed TransactionStore.
// Every query filters on user_id so a caller can never reach another user's rows.
type Transactions struct {
	db *gorm.DB
}

// NewTransactions creates a transaction store on db
func NewTransactions(db *gorm.DB) *Transactions {
	return &Transactions{db: db}
}

// Create inserts tx and reloads it so the caller sees the stored values
func (s *Transactions) Create(ctx context.Context, tx *domain.Transaction) error {
	tx.Date = tx.Date.UTC() // Dates are stored in UTC
	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if err := db.Create(tx).Error; err != nil {
			return err // Return error to rollback
		}
		return db.First(tx, tx.ID).Error // Read back what the column kept
	})
	if err != nil {
		return fmt.Errorf("create transaction: %w", translate(err))
	}
	return nil
}

// Replace loads the transaction owned by userID, lets apply rewrite its
// mutable fields and saves the result, all inside one database transaction
func (s *Transactions) Replace(ctx context.Context, userID, id uint, apply func(*domain.Transaction)) (*domain.Transaction, error) {
	var row domain.Transaction // Row being replaced
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&row).Error; err != nil {
			return err // Missing or owned by someone else
		}
		apply(&row)
		row.ID, row.UserID = id, userID // Identity and owner are immutable
		row.Date = row.Date.UTC()       // Dates are stored in UTC
		if err := tx.Save(&row).Error; err != nil {
			return err // Return error to rollback
		}
		return tx.First(&row, id).Error // Read back what the column kept
	})
	if err = translate(err); err != nil {
		if err == ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("update transaction %d: %w", id, err)
	}
	return &row, nil
}

// Delete removes the transaction if userID owns it
func (s *Transactions) Delete(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Transaction{})
	if res.Error != nil {
		return fmt.Errorf("delete transaction %d: %w", id, res.Error)
	}
	// Nothing deleted means missing or foreign
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns a page of the user's transactions, newest first.
// Rows with the same date keep insertion order.
func (s *Transactions) List(ctx context.Context, userID uint, q ListQuery) ([]domain.Transaction, error) {
	query := s.scope(ctx, userID, q.From, q.To).
		Order("date DESC"). // Newest first
		Order("id ASC").    // Stable tie break
		Offset(q.Offset)
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var rows []domain.Transaction // Page of transactions
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return rows, nil
}

// InRange returns all of the user's transactions dated in [from, to), a nil bound is open
func (s *Transactions) InRange(ctx context.Context, userID uint, from, to *time.Time) ([]domain.Transaction, error) {
	var rows []domain.Transaction // Transactions in range, oldest first
	if err := s.scope(ctx, userID, from, to).Order("date ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("transactions in range: %w", err)
	}
	return rows, nil
}

func (s *Transactions) scope(ctx context.Context, userID uint, from, to *time.Time) *gorm.DB {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID) // Owner filter
	if from != nil {
		query = query.Where("date >= ?", from.UTC()) // Inclusive lower bound
	}
	if to != nil {
		query = query.Where("date < ?", to.UTC()) // Exclusive upper bound
	}
	return query
}
