package service

import (
	"context" // Request context
	"errors"  // Error kind matching
	"sort"    // Report ordering
	"time"    // Date ranges

	"github.com/sb141/personal-finance-project/internal/domain" // Importing domain models
	"github.com/sb141/personal-finance-project/internal/store"  // Transaction persistence

	"github.com/shopspring/decimal" // Decimal amounts
	"github.com/sirupsen/logrus"    // Logging library
)

const (
	DefaultListLimit = 100  // Page size when the caller does not ask for one
	MaxListLimit     = 1000 // Largest page served

	amountScale = 10 // Fractional digits the amount column keeps

	dayLayout   = "2006-01-02"       // Report bucket key
	reportRange = 7 * 24 * time.Hour // Weekly report window
)

var maxAmount = decimal.New(1, 28) // Exclusive bound on |amount|, 28 integer digits

// TransactionInput carries the mutable fields of a transaction
type TransactionInput struct {
	Amount      decimal.Decimal // Signed amount
	Type        string          // credit or debit, other values are stored but not reported
	Category    *string         // Optional category
	Description *string         // Optional free text
	Date        *time.Time      // nil means now on create and keep the stored date on update
}

// ListFilter selects which transactions List returns.
// Date wins over Year/Month, and Year/Month only apply when both are set.
type ListFilter struct {
	Skip  int        // Rows to skip, negative means 0
	Limit int        // Page size, defaulted and capped
	Year  *int       // Calendar year
	Month *int       // Calendar month 1..12
	Date  *time.Time // Single UTC calendar day
}

// TransactionService manages a user's transactions and builds their reports.
// Every method takes the acting user's id and never touches other users' rows.
type TransactionService struct {
	txs store.TransactionStore // Transaction persistence
	now func() time.Time       // Clock, replaced in tests
}

// NewTransactionService creates a TransactionService on txs
func NewTransactionService(txs store.TransactionStore) *TransactionService {
	return &TransactionService{txs: txs, now: time.Now}
}

// Create records a transaction for userID
func (s *TransactionService) Create(ctx context.Context, userID uint, in TransactionInput) (*domain.Transaction, error) {
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	tx := &domain.Transaction{
		UserID:      userID,
		Amount:      in.Amount,
		Type:        in.Type,
		Category:    in.Category,
		Description: in.Description,
		Date:        s.now(), // Defaults to now
	}
	if in.Date != nil {
		tx.Date = *in.Date
	}
	if err := s.txs.Create(ctx, tx); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": tx.ID,
		"type":           tx.Type,
	}).Info("Transaction created")
	return tx, nil
}

// Update replaces the mutable fields of the user's transaction id
func (s *TransactionService) Update(ctx context.Context, userID, id uint, in TransactionInput) (*domain.Transaction, error) {
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	tx, err := s.txs.Replace(ctx, userID, id, func(row *domain.Transaction) {
		assignMutable(row, in)
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrTransactionNotFound // Missing or owned by someone else
	}
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": id,
	}).Info("Transaction updated")
	return tx, nil
}

// validateAmount rejects amounts the decimal(38,10) column would round or refuse
func validateAmount(amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(amountScale)) || amount.Abs().GreaterThanOrEqual(maxAmount) {
		return ErrInvalidAmount
	}
	return nil
}

func assignMutable(row *domain.Transaction, in TransactionInput) {
	row.Amount = in.Amount
	row.Type = in.Type
	row.Category = in.Category
	row.Description = in.Description
	if in.Date != nil {
		row.Date = *in.Date // Replace only when given
	}
}

// Delete removes the user's transaction id and returns the deleted id
func (s *TransactionService) Delete(ctx context.Context, userID, id uint) (uint, error) {
	err := s.txs.Delete(ctx, userID, id)
	if errors.Is(err, store.ErrNotFound) {
		return 0, ErrTransactionNotFound
	}
	if err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": id,
	}).Info("Transaction deleted")
	return id, nil
}

// List returns a page of the user's transactions, newest first
func (s *TransactionService) List(ctx context.Context, userID uint, f ListFilter) ([]domain.Transaction, error) {
	q := store.ListQuery{Offset: f.Skip, Limit: f.Limit}
	if q.Offset < 0 {
		q.Offset = 0 // Negative skip is ignored
	}
	if q.Limit <= 0 {
		q.Limit = DefaultListLimit // Default page size
	}
	if q.Limit > MaxListLimit {
		q.Limit = MaxListLimit // Cap page size
	}

	switch {
	case f.Date != nil:
		from := dayStart(*f.Date)
		to := from.AddDate(0, 0, 1) // Next midnight
		q.From, q.To = &from, &to
	case f.Year != nil && f.Month != nil:
		from, to, err := monthRange(*f.Year, *f.Month)
		if err != nil {
			return nil, err
		}
		q.From, q.To = &from, &to
	}

	return s.txs.List(ctx, userID, q)
}

// WeeklyReport sums the user's credits and debits per day for the last seven days
func (s *TransactionService) WeeklyReport(ctx context.Context, userID uint) ([]domain.DailyTotal, error) {
	from := s.now().UTC().Add(-reportRange) // No upper bound
	rows, err := s.txs.InRange(ctx, userID, &from, nil)
	if err != nil {
		return nil, err
	}
	return dailyTotals(rows), nil
}

// MonthlyReport sums the user's credits and debits per day for one month.
// The current month is used unless both year and month are given.
func (s *TransactionService) MonthlyReport(ctx context.Context, userID uint, year, month *int) ([]domain.DailyTotal, error) {
	now := s.now().UTC()
	y, m := now.Year(), int(now.Month()) // Current UTC month by default
	if year != nil && month != nil {
		y, m = *year, *month
	}
	from, to, err := monthRange(y, m)
	if err != nil {
		return nil, err
	}
	rows, err := s.txs.InRange(ctx, userID, &from, &to)
	if err != nil {
		return nil, err
	}
	return dailyTotals(rows), nil
}

// dailyTotals groups rows by UTC calendar day in ascending order.
// Types other than credit and debit still open a bucket but add to neither sum.
func dailyTotals(rows []domain.Transaction) []domain.DailyTotal {
	buckets := make(map[string]*domain.DailyTotal) // Keyed by YYYY-MM-DD
	for _, row := range rows {
		day := row.Date.UTC().Format(dayLayout)
		b, ok := buckets[day]
		if !ok {
			b = &domain.DailyTotal{Date: day, Credit: decimal.Zero, Debit: decimal.Zero}
			buckets[day] = b
		}
		switch row.Type {
		case domain.TypeCredit:
			b.Credit = b.Credit.Add(row.Amount)
		case domain.TypeDebit:
			b.Debit = b.Debit.Add(row.Amount)
		}
	}

	totals := make([]domain.DailyTotal, 0, len(buckets))
	for _, b := range buckets {
		totals = append(totals, *b)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Date < totals[j].Date }) // Oldest day first
	return totals
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// monthRange returns [first instant of the month, first instant of the next month).
func monthRange(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}
