package domain

import (
	"time" // Transaction dates

	"github.com/shopspring/decimal" // Decimal amounts
)

// Transaction types counted by the reports. The type column itself is free text.
const (
	TypeCredit = "credit"
	TypeDebit  = "debit"
)

// Transaction Model
type Transaction struct {
	ID          uint            `gorm:"primaryKey"`                                            // Primary key
	UserID      uint            `gorm:"not null;index"`                                        // Owning user, never reassigned
	User        *User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"` // Foreign key target only, never preloaded
	Amount      decimal.Decimal `gorm:"type:decimal(38,10);not null"`                          // Signed amount, up to 28 integer and 10 fractional digits
	Type        string          `gorm:"size:32;not null"`                                      // credit or debit, not enforced here
	Category    *string         `gorm:"size:255"`                                              // Optional category
	Description *string         `gorm:"type:text"`                                             // Optional free text
	Date        time.Time       `gorm:"not null;index"`                                        // Transaction time in UTC
}

// DailyTotal is one calendar-day bucket of a report
type DailyTotal struct {
	Date   string          `json:"date"`   // YYYY-MM-DD
	Credit decimal.Decimal `json:"credit"` // Sum of credit amounts
	Debit  decimal.Decimal `json:"debit"`  // Sum of debit amounts
}
