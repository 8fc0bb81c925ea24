package db

import (
	"fmt" // Error wrapping

	"github.com/sb141/personal-finance-project/internal/domain" // Importing domain models

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
	"gorm.io/gorm/logger"  // GORM query logger
)

// Models lists every table the service owns, in dependency order
var Models = []any{&domain.User{}, &domain.Transaction{}}

// Open connects to MySQL with the given DSN
func Open(dsn string, verbose bool) (*gorm.DB, error) {
	level := logger.Warn // Only slow queries and errors by default
	if verbose {
		level = logger.Info // Log every statement
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,                          // Map duplicate-key errors to gorm.ErrDuplicatedKey
		Logger:         logger.Default.LogMode(level), // Query logging level
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema for all models
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
