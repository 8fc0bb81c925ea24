// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"testing" // Test lifecycle

	"github.com/sb141/personal-finance-project/internal/db" // Schema migration

	"github.com/glebarez/sqlite"          // Pure Go SQLite driver for GORM
	"github.com/stretchr/testify/require" // Test assertions
	"gorm.io/gorm"                        // GORM ORM library
	"gorm.io/gorm/logger"                 // GORM query logger
)

// New returns a migrated in-memory SQLite database that lives until the test ends
func New(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,                                  // Same error mapping as MySQL
		Logger:         logger.Default.LogMode(logger.Silent), // Keep test output quiet
	})
	require.NoError(t, err, "open sqlite")

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // Every pooled connection to :memory: is a separate database
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb), "migrate")
	return gdb
}
