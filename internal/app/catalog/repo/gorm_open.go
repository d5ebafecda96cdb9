package repo

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// sqliteDriverName is the go-sqlite3 driver with the catalog's SQL
	// functions registered on every connection.
	sqliteDriverName = "sqlite3_catalog"

	// sqliteLowerFunc lower-cases with Unicode case folding. SQLite's
	// built-in LOWER only folds ASCII.
	sqliteLowerFunc = "unicode_lower"
)

var registerSQLiteDriver sync.Once

// OpenSQLite connects to the SQLite database at path and migrates the catalog
// tables. An in-memory database is pinned to one connection so every query
// sees the same tables.
func OpenSQLite(path string, logLevel logger.LogLevel) (*gorm.DB, error) {
	registerSQLiteDriver.Do(func() {
		sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc(sqliteLowerFunc, strings.ToLower, true)
			},
		})
	})

	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: sqliteDriverName, DSN: path}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if path == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := MigrateGorm(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}
