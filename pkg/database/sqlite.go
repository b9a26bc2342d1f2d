package database

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

const (
	// SQLiteDriverName is the go-sqlite3 driver with the phonebook functions registered
	SQLiteDriverName = "sqlite3_phonebook"

	// SQLiteLowerFunc lower-cases text with Go's Unicode case mapping.
	// The built-in LOWER only folds ASCII.
	SQLiteLowerFunc = "go_lower"
)

func init() {
	sql.Register(SQLiteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(SQLiteLowerFunc, goLower, true)
		},
	})
}

// goLower passes NULL and non-text values through unchanged
func goLower(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		return strings.ToLower(v)
	case []byte:
		// go-sqlite3 hands NULL over as a nil byte slice
		if v == nil {
			return nil
		}
		return strings.ToLower(string(v))
	default:
		return v
	}
}

// OpenSQLite opens (creating if absent) the SQLite database file at path,
// applies connection pragmas and ensures the schema exists.
func OpenSQLite(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON&_busy_timeout=30000"
	db, err := sql.Open(SQLiteDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// SQLite allows a single writer; a small pool avoids SQLITE_BUSY storms
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	// Test the connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := optimizeSQLite(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := RunMigrations(db, DialectSQLite); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// optimizeSQLite configures SQLite for concurrent readers
func optimizeSQLite(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=30000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
