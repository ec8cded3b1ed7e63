package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/shamilbi/bookmarks-curses/internal/config"
	"github.com/shamilbi/bookmarks-curses/internal/logger"
)

// Database wraps sql.DB with lifecycle management for the bookmark store
type Database struct {
	db       *sql.DB
	config   *config.DatabaseConfig
	logger   *logger.Logger
	migrator *Migrator
	path     string
}

// DatabaseOptions contains options for database initialization
type DatabaseOptions struct {
	Config          *config.DatabaseConfig
	CreateIfMissing bool
	MigrateOnOpen   bool
	ValidateSchema  bool
}

// NewDatabase creates a new database instance with the given configuration
func NewDatabase(cfg *config.Config, opts *DatabaseOptions) (*Database, error) {
	if opts == nil {
		opts = &DatabaseOptions{
			Config:          &cfg.Database,
			CreateIfMissing: true,
			MigrateOnOpen:   true,
			ValidateSchema:  true,
		}
	}

	if opts.Config == nil {
		opts.Config = &cfg.Database
	}

	db := &Database{
		config: opts.Config,
		logger: logger.GetLogger().Database(),
		path:   opts.Config.Path,
	}

	if err := db.initialize(opts); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return db, nil
}

// initialize sets up the database connection and configuration
func (db *Database) initialize(opts *DatabaseOptions) error {
	// Ensure database directory exists with restrictive permissions
	dbDir := filepath.Dir(db.path)
	if err := os.MkdirAll(dbDir, 0700); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	// Check if database file exists
	dbExists := true
	if _, err := os.Stat(db.path); os.IsNotExist(err) {
		dbExists = false
		if !opts.CreateIfMissing {
			return fmt.Errorf("database file does not exist: %s", db.path)
		}
	}

	db.logger.Debug().
		Str("path", db.path).
		Msg("Opening database connection")

	sqlDB, err := sql.Open("sqlite", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.db = sqlDB

	// Configure connection pool
	db.configureConnectionPool()

	// Apply SQLite pragmas
	if err := db.applyPragmas(); err != nil {
		db.db.Close()
		return fmt.Errorf("failed to apply pragmas: %w", err)
	}

	// The database holds private bookmarks; keep it owner-only
	if err := db.setFilePermissions(); err != nil {
		db.db.Close()
		return fmt.Errorf("failed to set file permissions: %w", err)
	}

	// Initialize migrator
	schema := GetCurrentSchema()
	db.migrator = NewMigrator(db.db, schema)

	// Handle database initialization or migration
	if !dbExists {
		db.logger.Info().Str("path", db.path).Msg("Creating new database")
		if err := db.migrator.InitializeSchema(); err != nil {
			db.db.Close()
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	} else if opts.MigrateOnOpen {
		db.logger.Debug().Msg("Checking for database migrations")
		if err := db.migrator.MigrateToLatest(); err != nil {
			db.db.Close()
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Validate schema if requested
	if opts.ValidateSchema {
		if err := db.migrator.ValidateSchema(); err != nil {
			db.db.Close()
			return fmt.Errorf("schema validation failed: %w", err)
		}
	}

	// Test connection
	if err := db.ping(); err != nil {
		db.db.Close()
		return fmt.Errorf("database connection test failed: %w", err)
	}

	db.logger.Info().
		Str("path", db.path).
		Bool("new_database", !dbExists).
		Msg("Database initialized successfully")

	return nil
}

// configureConnectionPool sets up connection pool parameters
func (db *Database) configureConnectionPool() {
	db.db.SetMaxOpenConns(db.config.MaxOpenConns)
	db.db.SetMaxIdleConns(db.config.MaxIdleConns)
	db.db.SetConnMaxLifetime(0) // Single process owns the file for its lifetime
}

// applyPragmas applies SQLite pragmas for durability and performance
func (db *Database) applyPragmas() error {
	journalMode := "DELETE"
	if db.config.WALMode {
		journalMode = "WAL"
	}

	pragmas := [][2]string{
		{"journal_mode", journalMode},
		{"synchronous", db.config.SyncMode},
		{"foreign_keys", "ON"},
		{"temp_store", "memory"},
		{"busy_timeout", "5000"},
	}

	for _, pragma := range pragmas {
		query := fmt.Sprintf("PRAGMA %s = %s", pragma[0], pragma[1])
		if _, err := db.db.Exec(query); err != nil {
			return fmt.Errorf("failed to set pragma %s: %w", pragma[0], err)
		}
		db.logger.Debug().Str("pragma", pragma[0]).Str("value", pragma[1]).Msg("Applied pragma")
	}

	return nil
}

// setFilePermissions sets owner-only permissions on the database file
func (db *Database) setFilePermissions() error {
	if err := os.Chmod(db.path, 0600); err != nil {
		return fmt.Errorf("failed to set database file permissions: %w", err)
	}

	// Also cover WAL and SHM files if they exist
	for _, suffix := range []string{"-wal", "-shm"} {
		sidecar := db.path + suffix
		if _, err := os.Stat(sidecar); err == nil {
			if err := os.Chmod(sidecar, 0600); err != nil {
				db.logger.Warn().Err(err).Str("file", sidecar).Msg("Failed to set sidecar file permissions")
			}
		}
	}

	return nil
}

// ping tests the database connection
func (db *Database) ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	var result int
	if err := db.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("test query failed: %w", err)
	}

	if result != 1 {
		return fmt.Errorf("test query returned unexpected result: %d", result)
	}

	return nil
}

// GetDB returns the underlying sql.DB instance
func (db *Database) GetDB() *sql.DB {
	return db.db
}

// GetMigrator returns the database migrator
func (db *Database) GetMigrator() *Migrator {
	return db.migrator
}

// Close closes the database connection
func (db *Database) Close() error {
	if db.db == nil {
		return nil
	}

	db.logger.Info().Msg("Closing database connection")

	// Perform final WAL checkpoint
	if db.config.WALMode {
		if _, err := db.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			db.logger.Warn().Err(err).Msg("Failed to perform final WAL checkpoint")
		}
	}

	if err := db.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	db.db = nil
	return nil
}

// Vacuum performs database maintenance
func (db *Database) Vacuum() error {
	db.logger.Info().Msg("Starting database vacuum")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := db.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuum failed: %w", err)
	}

	if _, err := db.db.ExecContext(ctx, "ANALYZE"); err != nil {
		db.logger.Warn().Err(err).Msg("Failed to update statistics")
	}

	db.logger.Info().Msg("Database vacuum completed")
	return nil
}

// CheckIntegrity performs database integrity check
func (db *Database) CheckIntegrity() error {
	return db.migrator.CheckIntegrity()
}

// GetSize returns the size of the database file in bytes
func (db *Database) GetSize() (int64, error) {
	info, err := os.Stat(db.path)
	if err != nil {
		return 0, fmt.Errorf("failed to get database file info: %w", err)
	}
	return info.Size(), nil
}

// GetPath returns the database file path
func (db *Database) GetPath() string {
	return db.path
}

// GetConfig returns the database configuration
func (db *Database) GetConfig() *config.DatabaseConfig {
	return db.config
}

// IsConnected returns true if the database connection is active
func (db *Database) IsConnected() bool {
	if db.db == nil {
		return false
	}
	return db.ping() == nil
}

// BeginTx starts a database transaction.
// The transaction lifetime is managed by the caller.
func (db *Database) BeginTx() (*sql.Tx, error) {
	return db.db.BeginTx(context.Background(), nil)
}

// ExecContext executes a statement with a bounded timeout
func (db *Database) ExecContext(query string, args ...interface{}) (sql.Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return db.db.ExecContext(ctx, query, args...)
}

// QueryContext executes a query returning rows.
// Uses a background context since the rows are iterated after return.
func (db *Database) QueryContext(query string, args ...interface{}) (*sql.Rows, error) {
	return db.db.QueryContext(context.Background(), query, args...)
}

// QueryRowContext executes a query expecting a single row
func (db *Database) QueryRowContext(query string, args ...interface{}) *sql.Row {
	return db.db.QueryRowContext(context.Background(), query, args...)
}
