package constants

import "time"

// Database Constants
const (
	// PostgreSQL defaults
	DefaultPostgresPort    = 5432
	DefaultPostgresSSLMode = "disable"

	// Connection pool settings
	DefaultPostgresMaxConnections = 25
	DefaultPostgresMaxIdleConns   = 5
	DefaultSQLiteMaxConnections   = 1 // SQLite allows only one writer
	DefaultSQLiteMaxIdleConns     = 1

	// DefaultCallsTable holds one row per item call.
	DefaultCallsTable = "xentral_calls"
	// DefaultDbFileName is the sqlite file used when no path is configured.
	DefaultDbFileName = "xentral.db"
)

// Time and Duration Constants
const (
	// Connection pool lifetimes
	DefaultMaxConnLifetime = 5 * time.Minute
	DefaultMaxIdleTime     = 1 * time.Minute
	DefaultSQLiteLifetime  = 10 * time.Minute
	DefaultSQLiteIdleTime  = 5 * time.Minute
)

// HTTP client and server defaults
const (
	DefaultRequestTimeout  = 30 * time.Second
	DefaultServerAddr      = ":8080"
	// DefaultLocalServerAddr is used when no JWT secret protects the server.
	DefaultLocalServerAddr = "127.0.0.1:8080"
	DefaultHistoryLimit    = 50
)
