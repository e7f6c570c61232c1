package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/loykin/xentral/internal/constants"
	_ "modernc.org/sqlite"
)

// Dialect holds the SQLite specifics of the calls table.
type Dialect struct{}

func NewDialect() *Dialect {
	return &Dialect{}
}

func (s *Dialect) GetPlaceholder() string {
	return "?"
}

// Booleans are stored as 0/1 and times as RFC3339Nano text in UTC.
func (s *Dialect) ConvertBoolToStorage(b bool) interface{} {
	if b {
		return 1
	}
	return 0
}

func (s *Dialect) ConvertTimeToStorage(t time.Time) interface{} {
	return t.UTC().Format(time.RFC3339Nano)
}

func (s *Dialect) ConvertBoolFromStorage(val interface{}) bool {
	switch v := val.(type) {
	case int64:
		return v != 0
	case int:
		return v != 0
	case bool:
		return v
	default:
		return false
	}
}

// ConvertTimeFromStorage parses the stored RFC3339Nano string; unparsable values yield the zero time.
func (s *Dialect) ConvertTimeFromStorage(val interface{}) time.Time {
	var str string
	switch v := val.(type) {
	case time.Time:
		return v
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, str)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Connect opens and pings the database and applies the pool limits.
func (s *Dialect) Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	db.SetMaxOpenConns(constants.DefaultSQLiteMaxConnections)
	db.SetMaxIdleConns(constants.DefaultSQLiteMaxIdleConns)
	db.SetConnMaxLifetime(constants.DefaultSQLiteLifetime)
	db.SetConnMaxIdleTime(constants.DefaultSQLiteIdleTime)

	return db, nil
}

// GetEnsureStatements creates the calls table and its run_id index.
func (s *Dialect) GetEnsureStatements(calls string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	item_index INTEGER NOT NULL,
	resource TEXT NOT NULL,
	operation TEXT NOT NULL,
	method TEXT NOT NULL DEFAULT '',
	path TEXT NOT NULL DEFAULT '',
	generation TEXT NOT NULL DEFAULT '',
	status_code INTEGER NOT NULL DEFAULT 0,
	failed INTEGER NOT NULL DEFAULT 0,
	error TEXT NULL,
	body TEXT NULL,
	called_at TEXT NOT NULL
)`, calls),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_run_id_idx ON %s (run_id)", calls, calls),
	}
}

func (s *Dialect) GetDriverName() string {
	return "sqlite"
}
