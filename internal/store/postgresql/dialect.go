package postgresql

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/loykin/xentral/internal/constants"
)

// Dialect holds the PostgreSQL specifics of the calls table.
type Dialect struct{}

func NewDialect() *Dialect {
	return &Dialect{}
}

// GetPlaceholder returns the positional parameter $index.
func (p *Dialect) GetPlaceholder(index int) string {
	return fmt.Sprintf("$%d", index)
}

// Booleans and timestamps use the native column types.
func (p *Dialect) ConvertBoolToStorage(b bool) interface{} {
	return b
}

func (p *Dialect) ConvertTimeToStorage(t time.Time) interface{} {
	return t.UTC()
}

func (p *Dialect) ConvertBoolFromStorage(val interface{}) bool {
	b, _ := val.(bool)
	return b
}

// ConvertTimeFromStorage normalizes a scanned timestamptz to UTC.
func (p *Dialect) ConvertTimeFromStorage(val interface{}) time.Time {
	switch t := val.(type) {
	case time.Time:
		return t.UTC()
	case *time.Time:
		if t != nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// Connect opens the pgx stdlib pool and pings it.
func (p *Dialect) Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL connection: %w", err)
	}

	db.SetMaxOpenConns(constants.DefaultPostgresMaxConnections)
	db.SetMaxIdleConns(constants.DefaultPostgresMaxIdleConns)
	db.SetConnMaxLifetime(constants.DefaultMaxConnLifetime)
	db.SetConnMaxIdleTime(constants.DefaultMaxIdleTime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL database: %w", err)
	}
	return db, nil
}

// GetEnsureStatements creates the calls table and its run_id index.
func (p *Dialect) GetEnsureStatements(calls string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id BIGSERIAL PRIMARY KEY,
	run_id TEXT NOT NULL,
	item_index INTEGER NOT NULL,
	resource TEXT NOT NULL,
	operation TEXT NOT NULL,
	method TEXT NOT NULL DEFAULT '',
	path TEXT NOT NULL DEFAULT '',
	generation TEXT NOT NULL DEFAULT '',
	status_code INTEGER NOT NULL DEFAULT 0,
	failed BOOLEAN NOT NULL DEFAULT FALSE,
	error TEXT NULL,
	body TEXT NULL,
	called_at TIMESTAMPTZ NOT NULL
)`, calls),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_run_id_idx ON %s (run_id)", calls, calls),
	}
}

func (p *Dialect) GetDriverName() string {
	return "postgresql"
}
