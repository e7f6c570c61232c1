package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/loykin/xentral/internal/common"
	"github.com/loykin/xentral/internal/store/connector"
)

type Store struct {
	db      *sql.DB
	dialect *Dialect
	DSN     string
}

// NewStore creates a new SQLite store
func NewStore() *Store {
	return &Store{
		dialect: NewDialect(),
	}
}

// Load loads configuration into the SQLite store
func (s *Store) Load(config map[string]interface{}) error {
	if dsn, ok := config["dsn"].(string); ok && dsn != "" {
		s.DSN = dsn
		return nil
	}
	if path, ok := config["path"].(string); ok && path != "" {
		// modernc.org/sqlite applies connection settings through _pragma parameters.
		s.DSN = fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&%s", path, busyTimeoutMS, foreignKeysPragma)
	}
	return nil
}

// Connect opens the database; an empty DSN means an in-memory database.
func (s *Store) Connect() (*sql.DB, error) {
	if s.DSN == "" {
		s.DSN = ":memory:"
	}

	db, err := s.dialect.Connect(s.DSN)
	if err != nil {
		return nil, err
	}
	s.db = db

	common.GetLogger().WithStore(s.dialect.GetDriverName()).Debug("SQLite database connection established")
	return db, nil
}

func (s *Store) Validate() error {
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ensure creates the calls table and its index.
func (s *Store) Ensure(table string) error {
	logger := common.GetLogger().WithStore(s.dialect.GetDriverName())
	for i, q := range s.dialect.GetEnsureStatements(table) {
		logger.Debug("executing schema statement", "index", i+1, "sql", q)
		if _, err := s.db.Exec(q); err != nil {
			logger.Error("failed to ensure schema", "error", err, "sql", q)
			return fmt.Errorf("failed to ensure schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

// Insert records one call.
func (s *Store) Insert(ctx context.Context, table string, c connector.Call) error {
	p := s.dialect.GetPlaceholder()
	q := fmt.Sprintf("INSERT INTO %s(run_id, item_index, resource, operation, method, path, generation, status_code, failed, error, body, called_at) VALUES(%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)",
		table, p, p, p, p, p, p, p, p, p, p, p, p)
	var errText interface{}
	if c.Error != "" {
		errText = c.Error
	}
	var body interface{}
	if c.Body != nil {
		body = *c.Body
	}
	_, err := s.db.ExecContext(ctx, q,
		c.RunID, c.Index, c.Resource, c.Operation, c.Method, c.Path, c.Generation, c.StatusCode,
		s.dialect.ConvertBoolToStorage(c.Failed), errText, body, s.dialect.ConvertTimeToStorage(c.CalledAt))
	if err != nil {
		return fmt.Errorf("failed to record call: %w", err)
	}
	return nil
}

// List returns calls of one run in item order, or the newest calls across runs.
func (s *Store) List(ctx context.Context, table string, f connector.Filter) ([]connector.Call, error) {
	cols := "id, run_id, item_index, resource, operation, method, path, generation, status_code, failed, error, body, called_at"
	var (
		rows *sql.Rows
		err  error
	)
	if f.RunID != "" {
		rows, err = s.db.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s WHERE run_id = ? ORDER BY item_index ASC, id ASC", cols, table), f.RunID)
	} else {
		rows, err = s.db.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s ORDER BY id DESC LIMIT ?", cols, table), f.Limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []connector.Call
	for rows.Next() {
		var (
			c        connector.Call
			failed   interface{}
			errText  sql.NullString
			body     sql.NullString
			calledAt interface{}
		)
		if err := rows.Scan(&c.ID, &c.RunID, &c.Index, &c.Resource, &c.Operation, &c.Method, &c.Path, &c.Generation,
			&c.StatusCode, &failed, &errText, &body, &calledAt); err != nil {
			return nil, err
		}
		c.Failed = s.dialect.ConvertBoolFromStorage(failed)
		c.Error = errText.String
		if body.Valid {
			b := body.String
			c.Body = &b
		}
		c.CalledAt = s.dialect.ConvertTimeFromStorage(calledAt)
		out = append(out, c)
	}
	return out, rows.Err()
}
