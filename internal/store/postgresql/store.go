package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/loykin/xentral/internal/common"
	"github.com/loykin/xentral/internal/store/connector"
)

type Store struct {
	db      *sql.DB
	dialect *Dialect
	DSN     string
}

// NewStore creates a new PostgreSQL store
func NewStore() *Store {
	return &Store{dialect: NewDialect()}
}

// Load reads the dsn key produced by Config.ToMap.
func (s *Store) Load(config map[string]interface{}) error {
	if dsn, ok := config["dsn"].(string); ok {
		s.DSN = strings.TrimSpace(dsn)
	}
	return nil
}

func (s *Store) Validate() error {
	if s.DSN == "" {
		return errors.New("postgresql store requires a dsn or host")
	}
	return nil
}

func (s *Store) Connect() (*sql.DB, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	db, err := s.dialect.Connect(s.DSN)
	if err != nil {
		return nil, err
	}
	s.db = db
	common.GetLogger().WithStore(s.dialect.GetDriverName()).Debug("PostgreSQL database connection established")
	return db, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

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

func (s *Store) Insert(ctx context.Context, table string, c connector.Call) error {
	ph := make([]string, 12)
	for i := range ph {
		ph[i] = s.dialect.GetPlaceholder(i + 1)
	}
	q := fmt.Sprintf("INSERT INTO %s(run_id, item_index, resource, operation, method, path, generation, status_code, failed, error, body, called_at) VALUES(%s)",
		table, strings.Join(ph, ", "))
	var errText sql.NullString
	if c.Error != "" {
		errText = sql.NullString{String: c.Error, Valid: true}
	}
	var body sql.NullString
	if c.Body != nil {
		body = sql.NullString{String: *c.Body, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, q,
		c.RunID, c.Index, c.Resource, c.Operation, c.Method, c.Path, c.Generation, c.StatusCode,
		s.dialect.ConvertBoolToStorage(c.Failed), errText, body, s.dialect.ConvertTimeToStorage(c.CalledAt))
	if err != nil {
		return fmt.Errorf("failed to record call: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, table string, f connector.Filter) ([]connector.Call, error) {
	cols := "id, run_id, item_index, resource, operation, method, path, generation, status_code, failed, error, body, called_at"
	var (
		rows *sql.Rows
		err  error
	)
	if f.RunID != "" {
		rows, err = s.db.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s WHERE run_id = %s ORDER BY item_index ASC, id ASC", cols, table, s.dialect.GetPlaceholder(1)), f.RunID)
	} else {
		rows, err = s.db.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s ORDER BY id DESC LIMIT %s", cols, table, s.dialect.GetPlaceholder(1)), f.Limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []connector.Call
	for rows.Next() {
		var (
			c        connector.Call
			failed   bool
			errText  sql.NullString
			body     sql.NullString
			calledAt time.Time
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
