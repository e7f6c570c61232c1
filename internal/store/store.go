package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/loykin/xentral/internal/common"
	"github.com/loykin/xentral/internal/constants"
	"github.com/loykin/xentral/internal/retry"
	"github.com/loykin/xentral/internal/store/connector"
	"github.com/loykin/xentral/internal/store/postgresql"
	"github.com/loykin/xentral/internal/store/sqlite"
	"github.com/loykin/xentral/internal/util"
)

// Call is one recorded item call.
type Call = connector.Call

// Recorder receives one Call per processed item.
type Recorder interface {
	Record(ctx context.Context, c Call) error
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// ErrInvalidTableName is returned for table names that are not plain SQL identifiers.
var ErrInvalidTableName = errors.New("invalid table name")

// Store is the call history backed by sqlite or postgresql.
type Store struct {
	connector connector.Connector
	driver    string
	table     string
	saveBody  bool
	retry     retry.Policy
}

// NewRunID returns a fresh id grouping the calls of one node run.
func NewRunID() string { return uuid.NewString() }

// Open connects to the configured driver and ensures the calls table exists.
func Open(cfg Config) (*Store, error) {
	driver := util.TrimWithDefault(util.TrimAndLower(cfg.Driver), DriverSqlite)
	table := util.TrimWithDefault(cfg.TableName, constants.DefaultCallsTable)
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTableName, table)
	}

	var c connector.Connector
	switch driver {
	case DriverSqlite:
		c = sqlite.NewStore()
	case DriverPostgresql, "postgres":
		driver = DriverPostgresql
		c = postgresql.NewStore()
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Driver)
	}

	var dc map[string]interface{}
	if cfg.DriverConfig != nil {
		dc = cfg.DriverConfig.ToMap()
	} else {
		dc = map[string]interface{}{}
	}
	if err := c.Load(dc); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if _, err := c.Connect(); err != nil {
		return nil, err
	}
	if err := c.Ensure(table); err != nil {
		_ = c.Close()
		return nil, err
	}
	common.GetLogger().WithStore(driver).Debug("call store ready", "table", table)
	return &Store{connector: c, driver: driver, table: table, saveBody: cfg.SaveResponseBody, retry: retry.Default()}, nil
}

// Driver reports the normalized driver name.
func (s *Store) Driver() string { return s.driver }

// Record stores c, retrying transient write failures. The body is dropped unless the store saves response bodies.
func (s *Store) Record(ctx context.Context, c Call) error {
	if !s.saveBody {
		c.Body = nil
	}
	if c.CalledAt.IsZero() {
		c.CalledAt = time.Now()
	}
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.connector.Insert(ctx, s.table, c)
	})
	if err != nil {
		common.GetLogger().WithStore(s.driver).Error("failed to record call", "error", err, "run_id", c.RunID, "item", c.Index)
		return err
	}
	return nil
}

// List returns the newest calls first; limit <= 0 uses the default history size.
func (s *Store) List(ctx context.Context, limit int) ([]Call, error) {
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}
	return s.connector.List(ctx, s.table, connector.Filter{Limit: limit})
}

// ListRun returns the calls of one run in item order.
func (s *Store) ListRun(ctx context.Context, runID string) ([]Call, error) {
	if runID == "" {
		return nil, errors.New("run id is required")
	}
	return s.connector.List(ctx, s.table, connector.Filter{RunID: runID})
}

func (s *Store) Close() error {
	if s == nil || s.connector == nil {
		return nil
	}
	return s.connector.Close()
}
