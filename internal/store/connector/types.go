package connector

import (
	"context"
	"database/sql"
	"time"
)

// Call is one recorded item call.
// Body is nil unless response bodies are saved; Error is empty for successful calls.
type Call struct {
	ID         int64     `json:"id" yaml:"id"`
	RunID      string    `json:"run_id" yaml:"run_id"`
	Index      int       `json:"index" yaml:"index"`
	Resource   string    `json:"resource" yaml:"resource"`
	Operation  string    `json:"operation" yaml:"operation"`
	Method     string    `json:"method,omitempty" yaml:"method,omitempty"`
	Path       string    `json:"path,omitempty" yaml:"path,omitempty"`
	Generation string    `json:"generation,omitempty" yaml:"generation,omitempty"`
	StatusCode int       `json:"status_code" yaml:"status_code"`
	Failed     bool      `json:"failed" yaml:"failed"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
	Body       *string   `json:"body,omitempty" yaml:"body,omitempty"`
	CalledAt   time.Time `json:"called_at" yaml:"called_at"`
}

// Filter narrows List results. An empty RunID lists the newest calls across runs.
type Filter struct {
	RunID string
	Limit int
}

type Connector interface {
	Connect() (*sql.DB, error)
	Validate() error
	Load(config map[string]interface{}) error
	Ensure(table string) error
	Insert(ctx context.Context, table string, c Call) error
	List(ctx context.Context, table string, f Filter) ([]Call, error)
	Close() error
}
