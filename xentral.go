package xentral

import (
	"context"

	"github.com/loykin/xentral/internal/common"
	"github.com/loykin/xentral/internal/credentials"
	"github.com/loykin/xentral/internal/dispatch"
	"github.com/loykin/xentral/internal/executor"
	"github.com/loykin/xentral/internal/node"
	"github.com/loykin/xentral/internal/store"
	"github.com/loykin/xentral/internal/value"
)

// Re-export commonly used types for public API

// Value is the ordered JSON value carried by parameters and responses.
type Value = value.Value

// Item is one workflow item.
type Item = node.Item

// Host is implemented by the workflow engine embedding the node.
type Host = node.Host

// StaticHost is an in-memory Host.
type StaticHost = node.StaticHost

type Node = node.Node
type Options = node.Options
type Description = node.Description

type Selection = dispatch.Selection
type RequestSpec = dispatch.RequestSpec
type Params = dispatch.Params
type Route = dispatch.Route
type Generation = dispatch.Generation

const (
	Legacy = dispatch.Legacy
	Modern = dispatch.Modern
)

type Credentials = credentials.Credentials

type Executor = executor.Executor
type ExecutorOptions = executor.Options
type Result = executor.Result

// Errors
type (
	UnknownResourceError    = dispatch.UnknownResourceError
	UnknownOperationError   = dispatch.UnknownOperationError
	MalformedParameterError = dispatch.MalformedParameterError
	InvalidCredentialsError = executor.InvalidCredentialsError
	RemoteApplicationError  = executor.RemoteApplicationError
	TransportError          = executor.TransportError
	ItemError               = node.ItemError
)

var (
	ErrNoCredentials = credentials.ErrNoCredentials
	ErrParamNotFound = dispatch.ErrParamNotFound
)

// New creates a node.
func New(opts Options) *Node { return node.New(opts) }

// Run executes the node once against host.
func Run(ctx context.Context, host Host, opts Options) ([]Item, error) {
	return node.New(opts).Execute(ctx, host)
}

// Resolve maps a selection and parameters to a request without I/O.
func Resolve(sel Selection, params Params) (RequestSpec, error) { return dispatch.Resolve(sel, params) }

// ResolveItems is a dry run over every item of host.
func ResolveItems(host Host) ([]RequestSpec, error) { return node.Resolve(host) }

// Routes lists the dispatch table.
func Routes() []Route { return dispatch.Routes() }

// Describe returns the node description.
func Describe() Description { return node.Describe() }

// DecodeCredentials builds Credentials from a host's credential map.
func DecodeCredentials(raw map[string]any) (Credentials, error) { return credentials.Decode(raw) }

// NewExecutor creates a request executor.
func NewExecutor(opts ExecutorOptions) *Executor { return executor.New(opts) }

// String returns a string Value.
func String(s string) Value { return value.String(s) }

// Int returns a number Value.
func Int(i int64) Value { return value.Int(i) }

// ParseValue parses JSON text keeping member order.
func ParseValue(s string) (Value, error) { return value.Parse(s) }

// Store re-exports
type Store = store.Store
type StoreConfig = store.Config
type SqliteConfig = store.SqliteConfig
type PostgresConfig = store.PostgresConfig
type Call = store.Call
type Recorder = store.Recorder

const (
	DriverSqlite     = store.DriverSqlite
	DriverPostgresql = store.DriverPostgresql
)

// NewRunID returns a fresh id grouping the calls of one run.
func NewRunID() string { return store.NewRunID() }

// OpenStore opens the call history store.
func OpenStore(cfg StoreConfig) (*Store, error) { return store.Open(cfg) }

// Logger re-exports
type Logger = common.Logger
type LogLevel = common.LogLevel

const (
	LogLevelError = common.LogLevelError
	LogLevelWarn  = common.LogLevelWarn
	LogLevelInfo  = common.LogLevelInfo
	LogLevelDebug = common.LogLevelDebug
)

func NewLogger(level LogLevel) *Logger      { return common.NewLogger(level) }
func NewJSONLogger(level LogLevel) *Logger  { return common.NewJSONLogger(level) }
func NewColorLogger(level LogLevel) *Logger { return common.NewColorLogger(level) }
func SetDefaultLogger(l *Logger)            { common.SetDefaultLogger(l) }
func GetLogger() *Logger                    { return common.GetLogger() }

// EnableMasking toggles masking of secrets in log output.
func EnableMasking(enabled bool) { common.EnableMasking(enabled) }

// MaskSensitiveData masks secrets in s with the global masker.
func MaskSensitiveData(s string) string { return common.MaskSensitiveData(s) }
