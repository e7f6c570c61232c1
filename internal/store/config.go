package store

import (
	"github.com/loykin/xentral/internal/store/postgresql"
	"github.com/loykin/xentral/internal/store/sqlite"
)

const (
	DriverSqlite     = "sqlite"
	DriverPostgresql = "postgresql"
)

type Config struct {
	Driver           string `mapstructure:"driver"`
	TableName        string `mapstructure:"table_name"`
	SaveResponseBody bool   `mapstructure:"save_response_body"`
	DriverConfig     DriverConfig
}

type DriverConfig interface {
	ToMap() map[string]interface{}
}

type SqliteConfig = sqlite.Config
type PostgresConfig = postgresql.Config
