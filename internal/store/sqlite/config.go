package sqlite

// SQLite configuration constants
const (
	busyTimeoutMS     = 5000 // 5 seconds in milliseconds
	foreignKeysPragma = "_pragma=foreign_keys(1)"
)

type Config struct {
	Path string `mapstructure:"path" yaml:"path"`
}

func (c *Config) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"path": c.Path,
	}
}
