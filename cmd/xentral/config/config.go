package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/loykin/xentral"
	"github.com/loykin/xentral/internal/auth/custom_jwt"
	"github.com/loykin/xentral/internal/constants"
	"github.com/loykin/xentral/internal/httpc"
	"github.com/loykin/xentral/internal/store/postgresql"
	"github.com/loykin/xentral/internal/store/sqlite"
	"github.com/loykin/xentral/internal/util"
	"gopkg.in/yaml.v3"
)

type CredentialsConfig struct {
	URL             string `mapstructure:"url" yaml:"url" validate:"omitempty,url"`
	Username        string `mapstructure:"username" yaml:"username"`
	Password        string `mapstructure:"password" yaml:"password" trim:"-"`
	PasswordFromEnv string `mapstructure:"password_from_env" yaml:"password_from_env"`
}

type ClientConfig struct {
	Insecure       bool   `mapstructure:"insecure" yaml:"insecure"`
	MinTLSVersion  string `mapstructure:"min_tls_version" yaml:"min_tls_version"`
	MaxTLSVersion  string `mapstructure:"max_tls_version" yaml:"max_tls_version"`
	Timeout        string `mapstructure:"timeout" yaml:"timeout"`
	PreemptiveAuth bool   `mapstructure:"preemptive_auth" yaml:"preemptive_auth"`
}

type LoggingConfig struct {
	Level         string `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=error warn warning info debug"`
	Format        string `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=text json color colour"`
	MaskSensitive *bool  `mapstructure:"mask_sensitive" yaml:"mask_sensitive"`
	Color         *bool  `mapstructure:"color" yaml:"color"`
}

type StoreConfig struct {
	Disabled         bool              `mapstructure:"disabled" yaml:"disabled"`
	SaveResponseBody bool              `mapstructure:"save_response_body" yaml:"save_response_body"`
	Type             string            `mapstructure:"type" yaml:"type" validate:"omitempty,oneof=sqlite postgres postgresql"`
	SQLite           sqlite.Config     `mapstructure:"sqlite" yaml:"sqlite"`
	Postgres         postgresql.Config `mapstructure:"postgres" yaml:"postgres"`
	TableName        string            `mapstructure:"table_name" yaml:"table_name" validate:"omitempty,max=63"`
}

type ServerConfig struct {
	Addr             string `mapstructure:"addr" yaml:"addr"`
	JWTSecret        string `mapstructure:"jwt_secret" yaml:"jwt_secret" trim:"-"`
	JWTSecretFromEnv string `mapstructure:"jwt_secret_from_env" yaml:"jwt_secret_from_env"`
	JWTIssuer        string `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience      string `mapstructure:"jwt_audience" yaml:"jwt_audience"`
}

type ConfigDoc struct {
	Credentials CredentialsConfig `mapstructure:"credentials" yaml:"credentials"`
	Client      ClientConfig      `mapstructure:"client" yaml:"client"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
	Store       StoreConfig       `mapstructure:"store" yaml:"store"`
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
}

var validate = validator.New()

func (c *ConfigDoc) Load(path string) error {
	clean := filepath.Clean(path)
	// Ensure path points to a regular file to avoid opening directories/special files
	if info, statErr := os.Stat(clean); statErr != nil || !info.Mode().IsRegular() {
		if statErr != nil {
			return statErr
		}
		return fmt.Errorf("not a regular file: %s", clean)
	}
	// #nosec G304 -- config path is provided intentionally by the user/CI; cleaned and validated above
	f, err := os.Open(clean)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("parse config %s: %w", clean, err)
	}
	return c.Validate()
}

// Validate checks field formats; it does not require credentials.
func (c *ConfigDoc) Validate() error {
	util.TrimStructFields(c)
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, ve := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %s validation", strings.ToLower(ve.Namespace()), ve.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	for name, v := range map[string]string{"min_tls_version": c.Client.MinTLSVersion, "max_tls_version": c.Client.MaxTLSVersion} {
		if strings.TrimSpace(v) != "" && httpc.ParseTLSVersion(v) == 0 {
			return fmt.Errorf("invalid config: client.%s: unknown TLS version %q", name, v)
		}
	}
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	return nil
}

// CredentialMap returns the credentials in the shape a host stores them, or nil when none are configured.
func (c *ConfigDoc) CredentialMap() map[string]any {
	password := c.Credentials.Password
	if envVar, ok := util.TrimEmptyCheck(c.Credentials.PasswordFromEnv); password == "" && ok {
		password = os.Getenv(envVar)
		if password == "" {
			slog.Warn("password env variable requested but empty or not set", "env_var", envVar)
		}
	}
	if c.Credentials.URL == "" && c.Credentials.Username == "" && password == "" {
		return nil
	}
	return map[string]any{
		"url":      c.Credentials.URL,
		"username": c.Credentials.Username,
		"password": password,
	}
}

// RequestTimeout parses client.timeout; empty means the default.
func (c *ConfigDoc) RequestTimeout() (time.Duration, error) {
	s, ok := util.TrimEmptyCheck(c.Client.Timeout)
	if !ok {
		return constants.DefaultRequestTimeout, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid config: client.timeout: %q is not a duration", c.Client.Timeout)
	}
	return d, nil
}

// NewExecutor builds the request executor from client settings.
func (c *ConfigDoc) NewExecutor() (*xentral.Executor, error) {
	timeout, err := c.RequestTimeout()
	if err != nil {
		return nil, err
	}
	h := httpc.Httpc{
		TlsConfig: httpc.TLSConfig(c.Client.Insecure, c.Client.MinTLSVersion, c.Client.MaxTLSVersion),
		Timeout:   timeout,
	}
	return xentral.NewExecutor(xentral.ExecutorOptions{Client: h.New(), PreemptiveAuth: c.Client.PreemptiveAuth}), nil
}

// StoreOptions returns nil when the store is disabled.
func (c *ConfigDoc) StoreOptions(baseDir string) *xentral.StoreConfig {
	if c.Store.Disabled {
		return nil
	}
	cfg := &xentral.StoreConfig{
		TableName:        c.Store.TableName,
		SaveResponseBody: c.Store.SaveResponseBody,
	}
	switch util.TrimAndLower(c.Store.Type) {
	case "postgres", "postgresql":
		cfg.Driver = xentral.DriverPostgresql
		pg := c.Store.Postgres
		cfg.DriverConfig = &pg
	default:
		cfg.Driver = xentral.DriverSqlite
		path := util.TrimWithDefault(c.Store.SQLite.Path, filepath.Join(baseDir, constants.DefaultDbFileName))
		cfg.DriverConfig = &xentral.SqliteConfig{Path: path}
	}
	return cfg
}

// JWTVerify returns nil when no server secret is configured.
func (c *ConfigDoc) JWTVerify() *custom_jwt.VerifyConfig {
	secret := c.Server.JWTSecret
	if envVar, ok := util.TrimEmptyCheck(c.Server.JWTSecretFromEnv); secret == "" && ok {
		secret = os.Getenv(envVar)
	}
	if secret == "" {
		return nil
	}
	return &custom_jwt.VerifyConfig{
		Secret:          []byte(secret),
		AllowedIssuer:   c.Server.JWTIssuer,
		AllowedAudience: c.Server.JWTAudience,
		ClockSkew:       5 * time.Second,
	}
}

func (c *ConfigDoc) parseLogLevel() (xentral.LogLevel, error) {
	level := util.TrimAndLower(c.Logging.Level)
	switch level {
	case "error":
		return xentral.LogLevelError, nil
	case "warn", "warning":
		return xentral.LogLevelWarn, nil
	case "info", "":
		return xentral.LogLevelInfo, nil
	case "debug":
		return xentral.LogLevelDebug, nil
	default:
		return xentral.LogLevelInfo, fmt.Errorf("invalid logging level: %s (valid: error, warn, info, debug)", c.Logging.Level)
	}
}

// SetupLogging configures the global logger based on config settings
func (c *ConfigDoc) SetupLogging() error {
	level, err := c.parseLogLevel()
	if err != nil {
		return err
	}

	var logger *xentral.Logger
	format := util.TrimAndLower(c.Logging.Format)

	useColor := false
	if c.Logging.Color != nil {
		useColor = *c.Logging.Color
	} else if format == "color" || format == "colour" {
		useColor = true
	}

	switch format {
	case "json":
		logger = xentral.NewJSONLogger(level)
	case "color", "colour":
		logger = xentral.NewColorLogger(level)
	case "text", "":
		if useColor {
			logger = xentral.NewColorLogger(level)
		} else {
			logger = xentral.NewLogger(level)
		}
	default:
		return fmt.Errorf("invalid logging format: %s (valid: text, json, color)", c.Logging.Format)
	}

	maskingEnabled := true
	if c.Logging.MaskSensitive != nil {
		maskingEnabled = *c.Logging.MaskSensitive
	}
	xentral.EnableMasking(maskingEnabled)
	xentral.SetDefaultLogger(logger)

	logger.Debug("logging configured",
		"level", util.TrimWithDefault(util.TrimAndLower(c.Logging.Level), "info"),
		"format", format,
		"color", useColor,
		"mask_sensitive", maskingEnabled)
	return nil
}
