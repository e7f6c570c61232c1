package postgresql

import (
	"net"
	"net/url"
	"strconv"

	"github.com/loykin/xentral/internal/constants"
	"github.com/loykin/xentral/internal/util"
)

// Config selects the history database either by DSN or by its components.
type Config struct {
	DSN      string `mapstructure:"dsn" yaml:"dsn" trim:"-"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password" trim:"-"`
	DBName   string `mapstructure:"dbname" yaml:"dbname"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode"`
}

// ToMap prefers an explicit DSN. Without one and with a host, the DSN is built from the
// components with user and password escaped.
func (p *Config) ToMap() map[string]interface{} {
	dsn, hasDSN := util.TrimEmptyCheck(p.DSN)
	if host, hasHost := util.TrimEmptyCheck(p.Host); !hasDSN && hasHost {
		dsn = p.buildDSN(host)
	}
	return map[string]interface{}{"dsn": dsn}
}

func (p *Config) buildDSN(host string) string {
	port := p.Port
	if port == 0 {
		port = constants.DefaultPostgresPort
	}
	parts := util.TrimSpaceFields(p.User, p.DBName)
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(host, strconv.Itoa(port)),
		Path:     "/" + parts[1],
		RawQuery: url.Values{"sslmode": {util.TrimWithDefault(p.SSLMode, constants.DefaultPostgresSSLMode)}}.Encode(),
	}
	switch {
	case parts[0] != "" && p.Password != "":
		u.User = url.UserPassword(parts[0], p.Password)
	case parts[0] != "":
		u.User = url.User(parts[0])
	}
	return u.String()
}
