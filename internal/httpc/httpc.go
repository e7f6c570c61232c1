package httpc

import (
	"crypto/tls"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Httpc builds resty clients for calls to a Xentral instance.
type Httpc struct {
	TlsConfig *tls.Config
	// Timeout bounds a whole request; zero leaves resty's default (none).
	Timeout time.Duration
}

// New returns a resty.Client configured according to the receiver's TLS and timeout settings.
// Defaults: MinVersion TLS1.2 when a TLS config is given with MinVersion zero.
func (h *Httpc) New() *resty.Client {
	c := resty.New()
	c.SetDisableWarn(true)
	if h.Timeout > 0 {
		c.SetTimeout(h.Timeout)
	}
	cfg := h.TlsConfig
	if cfg == nil {
		return c
	}
	cfg = cfg.Clone()
	if cfg.MinVersion == 0 {
		cfg.MinVersion = tls.VersionTLS12
	}
	c.SetTLSClientConfig(cfg)
	return c
}

// ParseTLSVersion converts a TLS version string to the corresponding crypto/tls constant.
// Supports "1.2", "12", "tls1.2", "tls12" and the like. Returns 0 if not recognized.
func ParseTLSVersion(version string) uint16 {
	switch strings.TrimSpace(strings.ToLower(version)) {
	case "1.0", "10", "tls1.0", "tls10":
		return tls.VersionTLS10
	case "1.1", "11", "tls1.1", "tls11":
		return tls.VersionTLS11
	case "1.2", "12", "tls1.2", "tls12":
		return tls.VersionTLS12
	case "1.3", "13", "tls1.3", "tls13":
		return tls.VersionTLS13
	default:
		return 0
	}
}

// TLSConfig builds a tls.Config for the given options, or nil when nothing is constrained.
func TLSConfig(insecure bool, minVersion, maxVersion string) *tls.Config {
	minV := ParseTLSVersion(minVersion)
	maxV := ParseTLSVersion(maxVersion)
	if !insecure && minV == 0 && maxV == 0 {
		return nil
	}
	// #nosec G402 -- insecure is an explicit user option for self-signed test instances
	return &tls.Config{MinVersion: minV, MaxVersion: maxV, InsecureSkipVerify: insecure}
}
