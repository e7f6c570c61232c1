package custom_jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultTTL = 5 * time.Minute

// Config describes an HS256 token for calling the xentral HTTP server.
type Config struct {
	Secret string `mapstructure:"secret" yaml:"secret"`
	// TTLSeconds applies when ExpiresAt is zero; non-positive means five minutes.
	TTLSeconds int64     `mapstructure:"ttl_seconds" yaml:"ttl_seconds"`
	ExpiresAt  time.Time `mapstructure:"expires_at" yaml:"expires_at"`

	Subject  string   `mapstructure:"sub" yaml:"sub"`
	Issuer   string   `mapstructure:"iss" yaml:"iss"`
	Audience []string `mapstructure:"aud" yaml:"aud"`
	// ID becomes the jti claim; a random uuid is used when empty.
	ID string `mapstructure:"jti" yaml:"jti"`

	// Custom claims never override registered ones.
	Custom map[string]any `mapstructure:"custom" yaml:"custom"`
}

func (c Config) expiry(now time.Time) time.Time {
	if !c.ExpiresAt.IsZero() {
		return c.ExpiresAt
	}
	if c.TTLSeconds > 0 {
		return now.Add(time.Duration(c.TTLSeconds) * time.Second)
	}
	return now.Add(defaultTTL)
}

// Issue signs the token.
func (c Config) Issue() (string, error) {
	if c.Secret == "" {
		return "", errors.New("custom_jwt: secret required")
	}
	now := time.Now()
	id := c.ID
	if id == "" {
		id = uuid.NewString()
	}
	claims := jwt.MapClaims{}
	for k, v := range c.Custom {
		claims[k] = v
	}
	claims["jti"] = id
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(c.expiry(now))
	if c.Subject != "" {
		claims["sub"] = c.Subject
	}
	if c.Issuer != "" {
		claims["iss"] = c.Issuer
	}
	if len(c.Audience) > 0 {
		claims["aud"] = jwt.ClaimStrings(c.Audience)
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.Secret))
}
