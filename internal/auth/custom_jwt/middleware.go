package custom_jwt

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ClaimsKey is the gin context key holding verified jwt.MapClaims.
const ClaimsKey = "jwt_claims"

// VerifyConfig configures JWT verification.
// AllowedIssuer and AllowedAudience are checked only when set; ClockSkew widens exp/nbf.
type VerifyConfig struct {
	Secret          []byte
	RequireJTI      bool
	AllowedIssuer   string
	AllowedAudience string
	ClockSkew       time.Duration
}

// Verify parses an HS256 token and checks its claims.
func Verify(tokStr string, cfg VerifyConfig) (jwt.MapClaims, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("jwt secret not configured")
	}
	tok, err := jwt.Parse(tokStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return cfg.Secret, nil
	}, jwt.WithLeeway(cfg.ClockSkew))
	if err != nil || !tok.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	if err := validateClaimsBasic(claims, cfg); err != nil {
		return nil, err
	}
	return claims, nil
}

// GetClaims returns the claims a GinMiddleware stored, or nil.
func GetClaims(c *gin.Context) jwt.MapClaims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(jwt.MapClaims); ok {
			return claims
		}
	}
	return nil
}

// GinMiddleware enforces a Bearer JWT and stores its claims under ClaimsKey.
func GinMiddleware(cfg VerifyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			return
		}
		claims, err := Verify(strings.TrimSpace(auth[len("Bearer "):]), cfg)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func validateClaimsBasic(c jwt.MapClaims, cfg VerifyConfig) error {
	if cfg.RequireJTI {
		if _, ok := c["jti"]; !ok {
			return errors.New("token missing jti")
		}
	}
	if cfg.AllowedIssuer != "" {
		if iss, _ := c["iss"].(string); iss != cfg.AllowedIssuer {
			return errors.New("invalid iss")
		}
	}
	if cfg.AllowedAudience != "" {
		switch v := c["aud"].(type) {
		case string:
			if v != cfg.AllowedAudience {
				return errors.New("invalid aud")
			}
		case []interface{}:
			ok := false
			for _, it := range v {
				if s, _ := it.(string); s == cfg.AllowedAudience {
					ok = true
					break
				}
			}
			if !ok {
				return errors.New("invalid aud")
			}
		default:
			return errors.New("invalid aud")
		}
	}
	return nil
}
