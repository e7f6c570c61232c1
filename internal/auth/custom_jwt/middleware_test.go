package custom_jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newEngine(cfg VerifyConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware(cfg))
	r.GET("/x", func(c *gin.Context) {
		claims := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"sub": claims["sub"]})
	})
	return r
}

func do(r http.Handler, auth string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestGinMiddleware_AcceptsIssuedToken(t *testing.T) {
	tok, err := Config{Secret: "s3cret", Subject: "workflow", Issuer: "xentral", Audience: []string{"node"}}.Issue()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	r := newEngine(VerifyConfig{Secret: []byte("s3cret"), AllowedIssuer: "xentral", AllowedAudience: "node"})
	w := do(r, "Bearer "+tok)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != `{"sub":"workflow"}` {
		t.Fatalf("claims not exposed: %s", w.Body.String())
	}
}

func TestGinMiddleware_Rejects(t *testing.T) {
	good, _ := Config{Secret: "s3cret"}.Issue()
	wrongKey, _ := Config{Secret: "other"}.Issue()
	expired, _ := Config{Secret: "s3cret", ExpiresAt: time.Now().Add(-time.Hour)}.Issue()
	wrongIss, _ := Config{Secret: "s3cret", Issuer: "someone"}.Issue()

	r := newEngine(VerifyConfig{Secret: []byte("s3cret")})
	for name, auth := range map[string]string{
		"missing":   "",
		"basic":     "Basic YWJjOmRlZg==",
		"wrong key": "Bearer " + wrongKey,
		"expired":   "Bearer " + expired,
		"garbage":   "Bearer not-a-token",
	} {
		if w := do(r, auth); w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, w.Code)
		}
	}
	if w := do(r, "Bearer "+good); w.Code != http.StatusOK {
		t.Fatalf("valid token rejected: %d", w.Code)
	}

	strict := newEngine(VerifyConfig{Secret: []byte("s3cret"), AllowedIssuer: "xentral", RequireJTI: true})
	if w := do(strict, "Bearer "+wrongIss); w.Code != http.StatusUnauthorized {
		t.Fatalf("issuer mismatch must be rejected, got %d", w.Code)
	}
}

func TestIssue_RequiresSecret(t *testing.T) {
	if _, err := (Config{}).Issue(); err == nil {
		t.Fatalf("expected error without secret")
	}
}

func TestVerify_NoSecret(t *testing.T) {
	if _, err := Verify("x", VerifyConfig{}); err == nil {
		t.Fatalf("expected error without secret")
	}
}

func TestIssue_GeneratesIDAndExpiry(t *testing.T) {
	tok, err := Config{Secret: "s3cret", TTLSeconds: 60, Custom: map[string]any{"jti": "ignored", "role": "ops"}}.Issue()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := Verify(tok, VerifyConfig{Secret: []byte("s3cret"), RequireJTI: true})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if jti, _ := claims["jti"].(string); len(jti) != 36 {
		t.Fatalf("expected generated uuid jti, got %v", claims["jti"])
	}
	if claims["role"] != "ops" {
		t.Fatalf("custom claim lost: %v", claims)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		t.Fatalf("expected exp claim: %v", err)
	}
	if d := time.Until(exp.Time); d <= 0 || d > 61*time.Second {
		t.Fatalf("unexpected ttl: %v", d)
	}
}
