package common

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestMasker_MaskString(t *testing.T) {
	m := NewMasker()
	tests := []struct {
		in      string
		leaked  string
		present string
	}{
		{`{"username":"app","password":"key123"}`, "key123", `"username":"app"`},
		{`password=abc`, "abc", "password="},
		{`Authorization: Basic YXBwOmtleTEyMw==`, "YXBwOmtleTEyMw", "Basic " + Masked},
		{`Authorization: Bearer eyJhbGciOi.x.y`, "eyJhbGciOi", "Bearer " + Masked},
		{`initkey: "k-99"`, "k-99", "initkey"},
	}
	for _, tt := range tests {
		got := m.MaskString(tt.in)
		if strings.Contains(got, tt.leaked) {
			t.Errorf("MaskString(%q) = %q leaks %q", tt.in, got, tt.leaked)
		}
		if !strings.Contains(got, tt.present) {
			t.Errorf("MaskString(%q) = %q, expected to keep %q", tt.in, got, tt.present)
		}
	}
}

func TestMasker_Idempotent(t *testing.T) {
	m := NewMasker()
	once := m.MaskString(`{"password":"x"}`)
	if twice := m.MaskString(once); twice != once {
		t.Fatalf("masking not idempotent: %q vs %q", once, twice)
	}
}

func TestMasker_MaskAttr(t *testing.T) {
	m := NewMasker()
	if got := m.MaskAttr(slog.String("Password", "x")); got.Value.String() != Masked {
		t.Fatalf("expected key based masking, got %v", got)
	}
	if got := m.MaskAttr(slog.Int("password", 5)); got.Value.String() != Masked {
		t.Fatalf("expected non string value masked by key, got %v", got)
	}
	got := m.MaskAttr(slog.Group("creds", slog.String("username", "u"), slog.String("password", "p")))
	for _, a := range got.Value.Group() {
		if a.Key == "password" && a.Value.String() != Masked {
			t.Fatalf("expected grouped password masked, got %v", a)
		}
		if a.Key == "username" && a.Value.String() != "u" {
			t.Fatalf("expected username kept, got %v", a)
		}
	}
	errAttr := m.MaskAttr(slog.Any("error", errors.New("header Basic Zm9vOmJhcg== rejected")))
	if strings.Contains(errAttr.Value.String(), "Zm9vOmJhcg") {
		t.Fatalf("error attribute leaked credentials: %v", errAttr)
	}
	if got := m.MaskAttr(slog.Int("status", 200)); got.Value.Int64() != 200 {
		t.Fatalf("expected non sensitive attribute untouched, got %v", got)
	}
}

func TestMasker_Disabled(t *testing.T) {
	m := NewMasker()
	m.SetEnabled(false)
	if m.IsEnabled() {
		t.Fatal("expected disabled")
	}
	in := `{"password":"x"}`
	if got := m.MaskString(in); got != in {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestMasker_CustomPatterns(t *testing.T) {
	m := NewMaskerWithPatterns([]SensitivePattern{{Name: "kdnr", Keys: []string{"kundennummer"}}})
	if got := m.MaskAttr(slog.String("kundennummer", "10001")); got.Value.String() != Masked {
		t.Fatalf("expected custom key masked, got %v", got)
	}
	if got := m.MaskString("password=abc"); got != "password=abc" {
		t.Fatalf("custom masker should not apply defaults, got %q", got)
	}
}
