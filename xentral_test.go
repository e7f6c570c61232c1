package xentral

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/loykin/xentral/internal/value"
)

func TestRun_PublicAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := r.BasicAuth(); !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"success":true,"data":{"auftrag":"200001"}}`)
	}))
	defer srv.Close()

	host := &StaticHost{
		Creds: map[string]any{"url": srv.URL, "username": "app", "password": "initkey"},
		Params: map[string]value.Value{
			"resource":  value.String("order"),
			"operation": value.String("get"),
			"data":      value.String(`{"id": 1}`),
		},
	}
	items, err := Run(context.Background(), host, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(items) != 1 || items[0].JSON.String() != `{"success":true,"data":{"auftrag":"200001"}}` {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestResolve_PublicAPI(t *testing.T) {
	spec, err := Resolve(Selection{Resource: "lieferscheine", Operation: "getById"}, paramsOf(map[string]Value{"id": value.Int(9)}))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if spec.Method != http.MethodGet || spec.Path != "/api/v1/belege/lieferscheine/9" || spec.Generation != Modern {
		t.Fatalf("unexpected spec %+v", spec)
	}

	_, err = Resolve(Selection{Resource: "widgets"}, paramsOf(nil))
	var ure *UnknownResourceError
	if !errors.As(err, &ure) {
		t.Fatalf("expected UnknownResourceError, got %v", err)
	}
}

func TestDescribeAndRoutes(t *testing.T) {
	if len(Routes()) != 17 {
		t.Fatalf("unexpected route count %d", len(Routes()))
	}
	if d := Describe(); d.Name != "xentral" || len(d.Properties) == 0 {
		t.Fatalf("unexpected description %+v", d)
	}
}

func TestDecodeCredentials_Nil(t *testing.T) {
	if _, err := DecodeCredentials(nil); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
}

func TestMaskSensitiveData(t *testing.T) {
	EnableMasking(true)
	if got := MaskSensitiveData(`password=initkey`); got == `password=initkey` {
		t.Fatalf("password not masked: %s", got)
	}
}

type mapParams map[string]Value

func (m mapParams) Param(name string) (Value, error) {
	v, ok := m[name]
	if !ok {
		return Value{}, ErrParamNotFound
	}
	return v, nil
}

func paramsOf(m map[string]Value) Params { return mapParams(m) }

func TestValueConstructors(t *testing.T) {
	if got := String("a\"b").String(); got != `"a\"b"` {
		t.Fatalf("unexpected string encoding: %s", got)
	}
	if got := Int(42).Text(); got != "42" {
		t.Fatalf("unexpected int text: %s", got)
	}
	if a, b := NewRunID(), NewRunID(); a == b || len(a) != 36 {
		t.Fatalf("expected distinct uuids, got %q %q", a, b)
	}
}
