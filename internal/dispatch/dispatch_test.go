package dispatch

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/loykin/xentral/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapParams map[string]value.Value

func (m mapParams) Param(name string) (value.Value, error) {
	v, ok := m[name]
	if !ok {
		return value.Value{}, ErrParamNotFound
	}
	return v, nil
}

func fullParams() mapParams {
	return mapParams{
		ParamData:  value.String(`{"name": "ACME", "active": true}`),
		ParamID:    value.Int(42),
		ParamQuery: value.Object(value.Field("page", value.Int(2)), value.Field("items", value.Int(50))),
	}
}

func TestResolve_Table(t *testing.T) {
	data := `{"name":"ACME","active":true}`
	wrapped := `{"data":{"name":"ACME","active":true}}`
	query := `{"page":2,"items":50}`

	cases := []struct {
		resource, operation string
		method, path        string
		body, query         string
		gen                 Generation
	}{
		{"order", "create", http.MethodPost, "/api/AuftragCreate", wrapped, "null", Legacy},
		{"order", "update", http.MethodPost, "/api/AuftragEdit", wrapped, "null", Legacy},
		{"order", "get", http.MethodPost, "/api/AuftragGet", wrapped, "null", Legacy},
		{"address", "create", http.MethodPost, "/api/v1/adressen", data, "null", Modern},
		{"address", "update", http.MethodPut, "/api/v1/adressen/42", data, "null", Modern},
		{"address", "getAll", http.MethodGet, "/api/v2/adressen", "null", query, Modern},
		{"address", "getById", http.MethodGet, "/api/v2/adressen/42", "null", "null", Modern},
		{"rechnungen", "getById", http.MethodGet, "/api/v1/belege/rechnungen/42", "null", "null", Modern},
		{"rechnungen", "getAll", http.MethodGet, "/api/v1/belege/rechnungen", "null", query, Modern},
		{"angebote", "getById", http.MethodGet, "/api/v1/belege/angebote/42", "null", "null", Modern},
		{"angebote", "getAll", http.MethodGet, "/api/v1/belege/angebote", "null", query, Modern},
		{"auftraege", "getById", http.MethodGet, "/api/v1/belege/auftraege/42", "null", "null", Modern},
		{"auftraege", "getAll", http.MethodGet, "/api/v1/belege/auftraege", "null", query, Modern},
		{"lieferscheine", "getById", http.MethodGet, "/api/v1/belege/lieferscheine/42", "null", "null", Modern},
		{"lieferscheine", "getAll", http.MethodGet, "/api/v1/belege/lieferscheine", "null", query, Modern},
		{"gutschriften", "getById", http.MethodGet, "/api/v1/belege/gutschriften/42", "null", "null", Modern},
		{"gutschriften", "getAll", http.MethodGet, "/api/v1/belege/gutschriften", "null", query, Modern},
	}
	require.Len(t, cases, len(Routes()), "every route must be covered")

	for _, tc := range cases {
		t.Run(tc.resource+":"+tc.operation, func(t *testing.T) {
			spec, err := Resolve(Selection{Resource: tc.resource, Operation: tc.operation}, fullParams())
			require.NoError(t, err)
			assert.Equal(t, tc.method, spec.Method)
			assert.Equal(t, tc.path, spec.Path)
			assert.Equal(t, tc.body, spec.Body.String())
			assert.Equal(t, tc.query, spec.Query.String())
			assert.Equal(t, tc.gen, spec.Generation)
		})
	}
}

func TestResolve_AddressGetByID(t *testing.T) {
	spec, err := Resolve(Selection{Resource: "address", Operation: "getById"}, mapParams{ParamID: value.Int(42)})
	require.NoError(t, err)
	assert.Equal(t, "/api/v2/adressen/42", spec.Path)
	assert.True(t, spec.Body.IsEmpty())
	assert.True(t, spec.Query.IsEmpty())
}

func TestResolve_BelegeGetAllQueryVerbatim(t *testing.T) {
	q := value.Object(value.Field("page", value.Int(2)), value.Field("items", value.Int(50)))
	spec, err := Resolve(Selection{Resource: "rechnungen", Operation: "getAll"}, mapParams{ParamQuery: q})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/belege/rechnungen", spec.Path)
	assert.True(t, value.Equal(q, spec.Query))
	assert.True(t, spec.Body.IsEmpty())
}

func TestResolve_GetAllWithoutQuery(t *testing.T) {
	spec, err := Resolve(Selection{Resource: "address", Operation: "getAll"}, mapParams{})
	require.NoError(t, err)
	assert.True(t, spec.Query.IsNull())

	spec, err = Resolve(Selection{Resource: "address", Operation: "getAll"}, mapParams{ParamQuery: value.Object()})
	require.NoError(t, err)
	assert.True(t, spec.Query.IsNull())
}

func TestResolve_QueryAsJSONText(t *testing.T) {
	spec, err := Resolve(Selection{Resource: "angebote", Operation: "getAll"}, mapParams{ParamQuery: value.String(`{"filter": "x"}`)})
	require.NoError(t, err)
	assert.Equal(t, `{"filter":"x"}`, spec.Query.String())

	_, err = Resolve(Selection{Resource: "angebote", Operation: "getAll"}, mapParams{ParamQuery: value.String(`[1]`)})
	var mpe *MalformedParameterError
	require.ErrorAs(t, err, &mpe)
	assert.Equal(t, ParamQuery, mpe.Param)
}

func TestResolve_NoDoubledSeparator(t *testing.T) {
	for _, r := range Routes() {
		assert.NotContains(t, r.Template, "//", "%s:%s", r.Resource, r.Operation)
	}
}

func TestResolve_IDIsPathEmbeddedAndEscaped(t *testing.T) {
	spec, err := Resolve(Selection{Resource: "address", Operation: "update"}, mapParams{
		ParamID:   value.String("a/b c"),
		ParamData: value.String(`{"id": 1, "name": "x"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/adressen/a%2Fb%20c", spec.Path)
	assert.Equal(t, `{"id":1,"name":"x"}`, spec.Body.String())
}

func TestResolve_EmptyID(t *testing.T) {
	_, err := Resolve(Selection{Resource: "gutschriften", Operation: "getById"}, mapParams{ParamID: value.String("  ")})
	var mpe *MalformedParameterError
	require.ErrorAs(t, err, &mpe)
	assert.Equal(t, ParamID, mpe.Param)

	_, err = Resolve(Selection{Resource: "gutschriften", Operation: "getById"}, mapParams{ParamID: value.Bool(true)})
	require.ErrorAs(t, err, &mpe)
}

func TestResolve_MissingIDPropagatesHostError(t *testing.T) {
	_, err := Resolve(Selection{Resource: "address", Operation: "getById"}, mapParams{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParamNotFound))
	assert.Contains(t, err.Error(), "'id'")
}

func TestResolve_MalformedData(t *testing.T) {
	raw := `{"name": "ACME",`
	_, err := Resolve(Selection{Resource: "order", Operation: "create"}, mapParams{ParamData: value.String(raw)})
	var mpe *MalformedParameterError
	require.ErrorAs(t, err, &mpe)
	assert.Equal(t, ParamData, mpe.Param)
	assert.Equal(t, raw, mpe.Raw)
	assert.Contains(t, err.Error(), `{\"name\": \"ACME\",`)

	var se *value.SyntaxError
	assert.ErrorAs(t, err, &se)
}

func TestResolve_StructuredDataUsedAsIs(t *testing.T) {
	data := value.Object(value.Field("kundennummer", value.String("10001")))
	spec, err := Resolve(Selection{Resource: "order", Operation: "get"}, mapParams{ParamData: data})
	require.NoError(t, err)
	assert.Equal(t, `{"data":{"kundennummer":"10001"}}`, spec.Body.String())
}

func TestResolve_UnknownResourceAndOperation(t *testing.T) {
	called := false
	params := ParamFunc(func(string) (value.Value, error) {
		called = true
		return value.Null(), nil
	})

	_, err := Resolve(Selection{Resource: "widgets", Operation: "create"}, params)
	var ure *UnknownResourceError
	require.ErrorAs(t, err, &ure)
	assert.Equal(t, "The resource 'widgets' is not known!", err.Error())

	_, err = Resolve(Selection{Resource: "address", Operation: "delete"}, params)
	var uoe *UnknownOperationError
	require.ErrorAs(t, err, &uoe)
	assert.Equal(t, "The operation 'delete' is not known!", err.Error())

	_, err = Resolve(Selection{Resource: "rechnungen", Operation: "create"}, params)
	require.ErrorAs(t, err, &uoe)

	assert.False(t, called, "parameters must not be read for an invalid selection")
}

func TestResourcesAndOperations(t *testing.T) {
	assert.Equal(t, []string{"order", "address", "rechnungen", "angebote", "auftraege", "lieferscheine", "gutschriften"}, Resources())
	var ops []string
	for _, r := range Operations("address") {
		ops = append(ops, r.Operation)
	}
	assert.Equal(t, []string{"create", "update", "getAll", "getById"}, ops)
}

func TestMalformedParameterError_LongRawKeepsRunes(t *testing.T) {
	raw := `{"strasse": "` + strings.Repeat("ß", 200)
	_, err := Resolve(Selection{Resource: "address", Operation: "create"}, mapParams{ParamData: value.String(raw)})
	var mpe *MalformedParameterError
	require.ErrorAs(t, err, &mpe)
	assert.Equal(t, raw, mpe.Raw)
	assert.True(t, utf8.ValidString(err.Error()))
	assert.Contains(t, err.Error(), `ß..."`)
}
