package dispatch

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/loykin/xentral/internal/value"
)

// Selection is the run-scoped resource/operation choice.
type Selection struct {
	Resource  string `json:"resource" yaml:"resource"`
	Operation string `json:"operation" yaml:"operation"`
}

func (s Selection) String() string { return s.Resource + ":" + s.Operation }

// Params resolves parameter values for a single item.
type Params interface {
	Param(name string) (value.Value, error)
}

// ParamFunc adapts a function to Params.
type ParamFunc func(name string) (value.Value, error)

func (f ParamFunc) Param(name string) (value.Value, error) { return f(name) }

// RequestSpec is the fully resolved shape of one remote call.
// Body is null and Query is null when absent.
type RequestSpec struct {
	Method     string      `json:"method" yaml:"method"`
	Path       string      `json:"path" yaml:"path"`
	Body       value.Value `json:"body" yaml:"body"`
	Query      value.Value `json:"query" yaml:"query"`
	Generation Generation  `json:"generation" yaml:"generation"`
}

// Parameter names read by Resolve.
const (
	ParamData  = "data"
	ParamID    = "id"
	ParamQuery = "queryParameters"
)

// Validate checks the selection against the dispatch table.
func Validate(sel Selection) error {
	_, err := Lookup(sel)
	return err
}

// Resolve maps a selection and the item's parameters to a RequestSpec. It performs no I/O.
func Resolve(sel Selection, params Params) (RequestSpec, error) {
	rt, err := Lookup(sel)
	if err != nil {
		return RequestSpec{}, err
	}
	spec := RequestSpec{Method: rt.Method, Generation: rt.Generation}

	path := rt.Template
	if rt.NeedsID() {
		id, err := idParam(params)
		if err != nil {
			return RequestSpec{}, err
		}
		path = strings.ReplaceAll(path, "{id}", url.PathEscape(id))
	}
	spec.Path = path

	switch rt.body {
	case wrappedData:
		data, err := dataParam(params)
		if err != nil {
			return RequestSpec{}, err
		}
		spec.Body = value.Object(value.Field(ParamData, data))
	case rawData:
		data, err := dataParam(params)
		if err != nil {
			return RequestSpec{}, err
		}
		spec.Body = data
	}

	if rt.query {
		q, err := queryParam(params)
		if err != nil {
			return RequestSpec{}, err
		}
		if !q.IsEmpty() {
			spec.Query = q
		}
	}
	return spec, nil
}

func param(params Params, name string) (value.Value, error) {
	v, err := params.Param(name)
	if err != nil {
		return value.Value{}, fmt.Errorf("parameter '%s': %w", name, err)
	}
	return v, nil
}

func idParam(params Params) (string, error) {
	v, err := param(params, ParamID)
	if err != nil {
		return "", err
	}
	switch v.Kind() {
	case value.KindNumber, value.KindString:
		id := strings.TrimSpace(v.Text())
		if id == "" {
			return "", &MalformedParameterError{Param: ParamID, Raw: v.Text(), Err: errors.New("id must not be empty")}
		}
		return id, nil
	default:
		return "", &MalformedParameterError{Param: ParamID, Raw: v.Text(), Err: fmt.Errorf("expected a string or number, got %s", v.Kind())}
	}
}

func dataParam(params Params) (value.Value, error) {
	v, err := param(params, ParamData)
	if err != nil {
		return value.Value{}, err
	}
	switch v.Kind() {
	case value.KindString:
		raw, _ := v.Str()
		parsed, err := value.Parse(raw)
		if err != nil {
			return value.Value{}, &MalformedParameterError{Param: ParamData, Raw: raw, Err: err}
		}
		return parsed, nil
	case value.KindNull:
		return value.Value{}, &MalformedParameterError{Param: ParamData, Err: errors.New("no JSON provided")}
	default:
		return v, nil
	}
}

func queryParam(params Params) (value.Value, error) {
	v, err := params.Param(ParamQuery)
	if errors.Is(err, ErrParamNotFound) {
		return value.Null(), nil
	}
	if err != nil {
		return value.Value{}, fmt.Errorf("parameter '%s': %w", ParamQuery, err)
	}
	switch v.Kind() {
	case value.KindNull, value.KindObject:
		return v, nil
	case value.KindString:
		raw, _ := v.Str()
		if strings.TrimSpace(raw) == "" {
			return value.Null(), nil
		}
		parsed, perr := value.Parse(raw)
		if perr != nil {
			return value.Value{}, &MalformedParameterError{Param: ParamQuery, Raw: raw, Err: perr}
		}
		if parsed.Kind() != value.KindObject {
			return value.Value{}, &MalformedParameterError{Param: ParamQuery, Raw: raw, Err: errors.New("expected an object")}
		}
		return parsed, nil
	default:
		return value.Value{}, &MalformedParameterError{Param: ParamQuery, Raw: v.Text(), Err: fmt.Errorf("expected an object, got %s", v.Kind())}
	}
}
