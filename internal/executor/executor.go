package executor

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/loykin/xentral/internal/common"
	"github.com/loykin/xentral/internal/credentials"
	"github.com/loykin/xentral/internal/dispatch"
	"github.com/loykin/xentral/internal/httpc"
	"github.com/loykin/xentral/internal/value"
	"github.com/tidwall/gjson"
)

// profile captures the three points where the API generations differ on the wire.
type profile struct {
	authMessage string
	normalize   bool
	forceJSON   bool
}

func profileFor(g dispatch.Generation) profile {
	if g == dispatch.Legacy {
		return profile{authMessage: "The Xentral credentials are not valid!", normalize: true, forceJSON: true}
	}
	return profile{authMessage: "The Xentral API credentials are not valid!"}
}

// Options configures an Executor.
type Options struct {
	// Client is the resty client to use; a default one is built when nil.
	Client *resty.Client
	// PreemptiveAuth sends Basic credentials on the first request instead of waiting for a 401.
	PreemptiveAuth bool
	Logger         *common.Logger
}

// Executor performs one HTTP call per RequestSpec.
type Executor struct {
	client     *resty.Client
	preemptive bool
	logger     *common.Logger
}

// Result is a decoded successful response.
type Result struct {
	StatusCode int
	Value      value.Value
	Raw        []byte
}

func New(opts Options) *Executor {
	c := opts.Client
	if c == nil {
		h := httpc.Httpc{}
		c = h.New()
	}
	l := opts.Logger
	if l == nil {
		l = common.GetLogger()
	}
	return &Executor{client: c, preemptive: opts.PreemptiveAuth, logger: l.WithComponent("executor")}
}

// Do sends spec to the instance named by creds. The URL is the literal concatenation of
// the credential URL and the spec path. Nothing is retried except the single auth challenge.
func (e *Executor) Do(ctx context.Context, creds credentials.Credentials, spec dispatch.RequestSpec) (*Result, error) {
	p := profileFor(spec.Generation)
	target := creds.URL + spec.Path
	logger := e.logger.WithRequest(spec.Method, target)

	body, err := encodeBody(spec.Body, p)
	if err != nil {
		return nil, err
	}
	query := buildQuery(spec.Query, p)

	send := func(withAuth bool) (*resty.Response, error) {
		req := e.client.R().SetContext(ctx).
			SetHeader("Accept", "application/json").
			SetQueryParamsFromValues(query)
		if body != nil {
			req.SetHeader("Content-Type", "application/json")
			req.SetBody(body)
		}
		if withAuth {
			req.SetBasicAuth(creds.Username, creds.Password)
		}
		return req.Execute(spec.Method, target)
	}

	logger.Debug("sending request", "generation", spec.Generation.String(), "query_count", len(query), "body_size", len(body))
	resp, err := send(e.preemptive)
	if err == nil && !e.preemptive && resp.StatusCode() == http.StatusUnauthorized {
		logger.Debug("server requested authentication, resending with basic auth")
		resp, err = send(true)
	}
	if err != nil {
		logger.Error("HTTP request failed", "error", err)
		return nil, &TransportError{Err: err}
	}

	status := resp.StatusCode()
	raw := resp.Body()
	logger.Debug("received HTTP response", "status_code", status, "response_size", len(raw))

	if status == http.StatusForbidden {
		logger.Error("credentials rejected", "status_code", status)
		return nil, &InvalidCredentialsError{Message: p.authMessage, StatusCode: status}
	}
	if status < 200 || status >= 300 {
		logger.Error("unexpected response status", "status_code", status)
		return nil, &TransportError{StatusCode: status, Body: string(raw)}
	}

	if ok := gjson.GetBytes(raw, "success"); ok.Type == gjson.False {
		rae := &RemoteApplicationError{
			Message: gjson.GetBytes(raw, "error").String(),
			Detail:  gjson.GetBytes(raw, "error_info").String(),
		}
		logger.Error("remote application error", "error", rae)
		return nil, rae
	}

	return &Result{StatusCode: status, Value: decode(raw), Raw: raw}, nil
}

func encodeBody(body value.Value, p profile) ([]byte, error) {
	if body.IsEmpty() {
		return nil, nil
	}
	if p.normalize {
		body = value.NormalizeLegacy(body)
	}
	return body.MarshalJSON()
}

func buildQuery(q value.Value, p profile) url.Values {
	out := url.Values{}
	for _, pair := range q.Pairs() {
		out.Set(pair.Key, pair.Value.Text())
	}
	if p.forceJSON {
		out.Set("json", "true")
	}
	return out
}

// decode turns a response body into a Value; non-JSON bodies come back as strings.
func decode(raw []byte) value.Value {
	if len(raw) == 0 {
		return value.Null()
	}
	v, err := value.ParseBytes(raw)
	if err != nil {
		return value.String(string(raw))
	}
	return v
}
