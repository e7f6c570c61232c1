package node

import (
	"context"
	"errors"
	"fmt"

	"github.com/loykin/xentral/internal/common"
	"github.com/loykin/xentral/internal/credentials"
	"github.com/loykin/xentral/internal/dispatch"
	"github.com/loykin/xentral/internal/executor"
	"github.com/loykin/xentral/internal/store"
	"github.com/loykin/xentral/internal/value"
)

// Parameter names of the run-scoped selection.
const (
	ParamResource  = "resource"
	ParamOperation = "operation"
)

// Item is one workflow item.
type Item struct {
	JSON value.Value `json:"json" yaml:"json"`
}

// Host is the workflow engine the node runs inside.
type Host interface {
	Credentials(ctx context.Context, name string) (map[string]any, error)
	InputData() []Item
	NodeParameter(name string, itemIndex int) (value.Value, error)
}

// ItemError reports the item whose call aborted the run. Error() is the inner message
// unchanged; the index is only carried as a field.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string { return e.Err.Error() }

func (e *ItemError) Unwrap() error { return e.Err }

type Options struct {
	// ContinueOnFail turns a failing item into {"error": message} instead of aborting the run.
	ContinueOnFail bool
	// Recorder, when set, receives one call record per item.
	Recorder store.Recorder
	Executor *executor.Executor
	Logger   *common.Logger
	// RunID groups recorded calls; a new id is generated per Execute when empty.
	RunID string
}

// Node executes Xentral calls for the items a Host provides.
type Node struct {
	opts   Options
	exec   *executor.Executor
	logger *common.Logger
}

func New(opts Options) *Node {
	l := opts.Logger
	if l == nil {
		l = common.GetLogger()
	}
	ex := opts.Executor
	if ex == nil {
		ex = executor.New(executor.Options{Logger: l})
	}
	return &Node{opts: opts, exec: ex, logger: l.WithComponent("node")}
}

// ReadSelection reads resource and operation from the first item's parameters.
func ReadSelection(host Host) (dispatch.Selection, error) {
	resource, err := textParam(host, ParamResource)
	if err != nil {
		return dispatch.Selection{}, err
	}
	operation, err := textParam(host, ParamOperation)
	if err != nil {
		return dispatch.Selection{}, err
	}
	return dispatch.Selection{Resource: resource, Operation: operation}, nil
}

func textParam(host Host, name string) (string, error) {
	v, err := host.NodeParameter(name, 0)
	if err != nil {
		return "", fmt.Errorf("parameter '%s': %w", name, err)
	}
	if v.Kind() != value.KindString {
		return "", &dispatch.MalformedParameterError{Param: name, Raw: v.Text(), Err: fmt.Errorf("expected a string, got %s", v.Kind())}
	}
	s, _ := v.Str()
	return s, nil
}

// ItemParams binds parameter lookups to one item.
func ItemParams(host Host, index int) dispatch.Params {
	return dispatch.ParamFunc(func(name string) (value.Value, error) {
		return host.NodeParameter(name, index)
	})
}

// Execute runs the selected operation once per input item, sequentially, and returns one output
// item per input item. The selection is validated before credentials are fetched or any request is sent.
func (n *Node) Execute(ctx context.Context, host Host) ([]Item, error) {
	items := host.InputData()
	if len(items) == 0 {
		return []Item{}, nil
	}

	sel, err := ReadSelection(host)
	if err != nil {
		return nil, err
	}
	if err := dispatch.Validate(sel); err != nil {
		n.logger.Error("invalid selection", "error", err)
		return nil, err
	}

	raw, err := host.Credentials(ctx, credentials.Name)
	if err != nil {
		return nil, fmt.Errorf("get %s credentials: %w", credentials.Name, err)
	}
	creds, err := credentials.Decode(raw)
	if err != nil {
		return nil, err
	}

	runID := n.opts.RunID
	if runID == "" {
		runID = store.NewRunID()
	}
	logger := n.logger.WithRun(runID).WithSelection(sel.Resource, sel.Operation)
	logger.Debug("node run started", "items", len(items))

	out := make([]Item, 0, len(items))
	failed := 0
	for i := range items {
		res, spec, err := n.call(ctx, sel, creds, host, i)
		n.record(ctx, logger, runID, i, sel, spec, res, err)
		if err != nil {
			if n.opts.ContinueOnFail && ctx.Err() == nil {
				logger.WithItem(i).Warn("item failed, continuing", "error", err)
				failed++
				out = append(out, Item{JSON: value.Object(value.Field("error", value.String(err.Error())))})
				continue
			}
			logger.WithItem(i).Error("item failed, aborting run", "error", err)
			return nil, &ItemError{Index: i, Err: err}
		}
		out = append(out, Item{JSON: res.Value})
	}
	logger.Info("node run finished", "items", len(out), "failed", failed)
	return out, nil
}

func (n *Node) call(ctx context.Context, sel dispatch.Selection, creds credentials.Credentials, host Host, i int) (*executor.Result, *dispatch.RequestSpec, error) {
	spec, err := dispatch.Resolve(sel, ItemParams(host, i))
	if err != nil {
		return nil, nil, err
	}
	res, err := n.exec.Do(ctx, creds, spec)
	return res, &spec, err
}

func (n *Node) record(ctx context.Context, logger *common.Logger, runID string, i int, sel dispatch.Selection, spec *dispatch.RequestSpec, res *executor.Result, err error) {
	if n.opts.Recorder == nil {
		return
	}
	c := store.Call{RunID: runID, Index: i, Resource: sel.Resource, Operation: sel.Operation}
	if spec != nil {
		c.Method = spec.Method
		c.Path = spec.Path
		c.Generation = spec.Generation.String()
	}
	if res != nil {
		c.StatusCode = res.StatusCode
		body := string(res.Raw)
		c.Body = &body
	}
	if err != nil {
		c.Failed = true
		c.Error = err.Error()
		c.StatusCode = statusOf(err)
	}
	if rerr := n.opts.Recorder.Record(context.WithoutCancel(ctx), c); rerr != nil {
		logger.WithItem(i).Warn("failed to record call", "error", rerr)
	}
}

func statusOf(err error) int {
	var ice *executor.InvalidCredentialsError
	if errors.As(err, &ice) {
		return ice.StatusCode
	}
	var te *executor.TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}

// Resolve is a dry run of Execute: it returns the request each item would send without
// fetching credentials or performing I/O.
func Resolve(host Host) ([]dispatch.RequestSpec, error) {
	items := host.InputData()
	if len(items) == 0 {
		return []dispatch.RequestSpec{}, nil
	}
	sel, err := ReadSelection(host)
	if err != nil {
		return nil, err
	}
	if err := dispatch.Validate(sel); err != nil {
		return nil, err
	}
	out := make([]dispatch.RequestSpec, 0, len(items))
	for i := range items {
		spec, err := dispatch.Resolve(sel, ItemParams(host, i))
		if err != nil {
			return nil, &ItemError{Index: i, Err: err}
		}
		out = append(out, spec)
	}
	return out, nil
}
