package dispatch

import (
	"errors"
	"fmt"

	"github.com/loykin/xentral/internal/util"
)

// ErrParamNotFound is returned by Params implementations for parameters the host does not have.
var ErrParamNotFound = errors.New("parameter not found")

// UnknownResourceError reports a resource the dispatch table has no entry for.
type UnknownResourceError struct {
	Resource string
}

func (e *UnknownResourceError) Error() string {
	return fmt.Sprintf("The resource '%s' is not known!", e.Resource)
}

// UnknownOperationError reports an operation the resource does not support.
type UnknownOperationError struct {
	Resource  string
	Operation string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("The operation '%s' is not known!", e.Operation)
}

// MalformedParameterError reports a parameter whose value cannot be used, typically
// a data field that does not parse as JSON.
type MalformedParameterError struct {
	Param string
	Raw   string
	Err   error
}

const maxRawContext = 120

func (e *MalformedParameterError) Error() string {
	return fmt.Sprintf("parameter '%s' is malformed: %v (value: %q)", e.Param, e.Err, util.Truncate(e.Raw, maxRawContext))
}

func (e *MalformedParameterError) Unwrap() error { return e.Err }
