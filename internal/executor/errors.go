package executor

import (
	"fmt"

	"github.com/loykin/xentral/internal/util"
)

// InvalidCredentialsError is returned for HTTP 403, whatever the body says.
type InvalidCredentialsError struct {
	Message    string
	StatusCode int
}

func (e *InvalidCredentialsError) Error() string { return e.Message }

// RemoteApplicationError is a 2xx response carrying success: false.
type RemoteApplicationError struct {
	Message string // the response's error field
	Detail  string // the response's error_info field
}

func (e *RemoteApplicationError) Error() string {
	return fmt.Sprintf("Xentral error response: %s (%s)", e.Message, e.Detail)
}

// TransportError is any other failure: network errors, timeouts and unexpected status codes.
// For network errors Err holds the client error and Error() returns its text unchanged.
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

const maxBodyInError = 512

func (e *TransportError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%d - %s", e.StatusCode, util.Truncate(e.Body, maxBodyInError))
}

func (e *TransportError) Unwrap() error { return e.Err }
