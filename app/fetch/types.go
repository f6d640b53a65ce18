package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

// Request is a single call configuration for Call and Batch.
type Request struct {
	Endpoint string
	Method   string
	Params   map[string]string
	Headers  map[string]string
	Body     any
	Retries  int // 0 means the client default
}

// Response is the structured outcome of a call. Exhausted retries yield
// Success=false with Err set, never a panic or a nil response.
type Response struct {
	Success    bool   `json:"success"`
	Data       any    `json:"data,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Err        string `json:"error,omitempty"`
}

// AsError converts a failed response into an error wrapping the sentinel
// that matches how the response failed, so callers can branch with errors.Is.
func (r Response) AsError() error {
	if r.Success {
		return nil
	}
	if r.StatusCode >= 400 && r.StatusCode < 500 && r.StatusCode != http.StatusTooManyRequests {
		return fmt.Errorf("%w: HTTP %d", ErrRejected, r.StatusCode)
	}
	return fmt.Errorf("%w: %s", ErrTransient, r.Err)
}

// ErrTransient marks timeouts, connection failures and 5xx responses that
// were retried until the attempt budget ran out.
var ErrTransient = errors.New("transient fetch failure")

// ErrRejected marks non-retryable HTTP responses (4xx other than 429).
var ErrRejected = errors.New("request rejected")
