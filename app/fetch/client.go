package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// Client issues rate-limited HTTP requests with retry and backoff. The
// limiter is injected so all clients of the process share one window per
// destination.
type Client struct {
	httpClient *http.Client
	limiter    *Limiter
	userAgent  string
	maxRetries int

	// backoffBase scales the exponential backoff (2^attempt * backoffBase).
	// Shortened in tests.
	backoffBase time.Duration
}

func NewClient(limiter *Limiter, timeout time.Duration, userAgent string, maxRetries int) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		limiter:     limiter,
		userAgent:   userAgent,
		maxRetries:  maxRetries,
		backoffBase: time.Second,
	}
}

// Get fetches a URL and returns the raw body. It shares the limiter and
// retry machinery with Call.
func (c *Client) Get(ctx context.Context, rawURL string) (string, error) {
	resp := c.do(ctx, Request{Endpoint: rawURL, Method: http.MethodGet}, false)
	if !resp.Success {
		return "", resp.AsError()
	}
	body, _ := resp.Data.(string)
	return body, nil
}

// Call issues a structured API request and parses the JSON payload on
// HTTP 200.
func (c *Client) Call(ctx context.Context, req Request) Response {
	return c.do(ctx, req, true)
}

// Batch runs each call configuration in input order, one result per config.
// Retry and backoff state is independent per call.
func (c *Client) Batch(ctx context.Context, reqs []Request) []Response {
	responses := make([]Response, len(reqs))
	for i, req := range reqs {
		responses[i] = c.Call(ctx, req)
	}
	return responses
}

func (c *Client) do(ctx context.Context, req Request, parseJSON bool) Response {
	retries := req.Retries
	if retries <= 0 {
		retries = c.maxRetries
	}
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	if err := c.limiter.Acquire(ctx, DestinationKey(req.Endpoint)); err != nil {
		return Response{Success: false, Err: fmt.Sprintf("rate limit wait aborted: %v", err)}
	}

	var lastErr string
	var lastStatus int

	for attempt := 0; attempt < retries; {
		status, body, err := c.attempt(ctx, req)

		switch {
		case err != nil:
			lastErr = err.Error()
			slog.Warn("Request attempt failed", "endpoint", req.Endpoint, "attempt", attempt+1, "error", err)

		case status == http.StatusOK:
			resp := Response{Success: true, StatusCode: status}
			if parseJSON {
				resp.Data = parsePayload(body)
			} else {
				resp.Data = string(body.data)
			}
			return resp

		case status == http.StatusTooManyRequests:
			// Server-imposed limit: honor Retry-After without consuming an
			// attempt slot.
			wait := retryAfter(body.header)
			slog.Warn("Rate limited by server, waiting", "endpoint", req.Endpoint, "retry_after", wait.String())
			if err := sleepCtx(ctx, wait); err != nil {
				return Response{Success: false, StatusCode: status, Err: err.Error()}
			}
			continue

		case status >= 500:
			lastErr = fmt.Sprintf("HTTP error: %d", status)
			lastStatus = status
			slog.Warn("Server error, will retry", "endpoint", req.Endpoint, "status", status, "attempt", attempt+1)

		default:
			return Response{
				Success:    false,
				StatusCode: status,
				Err:        fmt.Sprintf("%v: HTTP %d", ErrRejected, status),
			}
		}

		attempt++
		if attempt < retries {
			backoff := time.Duration(1<<uint(attempt-1)) * c.backoffBase
			if err := sleepCtx(ctx, backoff); err != nil {
				return Response{Success: false, Err: err.Error()}
			}
		}
	}

	return Response{
		Success:    false,
		StatusCode: lastStatus,
		Err:        fmt.Sprintf("%v after %d attempts: %s", ErrTransient, retries, lastErr),
	}
}

// payload bundles the body with the headers needed for Retry-After.
type payload struct {
	data   []byte
	header http.Header
}

func (c *Client) attempt(ctx context.Context, req Request) (int, payload, error) {
	var bodyReader io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return 0, payload{}, fmt.Errorf("failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.Endpoint, bodyReader)
	if err != nil {
		return 0, payload{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if len(req.Params) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Params {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, payload{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, payload{}, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, payload{data: data, header: resp.Header}, nil
}

func parsePayload(body payload) any {
	if len(body.data) == 0 {
		return map[string]any{}
	}
	var decoded any
	if err := json.Unmarshal(body.data, &decoded); err != nil {
		return string(body.data)
	}
	return decoded
}

func retryAfter(header http.Header) time.Duration {
	if v := header.Get("Retry-After"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds >= 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return 60 * time.Second
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
