// Package api is the transport layer for the task service. It issues HTTP
// requests, attaches the bearer token from the session store, and reduces
// every response (success, empty, error) to either a decoded payload or a
// typed *Error. It knows nothing about task or session semantics.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SessionStore is the transport's view of durable session storage: read the
// bearer token, and tear the session down when the service rejects it.
type SessionStore interface {
	// Token returns the stored bearer token, or "" when absent.
	Token() string

	// Clear removes the persisted session (token and user). Clearing an
	// already-clear session is a no-op.
	Clear() error
}

// Navigator is the navigation port. A 401 response forces a redirect to the
// login view through it. Implementations must be idempotent: redirecting
// while a redirect is already pending is a no-op.
type Navigator interface {
	RedirectToLogin()
}

// Request describes one call against the service.
type Request struct {
	// Method is the HTTP method.
	Method string

	// Path is relative to the client's base URL, e.g. "/api/tasks".
	Path string

	// Body, when non-nil, is JSON-encoded as the request body.
	Body any

	// Header entries override the defaults the client attaches
	// (Content-Type, Authorization).
	Header http.Header

	// NoAuth suppresses the Authorization header even when a token is
	// stored. Used by credential-exchange endpoints.
	NoAuth bool
}

// Client executes requests against the service base URL.
type Client struct {
	baseURL string
	http    *http.Client
	store   SessionStore
	nav     Navigator
}

// New creates a transport client. store supplies the bearer token and
// receives the forced teardown on 401; nav receives the forced redirect.
func New(baseURL string, store SessionStore, nav Navigator) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		store:   store,
		nav:     nav,
	}
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, store SessionStore, nav Navigator, httpClient *http.Client) *Client {
	c := New(baseURL, store, nav)
	c.http = httpClient
	return c
}

// Do issues the request and reduces the response. On success the body, if
// any, is decoded into out (which may be nil when no payload is expected);
// an explicit no-content response leaves out untouched. Every failure is
// returned as a *Error.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return netError(fmt.Errorf("encode request body: %w", err))
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body)
	if err != nil {
		return netError(err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if !req.NoAuth && c.store != nil {
		if token := c.store.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	// Caller-supplied headers win over the defaults.
	for key, values := range req.Header {
		httpReq.Header.Del(key)
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return netError(err)
	}
	defer resp.Body.Close()

	return c.reduce(resp, out)
}

// wireError is the error object shape shared by both response formats.
type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// envelope is the wrapped response shape used by the auth endpoints.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *wireError      `json:"error"`
}

// reduce normalizes an HTTP response into a decoded payload or a *Error.
//
// Reduction order: 401 (forced session teardown and redirect), 204, then
// body handling keyed on the declared content type. A parsed JSON object
// containing a "success" field is treated as the enveloped format; anything
// else is the raw format and decodes as-is.
func (c *Client) reduce(resp *http.Response, out any) error {
	if resp.StatusCode == http.StatusUnauthorized {
		// Forced side effect: fires even if the caller did not ask for
		// session teardown.
		if c.store != nil {
			_ = c.store.Clear()
		}
		if c.nav != nil {
			c.nav.RedirectToLogin()
		}
		return &Error{
			StatusCode: http.StatusUnauthorized,
			Code:       CodeUnauthorized,
			Message:    "authentication required",
		}
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		if ok {
			return nil
		}
		return statusError(resp.StatusCode)
	}

	// Read as text first: some responses carry a JSON content type with an
	// empty body.
	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return netError(err)
	}
	if len(bytes.TrimSpace(text)) == 0 {
		if ok {
			return nil
		}
		return statusError(resp.StatusCode)
	}

	var parsed json.RawMessage
	if err := json.Unmarshal(text, &parsed); err != nil {
		// The service sent malformed JSON. Distinct from a declared error.
		return &Error{
			StatusCode: resp.StatusCode,
			Code:       CodeParseError,
			Message:    fmt.Sprintf("failed to parse JSON response: %v", err),
		}
	}

	if !ok {
		// Non-success status with a parsed body: use the declared error
		// fields when present.
		var body struct {
			Error *wireError `json:"error"`
		}
		if err := json.Unmarshal(parsed, &body); err == nil && body.Error != nil {
			return errorFrom(resp.StatusCode, body.Error, statusLine(resp.StatusCode))
		}
		return statusError(resp.StatusCode)
	}

	// Enveloped vs raw is a structural check on the "success" key, not an
	// endpoint list: new endpoints need no new code path here.
	if fields, err := objectFields(parsed); err == nil {
		if _, found := fields["success"]; found {
			var env envelope
			if err := json.Unmarshal(parsed, &env); err != nil {
				return &Error{
					StatusCode: resp.StatusCode,
					Code:       CodeParseError,
					Message:    fmt.Sprintf("failed to parse JSON response: %v", err),
				}
			}
			if !env.Success {
				return errorFrom(resp.StatusCode, env.Error, "request failed")
			}
			return decode(resp.StatusCode, env.Data, out)
		}
	}

	return decode(resp.StatusCode, parsed, out)
}

// objectFields returns the top-level keys of a JSON object, or an error when
// the value is not an object.
func objectFields(raw json.RawMessage) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// decode unmarshals a successful payload into out.
func decode(status int, data json.RawMessage, out any) error {
	if out == nil || len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{
			StatusCode: status,
			Code:       CodeParseError,
			Message:    fmt.Sprintf("unexpected response shape: %v", err),
		}
	}
	return nil
}

// errorFrom builds a *Error from a service-declared error, applying defaults
// for absent fields.
func errorFrom(status int, we *wireError, defaultMessage string) *Error {
	apiErr := &Error{
		StatusCode: status,
		Code:       CodeUnknownError,
		Message:    defaultMessage,
	}
	if we != nil {
		if we.Code != "" {
			apiErr.Code = we.Code
		}
		if we.Message != "" {
			apiErr.Message = we.Message
		}
		apiErr.Details = we.Details
	}
	return apiErr
}

// statusError is the fallback for non-success responses without a structured
// error body.
func statusError(status int) *Error {
	return &Error{
		StatusCode: status,
		Code:       CodeUnknownError,
		Message:    statusLine(status),
	}
}

func statusLine(status int) string {
	return fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))
}

// netError wraps transport-level failures (connection, DNS, cancellation)
// as NETWORK_ERROR with status 0. An already-typed error passes through.
func netError(err error) *Error {
	if apiErr, ok := err.(*Error); ok {
		return apiErr
	}
	return &Error{
		StatusCode: 0,
		Code:       CodeNetworkError,
		Message:    err.Error(),
	}
}
