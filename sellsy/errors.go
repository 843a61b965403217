package sellsy

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Common errors
var (
	// ErrOAuthProblem indicates the server rejected the OAuth credentials in plain text
	ErrOAuthProblem = errors.New("oauth problem reported by sellsy")
	// ErrInvalidResponse indicates the response body was not a JSON envelope
	ErrInvalidResponse = errors.New("invalid response from sellsy api")
)

// RequestFailure is returned when the HTTP exchange did not complete cleanly:
// transport errors, rate limiter failures, OAuth rejections and unparseable bodies.
type RequestFailure struct {
	Method string
	Body   string
	Err    error
}

// Error implements the error interface
func (e *RequestFailure) Error() string {
	if e.Err != nil && e.Body != "" {
		return fmt.Sprintf("sellsy request %s failed: %v: %s", e.Method, e.Err, truncate(e.Body, 200))
	}
	if e.Err != nil {
		return fmt.Sprintf("sellsy request %s failed: %v", e.Method, e.Err)
	}
	return fmt.Sprintf("sellsy request %s failed: %s", e.Method, truncate(e.Body, 200))
}

func (e *RequestFailure) Unwrap() error {
	return e.Err
}

// OAuthProblem returns the oauth_problem code sent by the server, if any.
func (e *RequestFailure) OAuthProblem() string {
	if !strings.Contains(e.Body, "oauth_problem") {
		return ""
	}
	values, err := url.ParseQuery(strings.TrimSpace(e.Body))
	if err == nil {
		if problem := values.Get("oauth_problem"); problem != "" {
			return problem
		}
	}
	// Fall back to scanning when the body is not a query string
	idx := strings.Index(e.Body, "oauth_problem=")
	if idx < 0 {
		return ""
	}
	rest := e.Body[idx+len("oauth_problem="):]
	if end := strings.IndexAny(rest, "&\r\n \""); end >= 0 {
		rest = rest[:end]
	}
	return rest
}

// APIError is returned when the API answered with status "error".
type APIError struct {
	Method  string
	Code    string
	Message string
	More    json.RawMessage
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("sellsy API error on %s: %s", e.Method, e.Message)
	}
	return fmt.Sprintf("sellsy API error on %s: %s: %s", e.Method, e.Code, e.Message)
}

// IsRequestFailure reports whether err is or wraps a *RequestFailure
func IsRequestFailure(err error) bool {
	var rf *RequestFailure
	return errors.As(err, &rf)
}

// IsAPIError reports whether err is or wraps an *APIError
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
