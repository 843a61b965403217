package sellsy

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// HTTPRequest describes one POST to the API endpoint
type HTTPRequest struct {
	Method     string
	URL        string
	Headers    []string
	Fields     []FormField
	VerifyPeer bool
}

// Executor performs a single HTTP exchange and returns the raw body. It fails
// only when no response could be read.
type Executor interface {
	Execute(ctx context.Context, req *HTTPRequest) (string, error)
}

// ExecutorFunc adapts a function to the Executor interface
type ExecutorFunc func(ctx context.Context, req *HTTPRequest) (string, error)

// Execute calls f
func (f ExecutorFunc) Execute(ctx context.Context, req *HTTPRequest) (string, error) {
	return f(ctx, req)
}

// HTTPExecutor is the net/http Executor. It holds one verifying and one
// non-verifying client so the TLS decision can be taken per request.
type HTTPExecutor struct {
	secure    *http.Client
	insecure  *http.Client
	userAgent string
}

// NewHTTPExecutor creates an HTTPExecutor with the given timeout
func NewHTTPExecutor(timeout time.Duration, userAgent string) *HTTPExecutor {
	insecureTransport := http.DefaultTransport.(*http.Transport).Clone()
	insecureTransport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // selected by TLSPolicy

	return &HTTPExecutor{
		secure: &http.Client{
			Timeout:   timeout,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
		insecure: &http.Client{
			Timeout:   timeout,
			Transport: insecureTransport,
		},
		userAgent: userAgent,
	}
}

// Execute implements Executor
func (e *HTTPExecutor) Execute(ctx context.Context, req *HTTPRequest) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, field := range req.Fields {
		if err := writer.WriteField(field.Name, field.Value); err != nil {
			return "", fmt.Errorf("failed to write field %s: %w", field.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart body: %w", err)
	}

	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	if e.userAgent != "" {
		httpReq.Header.Set("User-Agent", e.userAgent)
	}
	for _, line := range req.Headers {
		name, value, _ := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" {
			continue
		}
		if value == "" {
			// An empty header only exists to suppress a default
			httpReq.Header.Del(name)
			continue
		}
		httpReq.Header.Set(name, value)
	}

	client := e.secure
	if !req.VerifyPeer {
		client = e.insecure
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(raw), nil
}
