package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPDoer defines http.Client interface subset.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// CallObserver receives the outcome of every upstream call. Status is zero on transport errors.
type CallObserver interface {
	ObserveUpstream(method, endpoint string, status int, elapsed time.Duration)
}

// BaseClient performs JSON calls against the charging network API.
type BaseClient struct {
	baseURL  string
	client   HTTPDoer
	observer CallObserver
}

// Option customises a BaseClient.
type Option func(*BaseClient)

// WithObserver reports each call to o.
func WithObserver(o CallObserver) Option {
	return func(c *BaseClient) { c.observer = o }
}

// NewBaseClient builds client with base URL.
func NewBaseClient(baseURL string, client HTTPDoer, opts ...Option) *BaseClient {
	c := &BaseClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *BaseClient) buildURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Do executes an HTTP request and returns status and body. A non-empty token is sent as a bearer
// credential.
func (c *BaseClient) Do(ctx context.Context, method, path, token string, body []byte) (int, []byte, error) {
	started := time.Now()
	status, respBody, err := c.do(ctx, method, path, token, body)
	if c.observer != nil {
		c.observer.ObserveUpstream(method, endpointLabel(path), status, time.Since(started))
	}
	return status, respBody, err
}

func (c *BaseClient) do(ctx context.Context, method, path, token string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, respBody, nil
}

// JSON encodes in (when non-nil), performs the call and decodes a 2xx body into out (when
// non-nil and the body is not empty). Non-2xx responses become *APIError.
func (c *BaseClient) JSON(ctx context.Context, method, path, token string, in, out interface{}) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("clients: encode %s %s: %w", method, path, err)
		}
	}

	status, body, err := c.Do(ctx, method, path, token, payload)
	if err != nil {
		return fmt.Errorf("clients: %s %s: %w", method, path, err)
	}
	if status < 200 || status > 299 {
		return newAPIError(method, path, status, body)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("clients: decode %s %s: %w", method, path, err)
	}
	return nil
}

// NewDefaultHTTPClient returns *http.Client with timeout. Zero disables the timeout.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// endpointLabel collapses ids and query strings so metrics stay low-cardinality.
func endpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		if s != "" && strings.Trim(s, "0123456789") == "" {
			segments[i] = ":id"
		}
	}
	return "/" + strings.Join(segments, "/")
}
