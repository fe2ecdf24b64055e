package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds every round trip to the store.
	DefaultTimeout = 10 * time.Second

	restPath = "/rest/v1"
	authPath = "/auth/v1"
)

// Client is a query handle against a Supabase deployment: PostgREST
// for rows and RPC, GoTrue for identity. A Client is bound to exactly
// one authorization context (anon, service-role, or a caller token via
// WithToken) and is safe for concurrent use because that context is
// immutable after construction.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	token      string
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRateLimit throttles outbound requests (requests per second).
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// New creates a client authenticated as the key itself (anon or
// service-role). The key doubles as the bearer credential until
// WithToken swaps in a caller token.
func New(baseURL, apiKey string, opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		token:      apiKey,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// WithToken returns a copy of the client whose requests carry the given
// bearer credential. The receiver is never mutated, so a request-scoped
// handle cannot leak its authorization context into another request.
func (c *Client) WithToken(token string) *Client {
	scoped := *c
	scoped.token = token
	return &scoped
}

// Token returns the bearer credential this handle presents downstream.
func (c *Client) Token() string {
	return c.token
}

// From starts a PostgREST query against a table.
func (c *Client) From(table string) *Query {
	return newQuery(c, table)
}

// Rpc invokes a remote procedure. The result is decoded into out when
// out is non-nil; the gateway treats RPC payloads as opaque.
func (c *Client) Rpc(ctx context.Context, fn string, params any, out any) error {
	return c.do(ctx, http.MethodPost, restPath+"/rpc/"+fn, "", params, nil, out)
}

// Auth exposes the GoTrue endpoints under the same credentials.
func (c *Client) Auth() *AuthClient {
	return &AuthClient{client: c}
}

func (c *Client) do(ctx context.Context, method, path, rawQuery string, body any, header http.Header, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	requestURL := c.baseURL + path
	if rawQuery != "" {
		requestURL += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range header {
		req.Header[key] = values
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("supabase request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseError(status int, raw []byte) error {
	var body errorBody
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Message = body.message()
		apiErr.Code = body.code()
		apiErr.Details = body.Details
		apiErr.Hint = body.Hint
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
