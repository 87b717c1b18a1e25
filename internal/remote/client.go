package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// DefaultEndpoint is the production GraphQL endpoint
const DefaultEndpoint = "https://doggy-date-go.herokuapp.com/graphql"

const maxResponseBytes = 1 << 20

// Request is the JSON body posted to the GraphQL endpoint
type Request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// Response is the standard GraphQL envelope
type Response struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// Client posts GraphQL documents to a single endpoint
type Client struct {
	endpoint string
	client   *http.Client

	// concurrent availability checks for one email share a request
	lookups singleflight.Group
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// NewClient creates a GraphQL client for endpoint
func NewClient(endpoint string, opts ...Option) *Client {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		client:   &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the GraphQL URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Submit posts query and variables and returns the decoded envelope.
// GraphQL-level errors are left in the envelope for the caller to inspect.
func (c *Client) Submit(ctx context.Context, query string, variables map[string]any) (*Response, error) {
	if variables == nil {
		variables = map[string]any{}
	}
	body, err := json.Marshal(Request{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: "submit", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}

	log.Debug().
		Str("endpoint", c.endpoint).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("GraphQL request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{
			Op:         "submit",
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	var envelope Response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &TransportError{Op: "decode response", Err: err}
	}

	return &envelope, nil
}

// Execute submits the document, fails on a non-empty errors array and
// decodes data into out
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any, out any) error {
	envelope, err := c.Submit(ctx, query, variables)
	if err != nil {
		return err
	}
	if len(envelope.Errors) > 0 {
		return &ApplicationError{Errors: envelope.Errors}
	}
	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}
	return nil
}
