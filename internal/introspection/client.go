// Package introspection fetches the schema each role sees from a Hasura
// GraphQL endpoint.
package introspection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/okra-platform/gqlpurs/internal/schema"
)

const (
	HeaderAdminSecret = "x-hasura-admin-secret"
	HeaderRole        = "x-hasura-role"
)

// Source provides the schema of a role
type Source interface {
	Fetch(ctx context.Context, role string) (*schema.Schema, error)
}

// Client posts the introspection query with the admin secret and the role to
// impersonate.
type Client struct {
	httpClient *http.Client
	url        string
	secret     string
	logger     zerolog.Logger
}

// ClientConfig configures the client
type ClientConfig struct {
	URL     string
	Secret  string
	Timeout time.Duration
}

// NewClient creates an introspection client
func NewClient(cfg ClientConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        cfg.URL,
		secret:     cfg.Secret,
		logger:     logger.With().Str("component", "introspection").Logger(),
	}
}

type request struct {
	OperationName string `json:"operationName"`
	Query         string `json:"query"`
}

// Fetch returns the schema as seen by role
func (c *Client) Fetch(ctx context.Context, role string) (*schema.Schema, error) {
	body, err := json.Marshal(request{OperationName: "IntrospectionQuery", Query: schema.IntrospectionQuery})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRole, role)
	if c.secret != "" {
		req.Header.Set(HeaderAdminSecret, c.secret)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("introspect role %s: %w", role, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read introspection response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Role: role, Message: string(data)}
	}

	s, err := schema.DecodeIntrospection(data)
	if err != nil {
		return nil, fmt.Errorf("role %s: %w", role, err)
	}

	c.logger.Debug().
		Str("role", role).
		Int("types", len(s.Types)).
		Dur("took", time.Since(start)).
		Msg("Fetched schema")
	return s, nil
}

// StatusError is returned when the endpoint answers with an HTTP error
type StatusError struct {
	StatusCode int
	Role       string
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("introspection for role %s failed with status %d: %s", e.Role, e.StatusCode, e.Message)
}

// FileSource serves one schema file to every role
type FileSource struct {
	Path string
}

// Fetch loads the schema file
func (f FileSource) Fetch(_ context.Context, _ string) (*schema.Schema, error) {
	return schema.Load(f.Path)
}
