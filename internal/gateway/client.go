// Package gateway is the HTTP client the diagram editor uses to talk to the
// relmap API. The caller's Session travels with every request.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"relmap/internal/diagram"
	"relmap/internal/logger"
	"relmap/internal/models"
)

var _ diagram.Gateway = (*Client)(nil)

const defaultTimeout = 10 * time.Second

var ErrNoSession = errors.New("session has no company id")

type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     logger.LoggerI
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout on a copy of the current client,
// so a shared *http.Client passed to WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

func WithLogger(log logger.LoggerI) Option {
	return func(c *Client) { c.log = log }
}

// New returns a client for the API rooted at baseURL, e.g. http://localhost:8000.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// envelope mirrors responses.APIResponse with the payload left undecoded.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (c *Client) ListTables(ctx context.Context, s models.Session) ([]string, error) {
	var tables []string
	if err := c.do(ctx, s, http.MethodGet, companyPath(s, "tables"), nil, &tables); err != nil {
		return nil, err
	}
	return nonNil(tables), nil
}

func (c *Client) ListColumns(ctx context.Context, s models.Session, table string) ([]string, error) {
	var columns []string
	path := companyPath(s, "tables", url.PathEscape(table), "columns")
	if err := c.do(ctx, s, http.MethodGet, path, nil, &columns); err != nil {
		return nil, err
	}
	return nonNil(columns), nil
}

func (c *Client) ListRelationships(ctx context.Context, s models.Session) ([]models.Relationship, error) {
	var rels []models.Relationship
	if err := c.do(ctx, s, http.MethodGet, companyPath(s, "relationships"), nil, &rels); err != nil {
		return nil, err
	}
	return rels, nil
}

func (c *Client) CreateRelationship(ctx context.Context, s models.Session, in models.RelationshipInput) (models.Relationship, error) {
	var rel models.Relationship
	if err := c.do(ctx, s, http.MethodPost, companyPath(s, "relationships"), in, &rel); err != nil {
		return models.Relationship{}, err
	}
	return rel, nil
}

func (c *Client) DeleteRelationship(ctx context.Context, s models.Session, id int64) error {
	path := companyPath(s, "relationships", strconv.FormatInt(id, 10))
	return c.do(ctx, s, http.MethodDelete, path, nil, nil)
}

// Suggestions lists relationships inferred from the declared foreign keys.
func (c *Client) Suggestions(ctx context.Context, s models.Session) ([]models.Relationship, error) {
	var rels []models.Relationship
	if err := c.do(ctx, s, http.MethodGet, companyPath(s, "relationships", "suggestions"), nil, &rels); err != nil {
		return nil, err
	}
	return rels, nil
}

// Mermaid returns the erDiagram source of the company's tables and relationships.
func (c *Client) Mermaid(ctx context.Context, s models.Session) (string, error) {
	var out struct {
		Mermaid string `json:"mermaid"`
	}
	if err := c.do(ctx, s, http.MethodGet, companyPath(s, "diagram", "mermaid"), nil, &out); err != nil {
		return "", err
	}
	return out.Mermaid, nil
}

func (c *Client) Company(ctx context.Context, s models.Session) (models.Company, error) {
	var company models.Company
	if err := c.do(ctx, s, http.MethodGet, companyPath(s), nil, &company); err != nil {
		return models.Company{}, err
	}
	return company, nil
}

func companyPath(s models.Session, parts ...string) string {
	return "/api/v1/companies/" + s.CompanyID.String() + strings.Join(append([]string{""}, parts...), "/")
}

func (c *Client) do(ctx context.Context, s models.Session, method, path string, body, out any) error {
	if !s.Valid() {
		return ErrNoSession
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	c.log.Debug("gateway call",
		logger.String("method", method),
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", time.Since(start)),
	)

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			if resp.StatusCode >= http.StatusBadRequest {
				return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
			}
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	if resp.StatusCode >= http.StatusBadRequest || env.Status == "error" {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message, Detail: env.Error}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
