// Package sanity implements the post store on the Sanity HTTP API.
package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/config"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

// Client talks to one dataset of a Sanity project.
type Client struct {
	baseURL    string
	dataset    string
	apiVersion string
	token      string

	httpClient *http.Client
	limiter    *rate.Limiter
	log        *slog.Logger
}

// New creates a Client for the project configured in cfg.
func New(cfg config.SanityConfig, logger *slog.Logger) *Client {
	return NewWithURL(cfg.APIBaseURL(), cfg, logger)
}

// NewWithURL creates a Client with a custom API root (for testing).
func NewWithURL(baseURL string, cfg config.SanityConfig, logger *slog.Logger) *Client {
	limit := rate.Inf
	if cfg.RequestInterval > 0 {
		limit = rate.Every(cfg.RequestInterval)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		dataset:    cfg.Dataset,
		apiVersion: strings.TrimPrefix(cfg.APIVersion, "v"),
		token:      cfg.WriteToken,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: rate.NewLimiter(limit, 1),
		log:     logger.With("adapter", "sanity"),
	}
}

func (c *Client) endpoint(kind string) string {
	return fmt.Sprintf("%s/v%s/%s/%s", c.baseURL, c.apiVersion, kind, url.PathEscape(c.dataset))
}

// query runs a GROQ query and decodes its result into out.
func (c *Client) query(ctx context.Context, groq string, params map[string]any, out any) error {
	v := url.Values{}
	v.Set("query", groq)
	for name, val := range params {
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("sanity: encode param %s: %w", name, err)
		}
		v.Set("$"+name, string(raw))
	}

	c.log.DebugContext(ctx, "sanity query", slog.String("query", groq))

	body, err := c.do(ctx, http.MethodGet, c.endpoint("data/query")+"?"+v.Encode(), nil, "")
	if err != nil {
		return fmt.Errorf("sanity: query: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("sanity: decode query result: %w", err)
	}
	return nil
}

// mutate sends mutations as one transaction.
func (c *Client) mutate(ctx context.Context, muts ...mutation) (*mutateResponse, error) {
	payload, err := json.Marshal(mutateRequest{Mutations: muts})
	if err != nil {
		return nil, fmt.Errorf("sanity: encode mutations: %w", err)
	}

	u := c.endpoint("data/mutate") + "?returnIds=true&visibility=sync"
	body, err := c.do(ctx, http.MethodPost, u, payload, "application/json")
	if err != nil {
		return nil, fmt.Errorf("sanity: mutate: %w", err)
	}

	var resp mutateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("sanity: decode mutate response: %w", err)
	}

	c.log.DebugContext(ctx, "sanity mutate",
		slog.Int("mutations", len(muts)),
		slog.String("transaction", resp.TransactionID),
	)
	return &resp, nil
}

// do sends one request and returns the body of a 2xx response.
// Requests are never retried.
func (c *Client) do(ctx context.Context, method, u string, payload []byte, contentType string) ([]byte, error) {
	resp, err := c.send(ctx, method, u, payload, contentType)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, body)
	}
	return body, nil
}

func (c *Client) send(ctx context.Context, method, u string, payload []byte, contentType string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.httpClient.Do(req)
}

// statusError maps an API error response to a domain sentinel.
func statusError(code int, body []byte) error {
	var er errorResponse
	_ = json.Unmarshal(body, &er)

	desc := er.Error.Description
	if desc == "" {
		desc = er.Message
	}
	if desc == "" {
		desc = http.StatusText(code)
	}

	var sentinel error
	switch code {
	case http.StatusBadRequest:
		sentinel = domain.ErrValidation
	case http.StatusUnauthorized:
		sentinel = domain.ErrUnauthorized
	case http.StatusForbidden:
		sentinel = domain.ErrForbidden
	case http.StatusNotFound:
		sentinel = domain.ErrNotFound
	case http.StatusConflict:
		sentinel = domain.ErrConflict
		if er.hasItemType("documentNotFoundError") {
			sentinel = domain.ErrNotFound
		}
	default:
		return fmt.Errorf("unexpected status %d: %s", code, desc)
	}
	return fmt.Errorf("status %d: %s: %w", code, desc, sentinel)
}

func (er errorResponse) hasItemType(t string) bool {
	if er.Error.Type == t {
		return true
	}
	for _, it := range er.Error.Items {
		if it.Error.Type == t {
			return true
		}
	}
	return false
}
