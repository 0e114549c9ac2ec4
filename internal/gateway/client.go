// Package gateway talks to the /api/jobs service and normalizes every
// failure into domain.ErrNotFound, *domain.ValidationError or domain.ErrUnavailable.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/jobboard/internal/domain"
	"github.com/MrSnakeDoc/jobboard/internal/logger"
	"github.com/MrSnakeDoc/jobboard/internal/utils"
)

const jobsPath = "/api/jobs"

// Client is one round trip per call. It never retries.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	log     logger.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every call. A client passed with WithHTTPClient is
// copied, never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New validates baseURL ("http://localhost:5000") and builds a client.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: want http(s)://host[:port]", baseURL)
	}

	c := &Client{
		base: u,
		http: &http.Client{Timeout: 10 * time.Second},
		log:  logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 && c.http.Timeout != c.timeout {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c, nil
}

func (c *Client) List(ctx context.Context) ([]domain.JobApplication, error) {
	var out []domain.JobApplication
	if err := c.do(ctx, http.MethodGet, jobsPath, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.JobApplication{}
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, f domain.Fields) (domain.JobApplication, error) {
	var out domain.JobApplication
	err := c.do(ctx, http.MethodPost, jobsPath, f, &out)
	return out, err
}

func (c *Client) Update(ctx context.Context, id string, p domain.Patch) (domain.JobApplication, error) {
	var out domain.JobApplication
	err := c.do(ctx, http.MethodPatch, jobsPath+"/"+url.PathEscape(id), p, &out)
	return out, err
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, jobsPath+"/"+url.PathEscape(id), nil, nil)
}

type apiError struct {
	Error string `json:"error"`
	Field string `json:"field"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("gateway transport error",
			logger.String("method", method),
			logger.String("path", path),
			logger.Error(err))
		return fmt.Errorf("%w: %s %s: %w", domain.ErrUnavailable, method, path, err)
	}
	defer utils.DrainClose(resp.Body)

	c.log.Debug("gateway call",
		logger.String("method", method),
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("duration", time.Since(start)))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode %s %s response: %w", domain.ErrUnavailable, method, path, err)
		}
		return nil

	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", domain.ErrNotFound, method, path)

	case resp.StatusCode == http.StatusBadRequest:
		var ae apiError
		_ = json.NewDecoder(resp.Body).Decode(&ae)
		if ae.Error == "" {
			ae.Error = "rejected by server"
		}
		return &domain.ValidationError{Field: ae.Field, Reason: ae.Error}

	default:
		var ae apiError
		_ = json.NewDecoder(resp.Body).Decode(&ae)
		return fmt.Errorf("%w: %s %s: status %d %s", domain.ErrUnavailable, method, path, resp.StatusCode, ae.Error)
	}
}
