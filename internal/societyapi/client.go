// Package societyapi is the HTTP client for the society management REST API.
package societyapi

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

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/auth"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/metrics"
)

// DefaultBaseURL is the production API.
const DefaultBaseURL = "http://api.fbareaadmin.cloud/api"

// Client talks to the society API on behalf of one admin. The bearer token is
// read from the credential provider before every request.
type Client struct {
	baseURL    *url.URL
	creds      auth.Credentials
	httpClient *http.Client
	logger     logrus.FieldLogger
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	timeout time.Duration
	base    http.RoundTripper
	logger  logrus.FieldLogger
}

// WithTimeout sets the per-request timeout. The default is 30s.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithTransport sets the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) { o.base = rt }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// New creates a client for the API at baseURL.
func New(baseURL string, creds auth.Credentials, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url: %q", baseURL)
	}

	o := clientOptions{timeout: 30 * time.Second, base: http.DefaultTransport}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.logger = l
	}

	return &Client{
		baseURL: u,
		creds:   creds,
		httpClient: &http.Client{
			Timeout:   o.timeout,
			Transport: &bearerTransport{creds: creds, base: o.base},
		},
		logger: o.logger,
	}, nil
}

// Credentials returns the credential provider the client reads.
func (c *Client) Credentials() auth.Credentials { return c.creds }

// bearerTransport attaches the current token through oauth2.Transport, and
// sends the request bare when there is no token.
type bearerTransport struct {
	creds auth.Credentials
	base  http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if _, ok := t.creds.Token(); !ok {
		return t.base.RoundTrip(req)
	}
	ot := &oauth2.Transport{Source: credentialSource{t.creds}, Base: t.base}
	return ot.RoundTrip(req)
}

type credentialSource struct {
	creds auth.Credentials
}

func (s credentialSource) Token() (*oauth2.Token, error) {
	token, ok := s.creds.Token()
	if !ok {
		return nil, domain.ErrNoCredentials
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// request describes one API call. endpoint is a stable label for metrics
// and logs; path may contain ids.
type request struct {
	endpoint    string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func jsonRequest(endpoint, method, path string, body any) (request, error) {
	r := request{endpoint: endpoint, method: method, path: path}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return r, fmt.Errorf("json marshal request: %w", err)
		}
		r.body = bytes.NewReader(b)
		r.contentType = "application/json"
	}
	return r, nil
}

// do sends r and decodes the envelope's data into out (when non-nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + r.path
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), r.body)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	log := c.logger.WithFields(logrus.Fields{
		"endpoint":   r.endpoint,
		"request_id": requestID,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(r.method, r.endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", r.endpoint, ctx.Err())
		}
		log.WithError(err).Warn("society api request failed")
		return fmt.Errorf("%s: %w", r.endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.ObserveUpstream(r.method, r.endpoint, resp.StatusCode, time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: http read: %w", r.endpoint, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(respBody, &env)

	if resp.StatusCode == http.StatusUnauthorized {
		log.Info("society api rejected credentials")
		c.creds.Clear()
		return &domain.APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.WithField("status", resp.StatusCode).Debug("society api error response")
		return &domain.APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if decodeErr != nil {
		return fmt.Errorf("%s: json unmarshal response: %w", r.endpoint, decodeErr)
	}
	if env.Success != nil && !*env.Success {
		return &domain.APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: json unmarshal data: %w", r.endpoint, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	return c.do(ctx, request{endpoint: endpoint, method: http.MethodGet, path: path, query: query}, out)
}

func (c *Client) sendJSON(ctx context.Context, endpoint, method, path string, body, out any) error {
	r, err := jsonRequest(endpoint, method, path, body)
	if err != nil {
		return err
	}
	return c.do(ctx, r, out)
}

func listOf[T any](ctx context.Context, c *Client, endpoint, path string, query url.Values) ([]T, error) {
	var items []T
	if err := c.getJSON(ctx, endpoint, path, query, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func oneOf[T any](ctx context.Context, c *Client, endpoint, path string) (*T, error) {
	var item T
	if err := c.getJSON(ctx, endpoint, path, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func escape(id string) string { return url.PathEscape(id) }
