package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eduquest/client/internal/pkg/apperrors"
)

const maxErrorBody = 64 << 10

// TokenSource supplies the bearer token for outgoing requests.
// *session.Store satisfies it.
type TokenSource interface {
	GetToken(ctx context.Context) (string, bool)
}

// StaticToken is a fixed TokenSource
type StaticToken string

// GetToken implements TokenSource
func (t StaticToken) GetToken(context.Context) (string, bool) {
	return string(t), t != ""
}

// Config holds the gateway settings
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client talks to the EduQuest REST API. Every call is a single round trip.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	tokens     TokenSource
	metrics    *Metrics
	log        zerolog.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMetrics attaches request metrics
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a gateway client. tokens may be nil for anonymous use.
func New(cfg Config, tokens TokenSource, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		tokens:     tokens,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("component", "gateway").Logger()
	return c
}

// Auth returns the auth resource
func (c *Client) Auth() *AuthAPI { return &AuthAPI{c: c} }

// Courses returns the course resource
func (c *Client) Courses() *CoursesAPI { return &CoursesAPI{c: c} }

// Enrollments returns the enrollment resource
func (c *Client) Enrollments() *EnrollmentsAPI { return &EnrollmentsAPI{c: c} }

// Achievements returns the achievement resource
func (c *Client) Achievements() *AchievementsAPI { return &AchievementsAPI{c: c} }

// Dashboard returns the dashboard resource
func (c *Client) Dashboard() *DashboardAPI { return &DashboardAPI{c: c} }

// do performs one request. body, if non-nil, is sent as JSON; out, if
// non-nil, receives the decoded 2xx payload.
func (c *Client) do(ctx context.Context, resource, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.tokens != nil {
		if token, ok := c.tokens.GetToken(ctx); ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(resource, method, "error", time.Since(start).Seconds())
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Str("request_id", requestID).Msg("Backend unreachable")
		return &apperrors.APIError{
			Method:  method,
			Path:    path,
			Message: err.Error(),
			Err:     err,
		}
	}
	defer resp.Body.Close()
	c.metrics.observe(resource, method, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("elapsed", time.Since(start)).
		Msg("Backend call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(method, path, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperrors.APIError{Status: resp.StatusCode, Method: method, Path: path, Message: err.Error(), Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &apperrors.APIError{
			Status:  resp.StatusCode,
			Message: "malformed response body",
			Method:  method,
			Path:    path,
			Err:     err,
		}
	}
	return nil
}

// errorFromResponse keeps the backend's message: a JSON message/error field
// when present, otherwise the raw body text.
func errorFromResponse(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	text := strings.TrimSpace(string(raw))

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if strings.HasPrefix(text, "{") && json.Unmarshal(raw, &payload) == nil {
		switch {
		case payload.Message != "":
			text = payload.Message
		case payload.Error != "":
			text = payload.Error
		}
	}

	return &apperrors.APIError{
		Status:  resp.StatusCode,
		Message: text,
		Method:  method,
		Path:    path,
	}
}
