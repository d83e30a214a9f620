// Package agent implements the HTTP client for the vehicle service-log agent
// backend. It covers session CRUD, file upload for server-side processing,
// and streaming chat over the backend's newline-delimited SSE endpoint.
//
// The client holds no server state: every call round-trips to the backend,
// and cancellation is whatever the caller's context provides.
package agent

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
	"time"

	"github.com/google/uuid"

	"github.com/fleetscope/fleetscope/pkg/logger"
)

// DefaultBaseURL is the default agent server URL.
const DefaultBaseURL = "http://localhost:8000"

// DefaultAppName is the default agent application path segment.
const DefaultAppName = "vehicle_service_logs"

// DefaultUserID is the default user path segment on session routes.
const DefaultUserID = "user"

// errBodyLimit caps how much of an error response body is read into an error
// message.
const errBodyLimit = 8 * 1024

// Config holds configuration for the agent client.
type Config struct {
	// BaseURL is the agent server root (e.g. "http://localhost:8000").
	// Defaults to DefaultBaseURL if empty.
	BaseURL string

	// AppName is the agent application name used in session routes.
	// Defaults to DefaultAppName if empty.
	AppName string

	// UserID is the user path segment on session routes.
	// Defaults to DefaultUserID if empty.
	UserID string

	// UploadTarget overrides the server used for file uploads.
	// Defaults to BaseURL if empty.
	UploadTarget string

	// HTTPClient overrides the transport. Defaults to a client with a
	// generous timeout, since agent responses may stream for minutes.
	HTTPClient *http.Client

	// Logger receives debug/warn records. Defaults to a nop logger.
	Logger *slog.Logger
}

// Client talks to the agent backend. Safe for concurrent use: every call
// opens its own request and, for streaming, its own reader.
type Client struct {
	baseURL      string
	appName      string
	userID       string
	uploadTarget string
	httpClient   *http.Client
	log          *slog.Logger
}

// New creates an agent client from cfg, applying defaults for unset fields.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	appName := cfg.AppName
	if appName == "" {
		appName = DefaultAppName
	}

	userID := cfg.UserID
	if userID == "" {
		userID = DefaultUserID
	}

	uploadTarget := strings.TrimSuffix(cfg.UploadTarget, "/")
	if uploadTarget == "" {
		uploadTarget = baseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			// Agent responses can stream for a long time.
			Timeout: 5 * time.Minute,
		}
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		baseURL:      baseURL,
		appName:      appName,
		userID:       userID,
		uploadTarget: uploadTarget,
		httpClient:   httpClient,
		log:          log,
	}, nil
}

// sessionsURL returns the collection URL for this app/user's sessions.
func (c *Client) sessionsURL() string {
	return fmt.Sprintf("%s/apps/%s/users/%s/sessions",
		c.baseURL, url.PathEscape(c.appName), url.PathEscape(c.userID))
}

// sessionURL returns the URL for a single session.
func (c *Client) sessionURL(id string) string {
	return c.sessionsURL() + "/" + url.PathEscape(id)
}

// newRequest builds a request with a correlation id attached and logged.
func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	c.log.Debug("sending request",
		"method", method,
		"url", rawURL,
		"request_id", requestID,
	)

	return req, nil
}

// apiError builds the generic error for a non-2xx response: the server's
// response text when non-empty, otherwise the numeric status.
func apiError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
	text := strings.TrimSpace(string(body))
	if text != "" {
		return fmt.Errorf("%s: %s", op, text)
	}
	return fmt.Errorf("%s: server returned status %d", op, resp.StatusCode)
}

// succeeded reports whether the response carries a 2xx status.
func succeeded(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// safeParse validates body bytes as JSON. An empty/whitespace body or invalid
// JSON yields ok == false, never an error: callers treat an absent body as an
// absent result.
func safeParse(data []byte) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return nil, false
	}
	return json.RawMessage(trimmed), true
}
