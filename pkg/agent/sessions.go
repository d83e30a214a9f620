package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ListSessions enumerates this app/user's sessions.
//
// This operation never fails: network errors, non-2xx statuses, and
// unparsable bodies all degrade to an empty slice so a UI listing sessions
// has nothing to handle. Failures are logged at debug level.
func (c *Client) ListSessions(ctx context.Context) []Session {
	req, err := c.newRequest(ctx, http.MethodGet, c.sessionsURL(), nil)
	if err != nil {
		c.log.Debug("listing sessions", "err", err)
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("listing sessions", "err", err)
		return nil
	}
	defer resp.Body.Close()

	if !succeeded(resp) {
		c.log.Debug("listing sessions", "status", resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Debug("listing sessions", "err", err)
		return nil
	}

	raw, ok := safeParse(body)
	if !ok {
		return nil
	}

	var sessions []Session
	if err := json.Unmarshal(raw, &sessions); err != nil {
		c.log.Debug("parsing session list", "err", err)
		return nil
	}

	return sessions
}

// CreateSession creates a new session, letting the server pick the id.
// A non-2xx response is an error carrying the server's text or status.
func (c *Client) CreateSession(ctx context.Context) (*Session, error) {
	req, err := c.newRequest(ctx, http.MethodPost, c.sessionsURL(), strings.NewReader("{}"))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	defer resp.Body.Close()

	if !succeeded(resp) {
		return nil, apiError("creating session", resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading session response: %w", err)
	}

	return decodeSession(body), nil
}

// GetSession fetches a session by id. A non-2xx response means the session is
// absent rather than an error; absence is (nil, nil).
func (c *Client) GetSession(ctx context.Context, id string) (*Session, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.sessionURL(id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("fetching session", "session_id", id, "err", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if !succeeded(resp) {
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil
	}

	return decodeSession(body), nil
}

// DeleteSession destroys a session by id. A non-2xx response is an error with
// the same contract as CreateSession.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, c.sessionURL(id), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	defer resp.Body.Close()

	if !succeeded(resp) {
		return apiError("deleting session", resp)
	}

	return nil
}

// decodeSession safely parses a session body. Absent or unparsable bodies
// yield nil, matching the "no body means absent result" contract.
func decodeSession(body []byte) *Session {
	raw, ok := safeParse(body)
	if !ok {
		return nil
	}

	s := &Session{}
	if err := json.Unmarshal(raw, s); err != nil {
		return nil
	}

	return s
}
