package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/fleetscope/fleetscope/pkg/sse"
)

// runSSEPath is the backend's streaming chat endpoint.
const runSSEPath = "/run_sse"

// vehicleIDPattern extracts a vehicle id token from message text. The bare
// "id:" alternative is deliberately lenient and can over-match unrelated
// text; the backend treats a wrong vehicle_id hint as a no-op.
var vehicleIDPattern = regexp.MustCompile(`(?i)\b(?:vehicle\s+id|id)\s*[:\s]\s*([A-Za-z0-9-]+)`)

// FragmentHandler receives one content fragment as it arrives off the stream.
// Returning an error aborts the stream and surfaces from StreamMessage.
type FragmentHandler func(fragment json.RawMessage) error

// SendMessageStream sends one chat message and returns the ordered sequence
// of content fragments decoded from the server's SSE response.
func (c *Client) SendMessageStream(ctx context.Context, msg Message) ([]json.RawMessage, error) {
	var fragments []json.RawMessage
	err := c.StreamMessage(ctx, msg, func(fragment json.RawMessage) error {
		fragments = append(fragments, fragment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fragments, nil
}

// StreamMessage sends one chat message and invokes fn for each content
// fragment in arrival order.
//
// Validation happens before any network I/O. Per-record decode failures are
// expected mid-stream (partial or malformed SSE records) and are skipped
// silently; only transport-level failures and a non-2xx initial response
// surface as errors.
func (c *Client) StreamMessage(ctx context.Context, msg Message, fn FragmentHandler) error {
	if err := msg.validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(buildRunRequest(c.appName, c.userID, msg))
	if err != nil {
		return fmt.Errorf("marshaling run request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+runSSEPath, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	if !succeeded(resp) {
		return apiError("sending message", resp)
	}

	if resp.Body == nil || resp.Body == http.NoBody {
		return ErrNoStream
	}

	dec := sse.NewDecoder(resp.Body)
	for {
		record, err := dec.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading stream: %w", err)
		}

		var parsed sseRecord
		if err := json.Unmarshal([]byte(record), &parsed); err != nil {
			c.log.Debug("skipping malformed stream record",
				"err", err,
				"record", record,
			)
			continue
		}

		// Absent content field: nothing for the caller.
		if parsed.Content == nil {
			continue
		}

		if fn != nil {
			if err := fn(parsed.Content); err != nil {
				return err
			}
		}
	}
}

// validate enforces the preconditions checked before any I/O.
func (m Message) validate() error {
	if m.SessionID == "" {
		return ErrMissingSessionID
	}
	if strings.TrimSpace(m.Text) == "" && m.InlineData == nil {
		return ErrEmptyMessage
	}
	return nil
}

// buildRunRequest assembles the /run_sse payload from an outgoing message.
func buildRunRequest(appName, userID string, msg Message) runRequest {
	var parts []part

	text := strings.TrimSpace(msg.Text)
	if text != "" {
		parts = append(parts, part{Text: msg.Text})
	}
	if msg.InlineData != nil {
		parts = append(parts, part{InlineData: msg.InlineData})
	}

	return runRequest{
		AppName:    appName,
		UserID:     userID,
		SessionID:  msg.SessionID,
		NewMessage: runMessage{Role: "user", Parts: parts},
		StateDelta: extractStateDelta(msg.Text),
		Streaming:  false,
	}
}

// extractStateDelta scans text for a vehicle id hint. First match wins; no
// match means no state delta.
func extractStateDelta(text string) map[string]string {
	if text == "" {
		return nil
	}

	m := vehicleIDPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	return map[string]string{"vehicle_id": m[1]}
}
