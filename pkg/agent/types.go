package agent

import "encoding/json"

// Session is a server-side conversation context. The server owns all session
// state; this is a point-in-time snapshot from one round trip.
type Session struct {
	ID             string         `json:"id"`
	AppName        string         `json:"appName,omitempty"`
	UserID         string         `json:"userId,omitempty"`
	State          map[string]any `json:"state,omitempty"`
	LastUpdateTime float64        `json:"lastUpdateTime,omitempty"`
}

// Message is an outgoing chat message. At least one of Text or InlineData
// must be present, and SessionID must be non-empty.
type Message struct {
	// SessionID is the id of the server-side session to send on.
	SessionID string

	// Text is the user's message. Ignored when it trims to empty.
	Text string

	// InlineData is an opaque attachment blob (e.g. base64 media) passed
	// through to the agent verbatim.
	InlineData map[string]any
}

// part is one element of the newMessage parts sequence.
type part struct {
	Text       string         `json:"text,omitempty"`
	InlineData map[string]any `json:"inlineData,omitempty"`
}

// runMessage is the newMessage field of a run request.
type runMessage struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

// runRequest is the payload POSTed to /run_sse.
type runRequest struct {
	AppName    string            `json:"appName"`
	UserID     string            `json:"userId"`
	SessionID  string            `json:"sessionId"`
	NewMessage runMessage        `json:"newMessage"`
	StateDelta map[string]string `json:"stateDelta,omitempty"`
	Streaming  bool              `json:"streaming"`
}

// sseRecord is the decoded shape of one stream record. Content stays opaque:
// the backend defines its structure, the client only preserves order.
type sseRecord struct {
	Content json.RawMessage `json:"content"`
}
