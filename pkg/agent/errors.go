package agent

import "errors"

var (
	// ErrMissingSessionID is returned before any network I/O when an outgoing
	// message carries no session id.
	ErrMissingSessionID = errors.New("missing session id")

	// ErrEmptyMessage is returned before any network I/O when an outgoing
	// message has neither text nor inline data.
	ErrEmptyMessage = errors.New("message has no text or inline data")

	// ErrNoStream is returned when the backend accepted a streaming request
	// but produced no readable response body.
	ErrNoStream = errors.New("streaming not supported by server response")
)
