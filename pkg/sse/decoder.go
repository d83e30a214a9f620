// Package sse provides a minimal, purpose-built decoder for the
// newline-delimited SSE dialect spoken by the agent backend's /run_sse
// endpoint. Each record is a single line, optionally prefixed with "data:",
// whose remainder is a JSON payload.
//
// This package intentionally does NOT provide SSE writer or server
// capabilities, nor the full blank-line-delimited event grammar from the
// SSE specification — the backend emits one record per line.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

import (
	"bytes"
	"io"
	"strings"
)

// dataPrefix is the optional field label preceding a record payload.
const dataPrefix = "data:"

// Decoder extracts record payloads from a streamed response body.
//
// Bytes are buffered raw and only split at newline boundaries, so multi-byte
// UTF-8 sequences that span chunk boundaries are reassembled before any text
// handling happens. A trailing partial line at end of stream (no terminating
// newline) is dropped, never surfaced.
type Decoder struct {
	src io.Reader

	// buf accumulates raw bytes between reads until a full line is available.
	buf []byte

	// scratch is the fixed read buffer handed to src.Read.
	scratch []byte

	err  error
	done bool
}

// NewDecoder returns a Decoder reading records from src.
func NewDecoder(src io.Reader) *Decoder {
	return &Decoder{
		src:     src,
		scratch: make([]byte, 32*1024),
	}
}

// Next returns the payload of the next record in arrival order.
//
// Blank lines are skipped, and a leading "data:" label is stripped before the
// payload is trimmed and returned. Next returns io.EOF once the stream is
// exhausted; any other error comes from the underlying reader.
func (d *Decoder) Next() (string, error) {
	for {
		if payload, ok := d.nextBuffered(); ok {
			return payload, nil
		}

		if d.done {
			if d.err != nil {
				return "", d.err
			}
			return "", io.EOF
		}

		d.fill()
	}
}

// fill reads one chunk from the source into the line buffer.
func (d *Decoder) fill() {
	n, err := d.src.Read(d.scratch)
	if n > 0 {
		d.buf = append(d.buf, d.scratch[:n]...)
	}
	if err != nil {
		d.done = true
		if err != io.EOF {
			d.err = err
		}
	}
}

// nextBuffered extracts the next non-empty record payload from already
// buffered bytes. It reports false when no complete line remains, leaving any
// unterminated tail in place for the next fill (or to be dropped at EOF).
func (d *Decoder) nextBuffered() (string, bool) {
	for {
		line, rest, ok := cutLine(d.buf)
		if !ok {
			return "", false
		}
		d.buf = rest

		payload := strings.TrimSpace(line)
		if payload == "" {
			continue
		}
		if strings.HasPrefix(payload, dataPrefix) {
			payload = strings.TrimSpace(strings.TrimPrefix(payload, dataPrefix))
		}
		if payload == "" {
			continue
		}

		return payload, true
	}
}

// cutLine splits buf at the first newline, returning the line without its
// terminator and the remainder. ok is false when buf holds no complete line.
func cutLine(buf []byte) (line string, rest []byte, ok bool) {
	i := bytes.IndexByte(buf, '\n')
	if i < 0 {
		return "", buf, false
	}
	return string(buf[:i]), buf[i+1:], true
}
