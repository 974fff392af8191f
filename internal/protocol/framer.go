// Package protocol implements the wire layer: an incremental framer that
// assembles one HTTP/1.1-subset request from a fragmented byte stream, and
// a response encoder. One request per connection; no chunked transfer, no
// pipelining.
package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"shortlink/internal/domain"
)

// headerTerminator separates the header block from the body.
var headerTerminator = []byte("\r\n\r\n")

// ErrIncomplete signals that the buffered bytes do not yet form a complete
// request. It is a retry signal, never surfaced to the wire: the caller
// feeds more bytes and asks again.
var ErrIncomplete = errors.New("incomplete request")

// Request is a fully parsed wire request.
type Request struct {
	Method  string
	Path    string
	Version string
	Headers map[string]string // keys case-folded to lowercase
	Body    string            // empty string when content-length is 0, not absent
}

// Framer accumulates raw bytes from one connection and parses them once a
// complete request is present. Already-buffered bytes are never consumed
// or discarded on an incomplete result.
type Framer struct {
	buf []byte
}

// Feed appends bytes received from the connection.
func (f *Framer) Feed(p []byte) {
	f.buf = append(f.buf, p...)
}

// Next attempts to parse the buffered bytes. It returns ErrIncomplete while
// the header terminator or declared body bytes are still missing, a
// domain.ErrMalformedRequest for a bad request line (terminal, not retried),
// or the complete request.
func (f *Framer) Next() (*Request, error) {
	sep := bytes.Index(f.buf, headerTerminator)
	if sep < 0 {
		return nil, ErrIncomplete
	}

	headerBlock := f.buf[:sep]
	bodyPart := f.buf[sep+len(headerTerminator):]

	lines := strings.Split(string(headerBlock), "\r\n")
	fields := strings.Fields(lines[0])
	if len(fields) != 3 {
		return nil, fmt.Errorf("%w: %q", domain.ErrMalformedRequest, lines[0])
	}

	headers := parseHeaders(lines[1:])

	length := contentLength(headers)
	if len(bodyPart) < length {
		return nil, ErrIncomplete
	}

	return &Request{
		Method:  fields[0],
		Path:    fields[1],
		Version: fields[2],
		Headers: headers,
		Body:    string(bodyPart[:length]),
	}, nil
}

// parseHeaders parses `key: value` lines. Keys are trimmed and lowercased,
// values trimmed. Blank lines and lines without a colon are ignored.
// Duplicate keys: last occurrence wins.
func parseHeaders(lines []string) map[string]string {
	headers := make(map[string]string, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		headers[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return headers
}

// contentLength reads the declared body length. Absent, non-numeric and
// negative values are treated as 0.
func contentLength(headers map[string]string) int {
	n, err := strconv.Atoi(headers["content-length"])
	if err != nil || n < 0 {
		return 0
	}
	return n
}
