package protocol

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Response is a structured wire response.
type Response struct {
	StatusCode int
	StatusText string
	Body       any               // JSON-serialized when non-nil
	Headers    map[string]string // extra headers, e.g. Location
}

// NewResponse creates a bodyless response.
func NewResponse(code int, text string) *Response {
	return &Response{StatusCode: code, StatusText: text}
}

// Serialize renders the response as wire bytes: status line, header lines,
// a blank line, then the body. A JSON body contributes Content-Length and
// Content-Type; Connection: close is always present, telling the transport
// to close after writing.
func (r *Response) Serialize() ([]byte, error) {
	headers := make(map[string]string, len(r.Headers)+3)
	for k, v := range r.Headers {
		headers[k] = v
	}

	var body string
	if r.Body != nil {
		encoded, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("serialize response body: %w", err)
		}
		body = string(encoded)
		headers["Content-Length"] = strconv.Itoa(len(encoded))
		headers["Content-Type"] = "application/json"
	}
	headers["Connection"] = "close"

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(headers)+3)
	lines = append(lines, fmt.Sprintf("HTTP/1.1 %d %s", r.StatusCode, r.StatusText))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, headers[k]))
	}
	lines = append(lines, "", body)

	return []byte(strings.Join(lines, "\r\n")), nil
}
