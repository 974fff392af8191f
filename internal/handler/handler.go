// Package handler routes parsed requests to the shorten and resolve use
// cases and maps their outcomes to wire responses.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"shortlink/internal/domain"
	"shortlink/internal/protocol"
	"shortlink/internal/service"
	"shortlink/pkg/logger"
)

// HandlerFunc processes one parsed request into a response.
type HandlerFunc func(ctx context.Context, req *protocol.Request) *protocol.Response

type routeKey struct {
	method string
	path   string
}

// Router dispatches requests through a table built once at startup.
// Exact-match entries are checked before the wildcard GET-as-resolve
// fallback.
type Router struct {
	routes  map[routeKey]HandlerFunc
	service service.Shortener
	logger  *logger.Logger
}

// NewRouter builds the dispatch table.
func NewRouter(svc service.Shortener, log *logger.Logger) *Router {
	r := &Router{
		service: svc,
		logger:  log,
	}
	r.routes = map[routeKey]HandlerFunc{
		{method: "POST", path: "/shorten"}: r.handleShorten,
	}
	return r
}

// Dispatch finds a handler for the request. Unmatched requests other than
// the GET resolve fallback get a 404.
func (r *Router) Dispatch(ctx context.Context, req *protocol.Request) *protocol.Response {
	if h, ok := r.routes[routeKey{method: req.Method, path: req.Path}]; ok {
		return h(ctx, req)
	}
	if req.Method == "GET" && strings.HasPrefix(req.Path, "/") {
		return r.handleResolve(ctx, req)
	}
	return protocol.NewResponse(404, "Not Found")
}

// handleShorten handles POST /shorten: extract the url field from the JSON
// body, allocate a code, answer 201.
func (r *Router) handleShorten(ctx context.Context, req *protocol.Request) *protocol.Response {
	if req.Body == "" {
		return errorResponse(400, "Bad Request", "Empty request body")
	}

	var payload domain.ShortenRequest
	if err := json.Unmarshal([]byte(req.Body), &payload); err != nil {
		r.logger.Warn("Invalid request body", "error", err)
		return errorResponse(400, "Bad Request", "Invalid JSON format")
	}
	if payload.URL == "" {
		return errorResponse(400, "Bad Request", "URL parameter is required")
	}

	code, err := r.service.Shorten(ctx, payload.URL)
	if err != nil {
		return r.errorToResponse(err)
	}

	return &protocol.Response{
		StatusCode: 201,
		StatusText: "Created",
		Body:       domain.ShortenResponse{ShortURL: code},
	}
}

// handleResolve treats the path minus its leading slash as a code and
// answers 302 with a Location header, or 404.
func (r *Router) handleResolve(ctx context.Context, req *protocol.Request) *protocol.Response {
	code := strings.TrimPrefix(req.Path, "/")

	fullURL, err := r.service.Resolve(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrURLNotFound) {
			return protocol.NewResponse(404, "Not Found")
		}
		return r.errorToResponse(err)
	}

	return &protocol.Response{
		StatusCode: 302,
		StatusText: "Found",
		Headers:    map[string]string{"Location": fullURL},
	}
}

// errorToResponse maps service errors to wire responses. Internal faults
// are logged with their cause but answered with a generic message.
func (r *Router) errorToResponse(err error) *protocol.Response {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal {
			r.logger.Error("Internal server error", "error", appErr.Err)
			return errorResponse(appErr.StatusCode, statusText(appErr.StatusCode), "Internal server error")
		}
		return errorResponse(appErr.StatusCode, statusText(appErr.StatusCode), appErr.Message)
	}

	if errors.Is(err, domain.ErrURLNotFound) {
		return protocol.NewResponse(404, "Not Found")
	}

	r.logger.Error("Unexpected error", "error", err)
	return errorResponse(500, "Internal Server Error", "Internal server error")
}

func errorResponse(code int, text, message string) *protocol.Response {
	return &protocol.Response{
		StatusCode: code,
		StatusText: text,
		Body:       domain.ErrorResponse{Error: message},
	}
}

func statusText(code int) string {
	switch code {
	case 400:
		return "Bad Request"
	case 404:
		return "Not Found"
	case 429:
		return "Too Many Requests"
	case 500:
		return "Internal Server Error"
	default:
		return "Error"
	}
}
