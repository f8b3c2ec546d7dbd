package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/phrazzld/account-api/internal/redact"
)

// Media types written by the responders.
const (
	ContentTypeJSON  = "application/json"
	ContentTypeHAL   = "application/hal+json"
	ContentTypePlain = "text/plain"
)

// MessageList is the {"messages": [...]} envelope shared by error and info bodies.
type MessageList struct {
	Messages []string `json:"messages"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error MessageList `json:"error"`
	Code  int         `json:"-"`
}

// InfoResponse carries informational messages for successful requests.
type InfoResponse struct {
	Info MessageList `json:"info"`
}

// ResponseOption defines a function to customize response behavior.
type ResponseOption func(*responseOptions)

// responseOptions holds configurable options for error responses.
type responseOptions struct {
	elevateLogLevel bool
}

// WithElevatedLogLevel logs 4xx responses at WARN instead of DEBUG.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	RespondWithContentType(w, r, status, ContentTypeJSON, data)
}

// RespondWithContentType encodes data as JSON under the given media type.
func RespondWithContentType(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	contentType string,
	data interface{},
) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithInfo writes {"info":{"messages":[...]}}.
func RespondWithInfo(w http.ResponseWriter, r *http.Request, status int, messages ...string) {
	RespondWithJSON(w, r, status, InfoResponse{Info: MessageList{Messages: nonNil(messages)}})
}

// RespondWithMessages writes a bare {"messages":[...]} body. The negotiation
// gate answers in this shape.
func RespondWithMessages(w http.ResponseWriter, r *http.Request, status int, messages ...string) {
	logger.FromContext(r.Context()).Debug("sending messages response",
		"status_code", status,
		"messages", messages,
		"trace_id", GetTraceID(r.Context()),
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, MessageList{Messages: nonNil(messages)})
}

// RespondNoContent writes an empty response with a text/plain content type.
func RespondNoContent(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", ContentTypePlain)
	w.WriteHeader(status)
}

// RespondWithError writes {"error":{"messages":[...]}}. The trace ID travels in
// the TraceIDHeader response header, never in the body.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, messages ...string) {
	traceID := GetTraceID(r.Context())

	logger.FromContext(r.Context()).Debug("sending error response",
		"status_code", status,
		"messages", messages,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, ErrorResponse{
		Error: MessageList{Messages: nonNil(messages)},
		Code:  status,
	})
}

// RespondWithErrorAndLog writes userMessage to the client and logs err, redacted,
// next to it. The raw error never reaches the response body.
//
// 5xx responses log at ERROR, 429 at WARN and everything else at DEBUG unless
// WithElevatedLogLevel is passed.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
	opts ...ResponseOption,
) {
	traceID := GetTraceID(r.Context())

	attrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	var options responseOptions
	for _, opt := range opts {
		opt(&options)
	}

	level := slog.LevelDebug
	switch {
	case status >= http.StatusInternalServerError:
		level = slog.LevelError
	case status == http.StatusTooManyRequests:
		level = slog.LevelWarn
	case options.elevateLogLevel && status >= http.StatusBadRequest:
		level = slog.LevelWarn
	}
	logger.FromContext(r.Context()).LogAttrs(r.Context(), level, "API error response", attrs...)

	RespondWithJSON(w, r, status, ErrorResponse{
		Error: MessageList{Messages: []string{userMessage}},
		Code:  status,
	})
}

func nonNil(messages []string) []string {
	if messages == nil {
		return []string{}
	}
	return messages
}
