package middlewares

import (
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/polyglot/internal"
	"github.com/dmitrymomot/polyglot/pkg/logger"
)

// RequestIDHeader carries the request id on responses.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen bounds ids accepted from upstream proxies.
const maxRequestIDLen = 128

type requestIDKey struct{}

type requestIDOptions struct {
	trusted []string
	newID   func() string
}

// RequestIDOption configures RequestID.
type RequestIDOption func(*requestIDOptions)

// WithTrustedRequestIDHeaders sets the inbound headers an upstream id is
// taken from, in priority order. Default: X-Request-ID, X-Correlation-ID.
// Pass none to always generate.
func WithTrustedRequestIDHeaders(headers ...string) RequestIDOption {
	return func(o *requestIDOptions) { o.trusted = headers }
}

// WithRequestIDGenerator replaces uuid.NewString.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(o *requestIDOptions) {
		if gen != nil {
			o.newID = gen
		}
	}
}

// RequestID tags every request with an id: the first well-formed upstream
// value or a generated one. The id is echoed in X-Request-ID, carried by
// JSONErrors bodies, and added to log records by RequestIDExtractor.
//
// Upstream values longer than 128 bytes or containing anything but
// printable ASCII are ignored.
func RequestID(opts ...RequestIDOption) internal.Middleware {
	o := requestIDOptions{
		trusted: []string{RequestIDHeader, "X-Correlation-ID"},
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			id := upstreamRequestID(c, o.trusted)
			if id == "" {
				id = o.newID()
			}
			c.Set(requestIDKey{}, id)
			c.SetHeader(RequestIDHeader, id)
			return next(c)
		}
	}
}

func upstreamRequestID(c internal.Context, headers []string) string {
	for _, h := range headers {
		if id := strings.TrimSpace(c.Header(h)); validRequestID(id) {
			return id
		}
	}
	return ""
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetRequestID returns the request id, or "" outside RequestID.
func GetRequestID(c internal.Context) string {
	return internal.ContextValue[string](c, requestIDKey{})
}

// RequestIDExtractor adds "request_id" to log records.
func RequestIDExtractor() logger.ContextExtractor {
	return logger.StringValue("request_id", requestIDKey{})
}
