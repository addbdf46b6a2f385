package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/marlowpress/storefront-backend/pkg/logger"
)

// HeaderRequestID carries the correlation id the order API echoes back, so
// storefront client traces and server logs line up per request.
const HeaderRequestID = "X-Request-Id"

const maxRequestIDLength = 128

// RequestID tags every request with a correlation id. A usable inbound id is
// honored; anything absent, oversized, or unprintable is replaced with a
// fresh uuid. The id is echoed on the response and attached to the
// request-scoped logger.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := inboundRequestID(r)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, id)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// inboundRequestID returns the caller-supplied id, or "" when it is not safe
// to log verbatim.
func inboundRequestID(r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get(HeaderRequestID))
	if id == "" || len(id) > maxRequestIDLength {
		return ""
	}
	for _, c := range id {
		if c <= ' ' || c > '~' {
			return ""
		}
	}
	return id
}
