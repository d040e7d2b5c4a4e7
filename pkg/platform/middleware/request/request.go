// Package request provides middleware that stamps correlation metadata on
// every request context.
package request

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"sybilguard/pkg/requestcontext"
)

// HeaderRequestID is echoed on responses and honoured when supplied by a caller.
const HeaderRequestID = "X-Request-ID"

const maxRequestIDLen = 128

// RequestID assigns a request ID (reusing a sane inbound header) and
// echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderRequestID)
		if reqID == "" || len(reqID) > maxRequestIDLen {
			reqID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, reqID)
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
