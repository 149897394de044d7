package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/applytrack/applytrack/pkg/requestid"
)

const RequestIDHeader = "X-Request-Id"

// RequestID reuses the caller's request id or chi's, generating one otherwise.
// The id is stored in the context and echoed back in the response headers.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)

		if requestID == "" {
			requestID = middleware.GetReqID(r.Context())
		}

		if requestID == "" {
			requestID = requestid.Generate()
		}

		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(requestid.ToContext(r.Context(), requestID)))
	})
}
