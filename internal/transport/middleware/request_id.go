package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lexiguard/lexiguard-backend/pkg/ctxutil"
)

// RequestIDHeader is the header carrying the request correlation id.
const RequestIDHeader = "X-Request-Id"

// RequestID returns middleware that reuses the incoming request id or
// generates a new one, storing it in the context and echoing it back.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}
			ctx := ctxutil.WithRequestID(r.Context(), id)
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
