package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/user/crawler-console/pkg/utils"
)

// Trace reuses the caller's X-Trace-ID or mints one, echoes it on the
// response and stores it in the context for the backend client to forward.
func Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(utils.TraceIDHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.NewString()
		}
		w.Header().Set(utils.TraceIDHeader, traceID)
		next.ServeHTTP(w, r.WithContext(utils.WithTraceID(r.Context(), traceID)))
	})
}
