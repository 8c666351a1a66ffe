package mw

import (
	"net/http"

	"github.com/TwigBush/uma-go/internal/trace"
)

// Trace assigns every request a trace ID, honoring one supplied by the
// caller, and echoes it on the response.
func Trace() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(trace.Header)
			if id == "" {
				id = trace.NewID()
			}
			w.Header().Set(trace.Header, id)
			next.ServeHTTP(w, r.WithContext(trace.With(r.Context(), id)))
		})
	}
}
