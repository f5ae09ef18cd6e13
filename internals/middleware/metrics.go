package middle

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type MetricsRecorder interface {
	Observe(method, route string, status int, duration time.Duration)
}

// Metrics records every request under its chi route pattern, not the raw path,
// so ids in the URL do not explode label cardinality.
func Metrics(recorder MetricsRecorder) Middleware {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			recorder.Observe(r.Method, route, status, time.Since(start))
		}
		return http.HandlerFunc(fn)
	}
}
