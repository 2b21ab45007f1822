package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/sessionauth/logger"
)

const slowRequest = 500 * time.Millisecond

// Probe endpoints are not logged.
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// recorder remembers the first status written through it.
type recorder struct {
	http.ResponseWriter
	status int
}

func (r *recorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *recorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *recorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// RequestLogger logs method, path, status and duration of each request.
// 5xx log at error, 4xx at warn, the rest at debug.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			rec := &recorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			took := time.Since(start)
			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			fields := logger.Fields(
				"method", r.Method,
				logger.FieldPath, r.URL.Path,
				logger.FieldStatus, rec.status,
				logger.FieldDuration, took.Milliseconds(),
			)
			if took > slowRequest {
				fields["slow"] = true
			}
			l := log.WithContext(r.Context())
			switch {
			case rec.status >= http.StatusInternalServerError:
				l.Error("Request completed", fields)
			case rec.status >= http.StatusBadRequest:
				l.Warn("Request completed", fields)
			default:
				l.Debug("Request completed", fields)
			}
		})
	}
}
