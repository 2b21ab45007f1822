package middleware

import (
	"net/http"

	"github.com/kbukum/sessionauth/util"
)

// BodySizeLimit caps request bodies at maxSize ("1MB", "512KB"); anything
// unparseable means 1MB. Reads past the cap fail, so form parsing errors.
func BodySizeLimit(maxSize string) Middleware {
	limit := util.ParseSize(maxSize, 1<<20)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
