package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/brightdev/amazon-search-api/internal/monitoring"
)

// Recoverer converts handler panics into the JSON error contract instead of
// chi's plain-text 500. Outside production the stack trace is appended to the
// error message.
func Recoverer(logger *slog.Logger, metrics *monitoring.Metrics, production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}

					metrics.IncErrorsTotal("internal")
					logger.Error("handler panicked", "error", rvr, "path", r.URL.Path)

					message := fmt.Sprintf("Internal server error: %v", rvr)
					if !production {
						message = fmt.Sprintf("%s\n%s", message, debug.Stack())
					}

					w.Header().Set("Content-Type", "application/json")
					w.Header().Set("Access-Control-Allow-Origin", "*")
					w.WriteHeader(http.StatusInternalServerError)
					if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
						logger.Error("failed to encode panic response", "error", err)
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
