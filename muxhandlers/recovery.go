package muxhandlers

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/vitalvas/frontctl/mux"
	"github.com/vitalvas/frontctl/request"
)

// RecoveryConfig configures the Recovery middleware behaviour.
type RecoveryConfig struct {
	// Logger receives one error record per recovered panic. When nil,
	// slog.Default() is used.
	Logger *slog.Logger

	// Stack includes the goroutine stack trace in the log record.
	Stack bool
}

// RecoveryMiddleware returns a middleware that recovers from panics in
// downstream handlers. When a panic occurs it logs the route, method and
// request ID of the captured request and returns 500 Internal Server Error.
// http.ErrAbortHandler is re-raised so the server can abort the response.
func RecoveryMiddleware(cfg RecoveryConfig) mux.MiddlewareFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	withStack := cfg.Stack

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}

				attrs := []any{slog.Any("panic", err)}
				if req := mux.Current(r); req != nil {
					attrs = append(attrs,
						slog.String("route", req.Route()),
						slog.String("method", req.Method()),
						slog.String("unique_id", req.Server(request.KeyUniqueID, "")),
					)
				} else {
					attrs = append(attrs,
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
					)
				}
				if withStack {
					attrs = append(attrs, slog.String("stack", string(debug.Stack())))
				}

				logger.ErrorContext(r.Context(), "panic recovered", attrs...)

				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
