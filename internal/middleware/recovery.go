package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// recoveryWriter tracks whether any part of the response reached the
// client; once it has, the panic handler must not write a second status.
type recoveryWriter struct {
	http.ResponseWriter
	wrote bool
}

func (rw *recoveryWriter) WriteHeader(code int) {
	rw.wrote = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recoveryWriter) Write(b []byte) (int, error) {
	rw.wrote = true
	return rw.ResponseWriter.Write(b)
}

func (rw *recoveryWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &recoveryWriter{ResponseWriter: w}

			defer func() {
				v := recover()
				if v == nil {
					return
				}

				logger.Error("panic recovered",
					"error", v,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				if !rw.wrote {
					writePanicResponse(rw, logger)
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}

func writePanicResponse(w http.ResponseWriter, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	body := map[string]any{
		"error": map[string]string{
			"code":    "INTERNAL_ERROR",
			"message": "internal server error",
		},
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to write recovery response", "error", err)
	}
}
