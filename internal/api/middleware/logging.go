package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// accessWriter captures the status and byte count of one response for
// the access log line.
type accessWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *accessWriter) WriteHeader(statusCode int) {
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *accessWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

// RequestLogging writes one access log line per request through the
// request-scoped logger, so the correlation id attached upstream is
// part of every line.
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		writer := &accessWriter{ResponseWriter: w}

		next.ServeHTTP(writer, r)

		zerolog.Ctx(r.Context()).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", writer.status).
			Int("bytes", writer.bytes).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
