package http

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/triage/pkg/utils/clock"
	"github.com/secmon-lab/triage/pkg/utils/logging"
	"github.com/secmon-lab/triage/pkg/utils/request_id"
)

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, reqID := request_id.Generate(r.Context())
		w.Header().Set("X-Request-ID", reqID)

		logger := logging.From(ctx).With("request_id", reqID)
		ctx = logging.With(ctx, logger)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		started := clock.Now(r.Context())

		next.ServeHTTP(sw, r)

		logging.From(r.Context()).Info("access",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"elapsed", time.Since(started).String(),
		)
	})
}

func panicRecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				panicErr := goerr.New("panic recovered",
					goerr.V("panic", fmt.Sprintf("%v", err)),
					goerr.V("stack", string(debug.Stack())),
					goerr.V("method", r.Method),
					goerr.V("path", r.URL.Path),
				)

				handleError(w, r, panicErr)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
