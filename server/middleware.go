package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/YuminosukeSato/salarygo/pkg/errors"
	"github.com/YuminosukeSato/salarygo/pkg/log"
)

// requestLogger logs one line per request with its status and duration.
func requestLogger(logger log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("Request handled",
				log.HTTPMethodKey, r.Method,
				log.HTTPPathKey, r.URL.Path,
				log.HTTPStatusKey, ww.Status(),
				log.RequestIDKey, middleware.GetReqID(r.Context()),
				log.DurationMsKey, time.Since(start).Milliseconds(),
			)
		})
	}
}

// recoverJSON answers 500 with a JSON error body when a handler panics.
func recoverJSON(logger log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					panicErr := errors.NewPanicError(r.URL.Path, v)
					logger.Error("Handler panicked", panicErr, log.HTTPPathKey, r.URL.Path)
					writeJSON(w, http.StatusInternalServerError, errorResponse{Error: panicErr.Error()})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
