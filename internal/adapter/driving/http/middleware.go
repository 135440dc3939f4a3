package httphandler

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/cors"
)

// MiddlewareOptions configures the request limits applied around the mux.
type MiddlewareOptions struct {
	// MaxBodyBytes caps request bodies. Zero disables the cap.
	MaxBodyBytes int64
	// RateLimit is the number of requests a client IP may make per RateWindow.
	// Zero disables rate limiting.
	RateLimit  int
	RateWindow time.Duration
}

// ApplyMiddleware wraps next with, from outermost: request logging, CORS,
// per-IP rate limiting, the body size cap and panic recovery.
func ApplyMiddleware(next http.Handler, opts MiddlewareOptions, logger *slog.Logger) http.Handler {
	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, next)
	if opts.MaxBodyBytes > 0 {
		wrapped = bodyLimitMiddleware(opts.MaxBodyBytes, wrapped)
	}
	if opts.RateLimit > 0 {
		wrapped = rateLimitMiddleware(newIPLimiter(opts.RateLimit, opts.RateWindow), wrapped)
	}
	wrapped = cors.AllowAll().Handler(wrapped)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// statusWriter wraps http.ResponseWriter to capture the response status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the embedded writer.
func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs each HTTP request with method, path, status, and duration.
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

// recoveryMiddleware recovers from panics in HTTP handlers, logs the error,
// and returns a 500 response.
func recoveryMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.Error("panic recovered",
					"panic", v,
					"path", r.URL.Path,
				)
				writeJSON(w, http.StatusInternalServerError, internalErrorResponse{
					Success: false,
					Error:   msgInternal,
					Message: fmt.Sprint(v),
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// bodyLimitMiddleware caps the request body. Handlers see *http.MaxBytesError
// when they read past the limit.
func bodyLimitMiddleware(limit int64, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > limit {
			writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware rejects requests from clients that exhausted their
// budget, telling them when their window resets.
func rateLimitMiddleware(limiter *ipLimiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ok, retryAfter := limiter.Allow(clientIP(r)); !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			writeError(w, http.StatusTooManyRequests, msgTooManyRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
}
