// Package httphandler is the HTTP driving adapter serving the relay's JSON API.
package httphandler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pczin9531-tech/robloximportexportserverm/internal/application"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	keys    *application.KeyService
	exports *application.ExportService
	imports *application.ImportService
	status  *application.StatusService
	logger  *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	keys *application.KeyService,
	exports *application.ExportService,
	imports *application.ImportService,
	status *application.StatusService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		keys:    keys,
		exports: exports,
		imports: imports,
		status:  status,
		logger:  logger,
	}
}

// RegisterAPIRoutes registers the JSON endpoints and the catch-all 404 on mux.
// The landing page registers "GET /{$}" separately, which takes precedence
// over the catch-all.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/status", h.Status)
	mux.HandleFunc("POST /api/key/generate", h.GenerateKey)
	mux.HandleFunc("POST /api/key/delete", h.DeleteKey)
	mux.HandleFunc("POST /api/export", h.Export)
	mux.HandleFunc("POST /api/import", h.Import)
	mux.HandleFunc("GET /download/{fileName}", h.Download)
	mux.HandleFunc("/", h.NotFound)
}

// NewServeMux creates an http.Handler with the API routes registered and
// wrapped with the middleware stack.
func NewServeMux(h *Handler, opts MiddlewareOptions, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, opts, logger)
}

// Status reports liveness, the active key count and uptime.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	s := h.status.Snapshot()
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:    s.Status,
		Timestamp: isoTime(s.Time),
		APIKeys:   s.APIKeys,
		Uptime:    s.Uptime.Seconds(),
		Port:      s.Port,
		Version:   s.Version,
	})
}

// NotFound answers every unmatched route.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, notFoundResponse{
		Success: false,
		Error:   msgNotFound,
		Path:    r.URL.Path,
	})
}

// decodeBody decodes the JSON request body into v. It writes the error
// response itself and reports whether the handler may continue.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	return decode(w, r, v, false)
}

// decodeOptionalBody is decodeBody for endpoints whose body may be empty.
func decodeOptionalBody(w http.ResponseWriter, r *http.Request, v any) bool {
	return decode(w, r, v, true)
}

func decode(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return false
		}
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return false
	}
	return true
}

// requestScheme returns the scheme the client used, honoring a proxy's
// X-Forwarded-Proto header.
func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func secondsOf(d time.Duration) int64 {
	return int64(d / time.Second)
}
