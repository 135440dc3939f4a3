// Package web implements the HTML landing page driving adapter using templ components.
package web

import (
	"log/slog"
	"net/http"

	"github.com/pczin9531-tech/robloximportexportserverm/internal/adapter/driving/web/templates"
	"github.com/pczin9531-tech/robloximportexportserverm/internal/adapter/driving/web/templates/pages"
	"github.com/pczin9531-tech/robloximportexportserverm/internal/application"
)

// Handler is the web driving adapter that serves HTML via templ components.
type Handler struct {
	statusSvc     *application.StatusService
	endpointsHTML string
	logger        *slog.Logger
}

// NewHandler creates a Handler. The endpoint reference is rendered once here;
// if that fails the page is served without it.
func NewHandler(statusSvc *application.StatusService, logger *slog.Logger) *Handler {
	endpointsHTML, err := renderEndpointDocs(endpointsDoc)
	if err != nil {
		logger.Error("failed to render endpoint docs", "error", err)
	}
	return &Handler{
		statusSvc:     statusSvc,
		endpointsHTML: endpointsHTML,
		logger:        logger,
	}
}

// Landing renders the status page with the full HTML layout.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	component := pages.Landing(toLandingViewModel(h.statusSvc.Snapshot(), h.endpointsHTML))
	layout := templates.Layout(pageTitle, component)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := layout.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render landing page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
