package web_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pczin9531-tech/robloximportexportserverm/internal/adapter/driven/memory"
	"github.com/pczin9531-tech/robloximportexportserverm/internal/adapter/driving/web"
	"github.com/pczin9531-tech/robloximportexportserverm/internal/application"
)

func setupMux(t *testing.T, keys int, startedAgo time.Duration) *http.ServeMux {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewCredentialStore(memory.DefaultTTL)
	for range keys {
		_, err := store.Issue("")
		require.NoError(t, err)
	}
	keySvc := application.NewKeyService(store, logger)
	statusSvc := application.NewStatusService(keySvc, "10000", time.Now().Add(-startedAgo))

	mux := http.NewServeMux()
	web.RegisterRoutes(mux, web.NewHandler(statusSvc, logger))
	return mux
}

func TestLanding(t *testing.T) {
	mux := setupMux(t, 3, 2*time.Hour+5*time.Minute+30*time.Second)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "<title>Roblox Import/Export Server</title>")
	assert.Contains(t, body, "SERVER ONLINE")
	assert.Contains(t, body, `<span class="stat-value">3</span>`)
	assert.Contains(t, body, `<span class="stat-value">2h 5m</span>`)
	assert.Contains(t, body, `<span class="stat-value">10000</span>`)
	assert.Contains(t, body, "Versão: "+application.Version)
}

func TestLanding_RendersEndpointDocs(t *testing.T) {
	mux := setupMux(t, 0, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "<code>POST /api/key/generate</code>")
	assert.Contains(t, body, "<code>POST /api/export</code>")
	assert.Contains(t, body, "<pre>")
	assert.NotContains(t, body, "```")
}

func TestLanding_OnlyRoot(t *testing.T) {
	mux := setupMux(t, 0, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStaticAssets(t *testing.T) {
	mux := setupMux(t, 0, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/static/style.css", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".stat-card")
}
