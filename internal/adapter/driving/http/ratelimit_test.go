package httphandler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPLimiter_FixedWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newIPLimiter(100, 15*time.Minute)
	l.now = func() time.Time { return now }

	for range 100 {
		ok, _ := l.Allow("1.2.3.4")
		require.True(t, ok)
	}

	now = now.Add(14 * time.Minute)
	allowed := 0
	for range 200 {
		if ok, _ := l.Allow("1.2.3.4"); ok {
			allowed++
		}
	}
	assert.Zero(t, allowed, "no budget comes back inside the window")

	ok, retryAfter := l.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retryAfter)

	now = now.Add(time.Minute)
	for range 100 {
		ok, _ := l.Allow("1.2.3.4")
		require.True(t, ok)
	}
	ok, _ = l.Allow("1.2.3.4")
	assert.False(t, ok)
}

func TestIPLimiter_WindowStartsAtFirstRequest(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newIPLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	ok, _ := l.Allow("1.2.3.4")
	require.True(t, ok)

	now = now.Add(50 * time.Second)
	ok, _ = l.Allow("1.2.3.4")
	require.True(t, ok)
	ok, retryAfter := l.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, 10*time.Second, retryAfter)

	// Another client's window is independent.
	ok, _ = l.Allow("5.6.7.8")
	assert.True(t, ok)
}

func TestIPLimiter_PrunesEndedWindows(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newIPLimiter(10, time.Minute)
	l.now = func() time.Time { return now }

	for i := range 5 {
		l.Allow(fmt.Sprintf("10.0.0.%d", i))
	}
	assert.Len(t, l.clients, 5)

	now = now.Add(2 * time.Minute)
	l.Allow("10.0.1.1")
	assert.Len(t, l.clients, 1)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, "192.0.2.7", clientIP(req))

	req.RemoteAddr = "bare"
	assert.Equal(t, "bare", clientIP(req))
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := recoveryMiddleware(logger, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body internalErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, msgInternal, body.Error)
	assert.Equal(t, "boom", body.Message)
}
