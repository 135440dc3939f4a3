package httphandler

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ipLimiter gives each client IP a fixed budget of limit requests per
// window. The window starts at the client's first request and the budget is
// restored in full once it elapses.
type ipLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientWindow
	limit     int
	window    time.Duration
	lastPrune time.Time
	now       func() time.Time
}

// clientWindow is one client's budget. The limiter never refills, so its
// tokens only come back when the window is replaced.
type clientWindow struct {
	limiter *rate.Limiter
	resetAt time.Time
}

func newIPLimiter(limit int, window time.Duration) *ipLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &ipLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow reports whether ip may make a request now and consumes one unit of
// its budget if so. When the budget is spent it also returns how long until
// the window resets.
func (l *ipLimiter) Allow(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.pruneLocked(now)

	c, ok := l.clients[ip]
	if !ok || !now.Before(c.resetAt) {
		c = &clientWindow{
			limiter: rate.NewLimiter(0, l.limit),
			resetAt: now.Add(l.window),
		}
		l.clients[ip] = c
	}

	if c.limiter.AllowN(now, 1) {
		return true, 0
	}
	return false, c.resetAt.Sub(now)
}

// pruneLocked drops clients whose window has ended. A new window would be
// opened for them anyway.
func (l *ipLimiter) pruneLocked(now time.Time) {
	if now.Sub(l.lastPrune) < l.window {
		return
	}
	for ip, c := range l.clients {
		if !now.Before(c.resetAt) {
			delete(l.clients, ip)
		}
	}
	l.lastPrune = now
}

// clientIP returns the host part of the connection's remote address.
// Forwarding headers are ignored since any client can set them.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
