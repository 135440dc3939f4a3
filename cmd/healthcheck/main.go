package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"
)

const defaultPort = "10000"

func main() {
	os.Exit(check())
}

func check() int {
	addr := normalizeAddr(os.Getenv("RELAY_LISTEN_ADDR"), os.Getenv("PORT"))

	client := &http.Client{Timeout: 2 * time.Second}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://%s/api/status", addr), nil)
	if err != nil {
		return 1
	}

	resp, err := client.Do(req)
	if err != nil {
		return 1
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 1
	}

	return 0
}

// normalizeAddr ensures the healthcheck connects to loopback rather than the
// bind-all address. The server binds every interface but the healthcheck
// runs inside the same container, so loopback is reachable and more correct.
// Without a listen address it falls back to port, as the server does.
func normalizeAddr(listenAddr, port string) string {
	if port == "" {
		port = defaultPort
	}
	if listenAddr == "" {
		listenAddr = ":" + port
	}

	host, p, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return net.JoinHostPort("127.0.0.1", port)
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, p)
}
