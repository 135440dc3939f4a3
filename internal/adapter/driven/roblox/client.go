// Package roblox implements the AssetGateway port against the Roblox upload
// and asset-delivery endpoints.
package roblox

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/gregjones/httpcache"

	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/model"
	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AssetGateway = (*Client)(nil)

const (
	// DefaultUploadURL is the legacy data upload endpoint.
	DefaultUploadURL = "https://data.roblox.com/Data/Upload.ashx"
	// DefaultAssetDeliveryURL serves asset bytes by numeric id.
	DefaultAssetDeliveryURL = "https://assetdelivery.roblox.com/v1/asset/"

	// DefaultTimeout bounds every upstream call.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxBytes caps a fetched or uploaded payload.
	DefaultMaxBytes int64 = 50 << 20

	sessionCookie = ".ROBLOSECURITY"
	genreTypeID   = "1"
)

// Config holds the upstream endpoints and limits.
type Config struct {
	UploadURL        string
	AssetDeliveryURL string
	Timeout          time.Duration
	MaxBytes         int64
	// CacheMaxBytes bounds the response cache.
	CacheMaxBytes int64
}

func (c Config) withDefaults() Config {
	if c.UploadURL == "" {
		c.UploadURL = DefaultUploadURL
	}
	if c.AssetDeliveryURL == "" {
		c.AssetDeliveryURL = DefaultAssetDeliveryURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = DefaultMaxBytes
	}
	if c.CacheMaxBytes <= 0 {
		c.CacheMaxBytes = DefaultCacheMaxBytes
	}
	return c
}

// Client implements driven.AssetGateway over HTTP.
type Client struct {
	http *http.Client
	cfg  Config
}

// NewClient creates a Client with the following transport stack:
//  1. httpcache over an LRUCache capped at cfg.CacheMaxBytes (ETag-based
//     conditional caching of asset downloads)
//  2. go-github-ratelimit (sleeps on 429/Retry-After instead of failing)
func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()

	cacheTransport := httpcache.NewTransport(NewLRUCache(cfg.CacheMaxBytes))
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	rateLimitClient.Timeout = cfg.Timeout

	return &Client{http: rateLimitClient, cfg: cfg}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, cfg Config) *Client {
	return &Client{http: httpClient, cfg: cfg.withDefaults()}
}

// Upload posts file as multipart form data with the session cookie and
// returns the asset id from the response body.
func (c *Client) Upload(ctx context.Context, credential string, file []byte, assetType, name, description string) (string, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", name+".rbxm")
	if err != nil {
		return "", &model.UpstreamError{Message: "build upload form", Err: err}
	}
	if _, err := part.Write(file); err != nil {
		return "", &model.UpstreamError{Message: "build upload form", Err: err}
	}
	if err := mw.Close(); err != nil {
		return "", &model.UpstreamError{Message: "build upload form", Err: err}
	}

	u, err := url.Parse(c.cfg.UploadURL)
	if err != nil {
		return "", &model.UpstreamError{Message: "invalid upload url", Err: err}
	}
	q := u.Query()
	q.Set("assetType", assetType)
	q.Set("name", name)
	q.Set("description", description)
	q.Set("genreTypeId", genreTypeID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), body)
	if err != nil {
		return "", &model.UpstreamError{Message: "create upload request", Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Cookie", sessionCookie+"="+credential)

	respBody, err := c.do(req)
	if err != nil {
		return "", err
	}

	assetID := strings.TrimSpace(string(respBody))
	if assetID == "" {
		return "", &model.UpstreamError{StatusCode: http.StatusOK, Message: "upload response carried no asset id"}
	}

	slog.Debug("roblox upload complete", "asset_id", assetID, "bytes", len(file))
	return assetID, nil
}

// Fetch returns bytes from a URL, an asset id, or an inline base64 payload.
func (c *Client) Fetch(ctx context.Context, source model.ImportSource, value string) ([]byte, error) {
	switch source {
	case model.SourceURL:
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, &model.InvalidSourceError{Source: string(source), Reason: "sourceValue must be an http(s) URL"}
		}
		return c.get(ctx, u.String())

	case model.SourceAssetID:
		if !isDigits(value) {
			return nil, &model.InvalidSourceError{Source: string(source), Reason: "sourceValue must be a numeric asset id"}
		}
		u, err := url.Parse(c.cfg.AssetDeliveryURL)
		if err != nil {
			return nil, &model.UpstreamError{Message: "invalid asset delivery url", Err: err}
		}
		q := u.Query()
		q.Set("id", value)
		u.RawQuery = q.Encode()
		return c.get(ctx, u.String())

	case model.SourceFile:
		data, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil, &model.InvalidSourceError{Source: string(source), Reason: "sourceValue is not valid base64"}
		}
		if int64(len(data)) > c.cfg.MaxBytes {
			return nil, &model.InvalidSourceError{Source: string(source), Reason: "payload too large"}
		}
		return data, nil

	default:
		return nil, &model.InvalidSourceError{Source: string(source)}
	}
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &model.UpstreamError{Message: "create request", Err: err}
	}
	return c.do(req)
}

// do sends req and returns the body of a 2xx response. Anything else is an
// *model.UpstreamError carrying the status and a snippet of the body.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &model.UpstreamError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBytes+1))
	if err != nil {
		return nil, &model.UpstreamError{StatusCode: resp.StatusCode, Message: "read response body", Err: err}
	}
	if int64(len(body)) > c.cfg.MaxBytes {
		return nil, &model.UpstreamError{StatusCode: resp.StatusCode, Message: "response exceeds size limit"}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.UpstreamError{StatusCode: resp.StatusCode, Message: upstreamMessage(resp.Status, body)}
	}

	slog.Debug("upstream call", "method", req.Method, "host", req.URL.Host, "status", resp.StatusCode, "bytes", len(body))
	return body, nil
}

// upstreamMessage prefers a short response body over the bare status text.
func upstreamMessage(status string, body []byte) string {
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return status
	}
	const limit = 200
	if len(msg) > limit {
		msg = msg[:limit] + "..."
	}
	return fmt.Sprintf("%s: %s", status, msg)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
