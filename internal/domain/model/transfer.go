package model

import "time"

// Artifact is an exported file kept for download until ExpiresAt.
type Artifact struct {
	FileName    string
	ContentType string
	Content     []byte
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// PublishResult describes the outcome of a marketplace upload attached to an
// export. Exactly one of AssetID or Error is set.
type PublishResult struct {
	AssetID string
	Error   string
}

// Status is a point-in-time view of the server used by the status endpoint
// and the landing page.
type Status struct {
	Status  string
	Time    time.Time
	APIKeys int
	Uptime  time.Duration
	Port    string
	Version string
}
