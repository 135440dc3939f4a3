package model

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when an API key is unknown or expired.
var ErrUnauthorized = errors.New("api key invalid or expired")

// MissingFieldError reports a required request field that was absent or empty.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field(s): %v", e.Fields)
}

// ParseError reports a scene document that could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse scene: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidSourceError reports an import source kind or value that cannot be used.
type InvalidSourceError struct {
	Source string
	Reason string
}

func (e *InvalidSourceError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid import source %q: use url, assetId or file", e.Source)
	}
	return fmt.Sprintf("invalid import source %q: %s", e.Source, e.Reason)
}

// UpstreamError reports a failed call to the upstream platform. StatusCode is
// zero when no HTTP response was received.
type UpstreamError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("upstream request failed: %s", e.Message)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
