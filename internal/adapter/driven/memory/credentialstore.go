// Package memory implements driven ports that live only for the process lifetime.
package memory

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/model"
	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialStore)(nil)

const (
	// DefaultTTL is how long a key stays valid after issue or refresh.
	DefaultTTL = 30 * time.Minute
	// DefaultSweepInterval is how often Run evicts expired keys.
	DefaultSweepInterval = 5 * time.Minute

	secretBytes = 32
)

// CredentialStore keeps API keys in a mutex-guarded map keyed by the hex
// SHA-256 digest of the secret. Expiry is enforced lazily on lookup and by a
// periodic sweep started with Run.
type CredentialStore struct {
	mu            sync.Mutex
	records       map[string]model.CredentialRecord
	ttl           time.Duration
	sweepInterval time.Duration
	now           func() time.Time
	logger        *slog.Logger
}

// Option configures a CredentialStore.
type Option func(*CredentialStore)

// WithClock replaces time.Now. Used by tests to control expiry.
func WithClock(now func() time.Time) Option {
	return func(s *CredentialStore) { s.now = now }
}

// WithSweepInterval overrides DefaultSweepInterval.
func WithSweepInterval(d time.Duration) Option {
	return func(s *CredentialStore) {
		if d > 0 {
			s.sweepInterval = d
		}
	}
}

// WithLogger sets the logger used for sweep reports.
func WithLogger(logger *slog.Logger) Option {
	return func(s *CredentialStore) { s.logger = logger }
}

// NewCredentialStore creates an empty store whose keys live for ttl.
// A non-positive ttl falls back to DefaultTTL.
func NewCredentialStore(ttl time.Duration, opts ...Option) *CredentialStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &CredentialStore{
		records:       make(map[string]model.CredentialRecord),
		ttl:           ttl,
		sweepInterval: DefaultSweepInterval,
		now:           time.Now,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the lifetime granted on issue and refresh.
func (s *CredentialStore) TTL() time.Duration {
	return s.ttl
}

// Issue generates a 256-bit random secret, hex encoded, and stores it.
func (s *CredentialStore) Issue(upstream string) (model.IssuedKey, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return model.IssuedKey{}, fmt.Errorf("generate secret: %w", err)
	}
	secret := hex.EncodeToString(buf)

	plaintext := upstream
	if plaintext == "" {
		plaintext = secret
	}

	now := s.now()
	rec := model.CredentialRecord{
		SecretHash: HashSecret(secret),
		Plaintext:  plaintext,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}

	s.mu.Lock()
	s.records[rec.SecretHash] = rec
	s.mu.Unlock()

	s.logger.Info("api key stored", "key", ShortHash(rec.SecretHash))

	return model.IssuedKey{Secret: secret, ExpiresAt: rec.ExpiresAt, TTL: s.ttl}, nil
}

// Validate returns the plaintext for secret if the key exists and has not expired.
func (s *CredentialStore) Validate(secret string) (string, bool) {
	hash := HashSecret(secret)

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[hash]
	if !ok {
		return "", false
	}
	if !rec.ValidAt(s.now()) {
		delete(s.records, hash)
		return "", false
	}
	return rec.Plaintext, true
}

// Refresh extends a live key to now+TTL. Expired or missing keys are not revived.
func (s *CredentialStore) Refresh(secret string) bool {
	hash := HashSecret(secret)

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[hash]
	if !ok {
		return false
	}
	now := s.now()
	if !rec.ValidAt(now) {
		delete(s.records, hash)
		return false
	}
	rec.ExpiresAt = now.Add(s.ttl)
	s.records[hash] = rec
	return true
}

// Revoke deletes the key and reports whether it was present.
func (s *CredentialStore) Revoke(secret string) bool {
	hash := HashSecret(secret)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[hash]; !ok {
		return false
	}
	delete(s.records, hash)
	return true
}

// Count returns the number of stored keys.
func (s *CredentialStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Sweep deletes every key whose expiry is in the past and returns how many
// were removed.
func (s *CredentialStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for hash, rec := range s.records {
		if rec.ExpiresAt.Before(now) {
			delete(s.records, hash)
			removed++
			s.logger.Info("expired api key removed", "key", ShortHash(hash))
		}
	}
	return removed
}

// Run sweeps expired keys on every sweep interval. It blocks until ctx is
// canceled.
func (s *CredentialStore) Run(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("credential sweep stopped")
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Info("credential sweep complete", "removed", n)
			}
		}
	}
}

// HashSecret returns the hex SHA-256 digest of secret.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// ShortHash returns the first 8 characters of a digest, for logging.
func ShortHash(hash string) string {
	if len(hash) <= 8 {
		return hash
	}
	return hash[:8] + "..."
}
