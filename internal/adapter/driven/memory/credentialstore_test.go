package memory

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(t *testing.T) (*CredentialStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCredentialStore(30*time.Minute, WithClock(clock.Now), WithLogger(logger)), clock
}

func TestCredentialStore_IssueAndValidate(t *testing.T) {
	store, clock := newTestStore(t)

	key, err := store.Issue("")
	require.NoError(t, err)
	assert.Len(t, key.Secret, 64)
	assert.Equal(t, clock.Now().Add(30*time.Minute), key.ExpiresAt)
	assert.Equal(t, 30*time.Minute, key.TTL)

	plaintext, ok := store.Validate(key.Secret)
	require.True(t, ok)
	assert.Equal(t, key.Secret, plaintext)
}

func TestCredentialStore_IssueWrapsUpstreamCredential(t *testing.T) {
	store, _ := newTestStore(t)

	key, err := store.Issue("upstream-cookie")
	require.NoError(t, err)

	plaintext, ok := store.Validate(key.Secret)
	require.True(t, ok)
	assert.Equal(t, "upstream-cookie", plaintext)
}

func TestCredentialStore_IssueProducesDistinctSecrets(t *testing.T) {
	store, _ := newTestStore(t)

	a, err := store.Issue("")
	require.NoError(t, err)
	b, err := store.Issue("")
	require.NoError(t, err)

	assert.NotEqual(t, a.Secret, b.Secret)
	assert.Equal(t, 2, store.Count())
}

func TestCredentialStore_StoredByDigestOnly(t *testing.T) {
	store, _ := newTestStore(t)

	key, err := store.Issue("")
	require.NoError(t, err)

	store.mu.Lock()
	defer store.mu.Unlock()
	_, bySecret := store.records[key.Secret]
	_, byHash := store.records[HashSecret(key.Secret)]
	assert.False(t, bySecret)
	assert.True(t, byHash)
}

func TestCredentialStore_ExpiresAfterTTL(t *testing.T) {
	store, clock := newTestStore(t)

	key, err := store.Issue("")
	require.NoError(t, err)

	clock.Advance(30 * time.Minute)
	_, ok := store.Validate(key.Secret)
	assert.True(t, ok, "key is valid at its expiry instant")

	clock.Advance(time.Millisecond)
	_, ok = store.Validate(key.Secret)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Count(), "expired key is deleted on lookup")
}

func TestCredentialStore_RefreshSlidesExpiry(t *testing.T) {
	store, clock := newTestStore(t)

	key, err := store.Issue("")
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)
	require.True(t, store.Refresh(key.Secret))

	clock.Advance(30*time.Minute - time.Second)
	plaintext, ok := store.Validate(key.Secret)
	require.True(t, ok)
	assert.Equal(t, key.Secret, plaintext)
}

func TestCredentialStore_RefreshDoesNotReviveExpired(t *testing.T) {
	store, clock := newTestStore(t)

	key, err := store.Issue("")
	require.NoError(t, err)

	clock.Advance(31 * time.Minute)
	assert.False(t, store.Refresh(key.Secret))

	_, ok := store.Validate(key.Secret)
	assert.False(t, ok)
}

func TestCredentialStore_Revoke(t *testing.T) {
	store, _ := newTestStore(t)

	assert.False(t, store.Revoke("unknown"))

	key, err := store.Issue("")
	require.NoError(t, err)

	assert.True(t, store.Revoke(key.Secret))
	_, ok := store.Validate(key.Secret)
	assert.False(t, ok)
	assert.False(t, store.Revoke(key.Secret))
	assert.False(t, store.Refresh(key.Secret))
}

func TestCredentialStore_Sweep(t *testing.T) {
	store, clock := newTestStore(t)

	old, err := store.Issue("")
	require.NoError(t, err)
	clock.Advance(20 * time.Minute)
	fresh, err := store.Issue("")
	require.NoError(t, err)

	clock.Advance(11 * time.Minute)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Count())

	_, ok := store.Validate(old.Secret)
	assert.False(t, ok)
	_, ok = store.Validate(fresh.Secret)
	assert.True(t, ok)
}

func TestCredentialStore_RunStopsOnCancel(t *testing.T) {
	store, clock := newTestStore(t)
	store.sweepInterval = 5 * time.Millisecond

	_, err := store.Issue("")
	require.NoError(t, err)
	clock.Advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return store.Count() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestCredentialStore_ConcurrentAccess(t *testing.T) {
	store, _ := newTestStore(t)

	key, err := store.Issue("")
	require.NoError(t, err)

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines * 3)

	for range goroutines {
		go func() {
			defer wg.Done()
			_, _ = store.Validate(key.Secret)
		}()
		go func() {
			defer wg.Done()
			_ = store.Refresh(key.Secret)
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Issue("")
		}()
	}

	wg.Wait()
	assert.Equal(t, goroutines+1, store.Count())
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "abcdefgh...", ShortHash("abcdefghijkl"))
	assert.Equal(t, "abc", ShortHash("abc"))
}
