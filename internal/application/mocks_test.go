package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/model"
	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/port/driven"
)

// --- Mock implementations for service tests ---

type mockCredentialStore struct {
	mu        sync.Mutex
	keys      map[string]string
	issueErr  error
	refreshed []string
	next      int
}

func newMockCredentialStore() *mockCredentialStore {
	return &mockCredentialStore{keys: make(map[string]string)}
}

func (m *mockCredentialStore) Issue(upstream string) (model.IssuedKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.issueErr != nil {
		return model.IssuedKey{}, m.issueErr
	}
	m.next++
	secret := fmt.Sprintf("key-%d", m.next)
	if upstream == "" {
		upstream = secret
	}
	m.keys[secret] = upstream
	return model.IssuedKey{Secret: secret, TTL: 30 * time.Minute}, nil
}

func (m *mockCredentialStore) Validate(secret string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	plaintext, ok := m.keys[secret]
	return plaintext, ok
}

func (m *mockCredentialStore) Refresh(secret string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshed = append(m.refreshed, secret)
	_, ok := m.keys[secret]
	return ok
}

func (m *mockCredentialStore) Revoke(secret string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.keys[secret]
	delete(m.keys, secret)
	return ok
}

func (m *mockCredentialStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.keys)
}

type mockArtifactStore struct {
	mu         sync.Mutex
	saved      []model.Artifact
	saveErr    error
	deleted    int64
	deleteErr  error
	sweptAt    []time.Time
	getResult  *model.Artifact
	getErr     error
	gotLookups []string
}

func (m *mockArtifactStore) Save(_ context.Context, a model.Artifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, a)
	return nil
}

func (m *mockArtifactStore) Get(_ context.Context, fileName string, _ time.Time) (*model.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gotLookups = append(m.gotLookups, fileName)
	return m.getResult, m.getErr
}

func (m *mockArtifactStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweptAt = append(m.sweptAt, now)
	return m.deleted, m.deleteErr
}

func (m *mockArtifactStore) sweeps() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sweptAt)
}

type uploadCall struct {
	credential  string
	file        []byte
	assetType   string
	name        string
	description string
}

type mockAssetGateway struct {
	assetID   string
	uploadErr error
	fetchData []byte
	fetchErr  error

	uploads []uploadCall
	fetches []model.ImportSource
}

func (m *mockAssetGateway) Upload(_ context.Context, credential string, file []byte, assetType, name, description string) (string, error) {
	m.uploads = append(m.uploads, uploadCall{credential, file, assetType, name, description})
	return m.assetID, m.uploadErr
}

func (m *mockAssetGateway) Fetch(_ context.Context, source model.ImportSource, _ string) ([]byte, error) {
	m.fetches = append(m.fetches, source)
	return m.fetchData, m.fetchErr
}

var (
	_ driven.CredentialStore = (*mockCredentialStore)(nil)
	_ driven.ArtifactStore   = (*mockArtifactStore)(nil)
	_ driven.AssetGateway    = (*mockAssetGateway)(nil)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
