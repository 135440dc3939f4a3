// Package application contains use-case orchestration services.
package application

import (
	"log/slog"

	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/model"
	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/port/driven"
)

// KeyService issues, checks and revokes API keys.
type KeyService struct {
	store  driven.CredentialStore
	logger *slog.Logger
}

// NewKeyService creates a KeyService backed by store.
func NewKeyService(store driven.CredentialStore, logger *slog.Logger) *KeyService {
	return &KeyService{store: store, logger: logger}
}

// Generate issues a new key. userID and username only label the log entry.
// upstream, when set, is the platform credential the key stands in for.
func (s *KeyService) Generate(userID, username, upstream string) (model.IssuedKey, error) {
	key, err := s.store.Issue(upstream)
	if err != nil {
		return model.IssuedKey{}, err
	}

	who := username
	if who == "" {
		who = userID
	}
	s.logger.Info("api key generated", "for", who, "wraps_upstream", upstream != "")

	return key, nil
}

// Delete revokes key and reports whether it existed.
func (s *KeyService) Delete(key string) bool {
	deleted := s.store.Revoke(key)
	s.logger.Info("api key delete requested", "deleted", deleted)
	return deleted
}

// Authenticate returns the upstream credential for key or model.ErrUnauthorized.
func (s *KeyService) Authenticate(key string) (string, error) {
	plaintext, ok := s.store.Validate(key)
	if !ok {
		return "", model.ErrUnauthorized
	}
	return plaintext, nil
}

// Touch slides the key's expiry after a successful operation.
func (s *KeyService) Touch(key string) {
	if !s.store.Refresh(key) {
		s.logger.Warn("api key vanished before refresh")
	}
}

// ActiveKeys returns the number of stored keys.
func (s *KeyService) ActiveKeys() int {
	return s.store.Count()
}
