// Package driven defines secondary port interfaces for external adapters.
package driven

import "github.com/pczin9531-tech/robloximportexportserverm/internal/domain/model"

// CredentialStore defines the driven port for short-lived API keys.
// Implementations key records by a digest of the secret and must be safe
// for concurrent use.
type CredentialStore interface {
	// Issue generates a new random secret and stores it. upstream is the
	// credential to forward to the upstream platform; when empty the secret
	// itself is forwarded.
	Issue(upstream string) (model.IssuedKey, error)

	// Validate returns the plaintext credential for secret. ok is false when
	// the key is unknown or expired; expired records are removed.
	Validate(secret string) (plaintext string, ok bool)

	// Refresh pushes the key's expiry out by one TTL from now. It reports
	// false if the key no longer exists.
	Refresh(secret string) bool

	// Revoke removes the key and reports whether it existed.
	Revoke(secret string) bool

	// Count returns the number of stored keys, expired ones included until swept.
	Count() int
}
