package model

import "time"

// CredentialRecord is a stored API key. It is keyed by SecretHash, the hex
// SHA-256 digest of the issued secret; the secret itself is never stored.
// Plaintext is the credential forwarded to the upstream platform.
type CredentialRecord struct {
	SecretHash string
	Plaintext  string
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// ValidAt reports whether the record is still usable at now. A record is
// valid up to and including its expiry instant.
func (r CredentialRecord) ValidAt(now time.Time) bool {
	return !now.After(r.ExpiresAt)
}

// IssuedKey is returned to the caller when a new API key is generated.
type IssuedKey struct {
	Secret    string
	ExpiresAt time.Time
	TTL       time.Duration
}
