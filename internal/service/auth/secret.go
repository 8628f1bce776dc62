package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Secret lengths in bytes, hex doubles them on the wire.
// Access and refresh secrets are generated independently so leaking one
// reveals nothing about the other.
const (
	AccessSecretBytes  = 32 // 64 chars
	RefreshSecretBytes = 40 // 80 chars
)

// GenerateSecret returns an opaque bearer secret from a cryptographically
// secure random source
func GenerateSecret(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("error while generating secret. Err: %w", err)
	}

	return hex.EncodeToString(b), nil
}

// HashSecret returns the SHA-256 hex digest of the secret.
// The same digest is used at issuance and lookup, so lookup is an indexed
// exact match and never compares secrets in application code.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
