package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const secretBytes = 32

// NewSecret returns a random URL-safe token and the hash that gets stored in
// its place.
func NewSecret() (raw, hash string, err error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("read random bytes: %w", err)
	}
	raw = hex.EncodeToString(buf)
	return raw, HashSecret(raw), nil
}

func HashSecret(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
