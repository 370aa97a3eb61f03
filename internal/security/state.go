package security

import (
	"crypto/rand"
	"encoding/hex"
)

// NewStateToken returns the one-time anti-CSRF nonce for the OAuth redirect:
// 16 random bytes, hex-encoded.
func NewStateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
