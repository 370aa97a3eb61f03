// Package helper holds small cross-cutting utilities.
package helper

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash8 gives a short stable digest for log correlation without writing the
// raw value (emails, tokens) into log lines.
func Hash8(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
