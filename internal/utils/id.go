package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateID returns a random 16-character hex ID for tagging
// requests and frames.
func GenerateID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b)
}
