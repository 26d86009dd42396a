package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// secretEntropyBytes is the amount of randomness behind a generated secret.
const secretEntropyBytes = 32

// GenerateSecret returns a new URL-safe signing secret with 256 bits of
// entropy, for operators who do not supply their own.
func GenerateSecret() (string, error) {
	buf := make([]byte, secretEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random source: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
