package util

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateSecureToken returns a cryptographically random hex string of the
// given byte length (the string is twice as long).
func GenerateSecureToken(byteLen int) (string, error) {
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
