// Package random provides opaque credential string generation.
//
// It uses crypto/rand so that town update passwords and session tokens
// are not guessable from one another.
package random

import (
	crand "crypto/rand"
	"encoding/hex"
	"fmt"
)

// String returns a random hex string of n characters. n must be even.
func String(n int) (string, error) {
	b := make([]byte, n/2)
	if _, err := crand.Read(b); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// MustString is String for call sites where entropy exhaustion is not a
// recoverable condition (credential generation during object creation).
func MustString(n int) string {
	s, err := String(n)
	if err != nil {
		panic(err)
	}
	return s
}
