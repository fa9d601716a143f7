// Package cryptox holds the password hashing scheme used for stored
// credentials.
//
// A stored credential is the 16-byte random salt followed by the
// PBKDF2-HMAC-SHA256 key derived from the password with that salt
// (100 000 iterations, 32-byte key).
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize   = 16
	KeySize    = 32
	Iterations = 100_000
)

// HashPassword derives a credential for password using a fresh salt, so two
// calls with the same password return different values.
func HashPassword(password string) ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	key := deriveKey([]byte(password), salt, Iterations, KeySize)

	stored := make([]byte, 0, SaltSize+len(key))
	stored = append(stored, salt...)
	return append(stored, key...), nil
}

// VerifyPassword recomputes the key for provided with the salt taken from
// stored and compares it with the stored key in constant time.
func VerifyPassword(stored []byte, provided string) bool {
	if len(stored) <= SaltSize {
		return false
	}
	salt, want := stored[:SaltSize], stored[SaltSize:]

	got := deriveKey([]byte(provided), salt, Iterations, len(want))
	return subtle.ConstantTimeCompare(got, want) == 1
}

func deriveKey(password, salt []byte, iterations, keyLen int) []byte {
	return pbkdf2.Key(password, salt, iterations, keyLen, sha256.New)
}
