// Package vault salts, hashes and verifies user passwords.
package vault

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength = 16
	keyLength  = 128
	iterations = 65536
)

// HashPassword returns a fresh random salt followed by the PBKDF2 hash of
// password under that salt.
func HashPassword(password string) ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash := hashWithSalt(password, salt)

	out := make([]byte, 0, saltLength+len(hash))
	out = append(out, salt...)
	return append(out, hash...), nil
}

// VerifyPassword reports whether password hashes to saltedHash, a value
// previously produced by HashPassword.
func VerifyPassword(password string, saltedHash []byte) bool {
	if len(saltedHash) <= saltLength {
		return false
	}
	salt, want := saltedHash[:saltLength], saltedHash[saltLength:]
	got := hashWithSalt(password, salt)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func hashWithSalt(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha1.New)
}
