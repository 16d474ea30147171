package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const DefaultTempPasswordLength = 10

// GenerateTempPassword returns a random hex password of the requested length.
// The plaintext is handed to the caller exactly once and never persisted.
func GenerateTempPassword(length int) (string, error) {
	if length <= 0 {
		length = DefaultTempPasswordLength
	}
	buff := make([]byte, (length+1)/2)
	if _, err := rand.Read(buff); err != nil {
		return "", fmt.Errorf("temp password generation failed: %w", err)
	}
	return hex.EncodeToString(buff)[:length], nil
}

// IssueCredentials produces a temporary password and its bcrypt hash. Any
// failure aborts account creation so no account exists without a hash.
func IssueCredentials(length int) (plain, hash string, err error) {
	plain, err = GenerateTempPassword(length)
	if err != nil {
		return "", "", err
	}
	hash, err = HashPassword(plain)
	if err != nil {
		return "", "", fmt.Errorf("credential hashing failed: %w", err)
	}
	return plain, hash, nil
}
