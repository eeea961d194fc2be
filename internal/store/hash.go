// ABOUTME: Password hashing for stored credentials
// ABOUTME: Lowercase hex SHA-256, the format existing account rows depend on

package store

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword returns the lowercase hex SHA-256 digest of password's UTF-8 bytes.
// The digest is unsalted; stored hashes depend on this exact format.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
