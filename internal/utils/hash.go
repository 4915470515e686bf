package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashSHA256 computes a SHA-256 digest over the given string and returns it
// hex-encoded. Used to derive stored API key hashes and rate-limit bucket
// keys so that raw secrets never leave the resolution site.
func HashSHA256(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// ConstantTimeEquals compares two strings in constant time.
// Used when matching presented API keys against configured static keys.
func ConstantTimeEquals(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
