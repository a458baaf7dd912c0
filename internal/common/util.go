package common

import (
	"crypto/rand"
	"strings"
)

// GenerateRandByteArray returns n bytes read from crypto/rand.
// crypto/rand.Read never returns an error on supported platforms.
func GenerateRandByteArray(n int) []byte {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return b
}

// NormalizeEmail performs case-insensitive canonicalization: trim + lower-case.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// TokenFromAuthorization extracts the token from a "Bearer <token>" value.
// It returns "" when the value uses another scheme.
func TokenFromAuthorization(v string) string {
	if !strings.HasPrefix(v, BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(BearerPrefix):])
}
