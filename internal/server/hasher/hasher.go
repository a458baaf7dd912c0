// Package hasher provides the one-way digests used for credentials and
// uploaded documents.
//
// DigestPassword is deterministic and unsalted: the same password always
// yields the same digest. Stored credentials depend on that, so it stays the
// default scheme. The argon2id scheme is the salted, slow alternative and is
// selected explicitly through configuration.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestSize is the length of every hex digest produced here.
const DigestSize = sha256.Size * 2

// DigestBytes returns the lower-case hex SHA-256 of payload.
func DigestBytes(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// DigestString is DigestBytes over the UTF-8 bytes of s.
func DigestString(s string) string {
	return DigestBytes([]byte(s))
}

// DigestPassword returns the unsalted SHA-256 hex digest of plaintext.
func DigestPassword(plaintext string) string {
	return DigestString(plaintext)
}
