package hasher

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/empvault/internal/common"
	"golang.org/x/crypto/argon2"
)

// Password hashing schemes selectable through configuration.
const (
	SchemeSHA256   = "sha256"
	SchemeArgon2id = "argon2id"
)

// ErrUnknownScheme is returned by NewPasswordHasher for unsupported names.
var ErrUnknownScheme = errors.New("unknown password scheme")

// PasswordHasher turns a plaintext password into a stored credential digest
// and checks candidates against it.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encoded string) bool
}

// NewPasswordHasher returns the hasher for scheme. Whatever the scheme,
// Verify accepts digests produced by either scheme, so switching the
// configuration does not lock out existing employees.
func NewPasswordHasher(scheme string) (PasswordHasher, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", SchemeSHA256:
		return SHA256Hasher{}, nil
	case SchemeArgon2id:
		return NewArgon2idHasher(DefaultArgon2idParams()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

// SHA256Hasher stores DigestPassword(plaintext).
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(plaintext string) (string, error) {
	return DigestPassword(plaintext), nil
}

func (SHA256Hasher) Verify(plaintext, encoded string) bool {
	if strings.HasPrefix(encoded, argon2idPrefix) {
		return verifyArgon2id(plaintext, encoded)
	}
	return subtle.ConstantTimeCompare([]byte(DigestPassword(plaintext)), []byte(encoded)) == 1
}

// Argon2idParams are the argon2.IDKey cost parameters.
type Argon2idParams struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
	SaltLen   int
	KeyLen    uint32
}

// DefaultArgon2idParams matches the key-derivation cost used elsewhere in
// the project: one pass over 64 MiB with four lanes.
func DefaultArgon2idParams() Argon2idParams {
	return Argon2idParams{Time: 1, MemoryKiB: 64 * 1024, Threads: 4, SaltLen: 16, KeyLen: 32}
}

const argon2idPrefix = "$argon2id$"

// Argon2idHasher produces PHC-formatted argon2id strings:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
type Argon2idHasher struct {
	params Argon2idParams
}

func NewArgon2idHasher(p Argon2idParams) *Argon2idHasher {
	return &Argon2idHasher{params: p}
}

func (h *Argon2idHasher) Hash(plaintext string) (string, error) {
	p := h.params
	if p.SaltLen <= 0 || p.KeyLen == 0 || p.Threads == 0 || p.Time == 0 {
		return "", errors.New("invalid argon2id parameters")
	}
	salt := common.GenerateRandByteArray(p.SaltLen)
	key := argon2.IDKey([]byte(plaintext), salt, p.Time, p.MemoryKiB, p.Threads, p.KeyLen)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2idPrefix, argon2.Version, p.MemoryKiB, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *Argon2idHasher) Verify(plaintext, encoded string) bool {
	if !strings.HasPrefix(encoded, argon2idPrefix) {
		return SHA256Hasher{}.Verify(plaintext, encoded)
	}
	return verifyArgon2id(plaintext, encoded)
}

// maxArgon2idMemoryKiB bounds the cost a stored hash may demand on verify.
const maxArgon2idMemoryKiB = 1024 * 1024

func verifyArgon2id(plaintext, encoded string) bool {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false
	}
	if memory == 0 || memory > maxArgon2idMemoryKiB || iterations == 0 || threads == 0 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false
	}

	got := argon2.IDKey([]byte(plaintext), salt, iterations, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}
