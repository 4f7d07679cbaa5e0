// Package cryptox hashes and verifies account passwords.
//
// Hashes use argon2id and are stored in the PHC string format, so every
// stored value carries its own algorithm, version, cost parameters and salt:
//
//	$argon2id$v=19$m=65536,t=3,p=4$<salt>$<key>
//
// Salt and key are unpadded standard base64. A verifier needs nothing but
// the stored string and the candidate password.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/saasctl/internal/common"
	"golang.org/x/crypto/argon2"
)

// Algorithm is the PHC identifier written into every hash.
const Algorithm = "argon2id"

var (
	ErrInvalidHash         = errors.New("invalid password hash")
	ErrUnsupportedHash     = errors.New("unsupported password hash algorithm")
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
)

// Params are the argon2id cost parameters.
type Params struct {
	Memory     uint32 // KiB
	Iterations uint32
	Threads    uint8
	SaltLength uint32
	KeyLength  uint32
}

// DefaultParams follow the RFC 9106 second recommended option.
var DefaultParams = Params{
	Memory:     64 * 1024,
	Iterations: 3,
	Threads:    4,
	SaltLength: 16,
	KeyLength:  32,
}

var b64 = base64.RawStdEncoding

// HashPassword hashes password with DefaultParams and a fresh random salt.
func HashPassword(password []byte) (string, error) {
	return HashPasswordWithParams(password, DefaultParams)
}

// HashPasswordWithParams hashes password with p and a fresh random salt.
// Two calls with the same password never return the same string.
func HashPasswordWithParams(password []byte, p Params) (string, error) {
	if len(password) == 0 {
		return "", common.ErrInvalidArgument
	}
	if p.Memory == 0 || p.Iterations == 0 || p.Threads == 0 || p.SaltLength == 0 || p.KeyLength == 0 {
		return "", fmt.Errorf("%w: zero argon2 parameter", common.ErrInvalidArgument)
	}

	salt := common.GenerateRandByteArray(int(p.SaltLength))
	key := argon2.IDKey(password, salt, p.Iterations, p.Memory, p.Threads, p.KeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		Algorithm, argon2.Version, p.Memory, p.Iterations, p.Threads,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// VerifyPassword reports whether password matches the encoded hash.
// A malformed or foreign hash yields an error, not a false match.
func VerifyPassword(encoded string, password []byte) (bool, error) {
	p, salt, key, err := DecodeHash(encoded)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey(password, salt, p.Iterations, p.Memory, p.Threads, p.KeyLength)
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

// DecodeHash parses a PHC argon2id string back into its parameters, salt
// and derived key.
func DecodeHash(encoded string) (Params, []byte, []byte, error) {
	var p Params

	// leading "$" produces an empty first element
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return p, nil, nil, ErrInvalidHash
	}
	if parts[1] != Algorithm {
		return p, nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedHash, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	if version != argon2.Version {
		return p, nil, nil, ErrIncompatibleVersion
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Threads); err != nil {
		return p, nil, nil, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}

	salt, err := b64.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return p, nil, nil, ErrInvalidHash
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, ErrInvalidHash
	}

	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))
	return p, salt, key, nil
}
