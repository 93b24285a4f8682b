package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// The user table still carries password hashes written by two earlier
// systems: bcrypt ($2a$/$2b$/$2y$) and passlib-style pbkdf2-sha256.
// New hashes are always argon2id; verification dispatches on the hash
// prefix, and callers rehash legacy credentials after a successful login.

var ErrUnknownHashFormat = errors.New("unknown password hash format")

const (
	argon2idPrefix = "$argon2id$"
	pbkdf2Prefix   = "$pbkdf2-sha256$"

	// bcrypt silently ignores everything past 72 bytes; the legacy system
	// truncated explicitly, so verification must do the same.
	bcryptMaxBytes = 72

	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 2
	argon2KeyLen  = 32
	argon2SaltLen = 16
)

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// HashPassword hashes a plaintext password with the current scheme (argon2id)
func HashPassword(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argon2Memory, argon2Time, argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword checks a plaintext password against a stored hash,
// dispatching on the hash format
func VerifyPassword(password, hash string) bool {
	switch {
	case isBcryptHash(hash):
		return verifyBcrypt(password, hash)
	case strings.HasPrefix(hash, pbkdf2Prefix):
		return verifyPBKDF2(password, hash)
	case strings.HasPrefix(hash, argon2idPrefix):
		return verifyArgon2id(password, hash)
	default:
		return false
	}
}

// NeedsRehash reports whether a stored hash uses a legacy scheme and should
// be replaced with the current one on next successful login
func NeedsRehash(hash string) bool {
	return !strings.HasPrefix(hash, argon2idPrefix)
}

func isBcryptHash(hash string) bool {
	for _, p := range bcryptPrefixes {
		if strings.HasPrefix(hash, p) {
			return true
		}
	}
	return false
}

func verifyBcrypt(password, hash string) bool {
	pw := []byte(password)
	if len(pw) > bcryptMaxBytes {
		pw = pw[:bcryptMaxBytes]
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), pw) == nil
}

// verifyPBKDF2 checks a passlib-format hash: $pbkdf2-sha256$rounds$salt$key
// where salt and key use passlib's adapted base64 ('.' instead of '+', no padding)
func verifyPBKDF2(password, hash string) bool {
	parts := strings.Split(strings.TrimPrefix(hash, pbkdf2Prefix), "$")
	if len(parts) != 3 {
		return false
	}

	rounds, err := strconv.Atoi(parts[0])
	if err != nil || rounds < 1 {
		return false
	}
	salt, err := adaptedBase64Decode(parts[1])
	if err != nil {
		return false
	}
	expected, err := adaptedBase64Decode(parts[2])
	if err != nil {
		return false
	}

	derived := pbkdf2.Key([]byte(password), salt, rounds, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(derived, expected) == 1
}

func verifyArgon2id(password, hash string) bool {
	params, salt, expected, err := decodeArgon2id(hash)
	if err != nil {
		return false
	}

	derived := argon2.IDKey([]byte(password), salt, params.time, params.memory, params.threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(derived, expected) == 1
}

type argon2Params struct {
	memory  uint32
	time    uint32
	threads uint8
}

func decodeArgon2id(hash string) (argon2Params, []byte, []byte, error) {
	var p argon2Params

	parts := strings.Split(hash, "$")
	// "", "argon2id", "v=19", "m=...,t=...,p=...", salt, key
	if len(parts) != 6 || parts[1] != "argon2id" {
		return p, nil, nil, ErrUnknownHashFormat
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, ErrUnknownHashFormat
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return p, nil, nil, ErrUnknownHashFormat
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, ErrUnknownHashFormat
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, ErrUnknownHashFormat
	}

	return p, salt, key, nil
}

// adaptedBase64Decode decodes passlib's base64 variant
func adaptedBase64Decode(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(strings.ReplaceAll(s, ".", "+"))
}
