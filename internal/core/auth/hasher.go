// Package auth holds the authentication core: password verifiers, session
// tokens, bearer header parsing and the ownership policy. Everything here is
// pure computation over immutable configuration and is safe for concurrent use.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhub/taskhub-api/internal/core/domain"
)

// Supported password hashing algorithms.
const (
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"
)

const (
	argon2SaltLen = 16
	argon2KeyLen  = 32

	// upper bounds accepted when parsing a stored verifier
	maxArgon2Memory  = 1 << 22 // 4 GiB in KiB
	maxArgon2Time    = 64
	maxArgon2Threads = 64
	maxArgon2KeyLen  = 128
)

// bcrypt only reads the first 72 bytes of a secret.
const bcryptMaxSecretLen = 72

// ErrSecretTooLong is returned by Hash when the bcrypt algorithm is selected
// and the secret exceeds 72 bytes. It wraps domain.ErrInvalidInput.
var ErrSecretTooLong = fmt.Errorf("%w: secret exceeds %d bytes", domain.ErrInvalidInput, bcryptMaxSecretLen)

var b64 = base64.RawStdEncoding

// Argon2Params are the cost parameters of argon2id. Memory is in KiB.
type Argon2Params struct {
	Memory  uint32
	Time    uint32
	Threads uint8
}

// DefaultArgon2Params follows the OWASP baseline for argon2id.
var DefaultArgon2Params = Argon2Params{Memory: 64 * 1024, Time: 3, Threads: 2}

// HasherConfig selects the algorithm used for new verifiers.
type HasherConfig struct {
	Algorithm  string
	Argon2     Argon2Params
	BcryptCost int
}

// PasswordHasher turns secrets into verifiers and checks secrets against them.
// Verify understands both argon2id and bcrypt verifiers regardless of the
// algorithm configured for Hash.
type PasswordHasher struct {
	algorithm  string
	argon2     Argon2Params
	bcryptCost int
}

// NewPasswordHasher validates cfg and returns a hasher.
func NewPasswordHasher(cfg HasherConfig) (*PasswordHasher, error) {
	h := &PasswordHasher{
		algorithm:  strings.ToLower(cfg.Algorithm),
		argon2:     cfg.Argon2,
		bcryptCost: cfg.BcryptCost,
	}
	if h.algorithm == "" {
		h.algorithm = AlgorithmArgon2id
	}

	switch h.algorithm {
	case AlgorithmArgon2id:
		if h.argon2 == (Argon2Params{}) {
			h.argon2 = DefaultArgon2Params
		}
		if h.argon2.Memory == 0 || h.argon2.Time == 0 || h.argon2.Threads == 0 {
			return nil, fmt.Errorf("hasher: argon2 parameters must be positive: %+v", h.argon2)
		}
	case AlgorithmBcrypt:
		if h.bcryptCost == 0 {
			h.bcryptCost = bcrypt.DefaultCost
		}
		if h.bcryptCost < bcrypt.MinCost || h.bcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("hasher: bcrypt cost %d out of range [%d, %d]", h.bcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
		}
	default:
		return nil, fmt.Errorf("hasher: unsupported algorithm %q", cfg.Algorithm)
	}
	return h, nil
}

// Hash derives a verifier for secret using a fresh random salt.
func (h *PasswordHasher) Hash(secret string) (string, error) {
	if h.algorithm == AlgorithmBcrypt {
		if len(secret) > bcryptMaxSecretLen {
			return "", ErrSecretTooLong
		}
		out, err := bcrypt.GenerateFromPassword([]byte(secret), h.bcryptCost)
		if err != nil {
			return "", fmt.Errorf("hasher: bcrypt: %w", err)
		}
		return string(out), nil
	}

	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("hasher: read salt: %w", err)
	}
	key := argon2.IDKey([]byte(secret), salt, h.argon2.Time, h.argon2.Memory, h.argon2.Threads, argon2KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.argon2.Memory, h.argon2.Time, h.argon2.Threads,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// Verify reports whether secret matches verifier. A verifier that cannot be
// parsed never matches.
func (h *PasswordHasher) Verify(secret, verifier string) bool {
	switch {
	case strings.HasPrefix(verifier, "$argon2id$"):
		return verifyArgon2id(secret, verifier)
	case strings.HasPrefix(verifier, "$2a$"), strings.HasPrefix(verifier, "$2b$"), strings.HasPrefix(verifier, "$2y$"):
		return bcrypt.CompareHashAndPassword([]byte(verifier), []byte(secret)) == nil
	default:
		return false
	}
}

var errMalformedVerifier = errors.New("malformed argon2id verifier")

type argon2Verifier struct {
	params Argon2Params
	salt   []byte
	key    []byte
}

// parseArgon2id splits "$argon2id$v=19$m=..,t=..,p=..$salt$key".
func parseArgon2id(verifier string) (*argon2Verifier, error) {
	parts := strings.Split(verifier, "$")
	if len(parts) != 6 || parts[1] != AlgorithmArgon2id {
		return nil, errMalformedVerifier
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, errMalformedVerifier
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return nil, errMalformedVerifier
	}
	if memory == 0 || memory > maxArgon2Memory || time == 0 || time > maxArgon2Time ||
		threads == 0 || threads > maxArgon2Threads {
		return nil, errMalformedVerifier
	}

	salt, err := b64.Strict().DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return nil, errMalformedVerifier
	}
	key, err := b64.Strict().DecodeString(parts[5])
	if err != nil || len(key) == 0 || len(key) > maxArgon2KeyLen {
		return nil, errMalformedVerifier
	}

	return &argon2Verifier{
		params: Argon2Params{Memory: memory, Time: time, Threads: threads},
		salt:   salt,
		key:    key,
	}, nil
}

func verifyArgon2id(secret, verifier string) bool {
	v, err := parseArgon2id(verifier)
	if err != nil {
		return false
	}
	candidate := argon2.IDKey([]byte(secret), v.salt, v.params.Time, v.params.Memory, v.params.Threads, uint32(len(v.key)))
	return subtle.ConstantTimeCompare(candidate, v.key) == 1
}
