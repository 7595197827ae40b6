package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskhub/taskhub-api/internal/core/domain"
)

// MinSigningKeyLen is the shortest HS256 key accepted at startup.
const MinSigningKeyLen = 32

var (
	// ErrTokenInvalid covers bad signatures, wrong algorithms and malformed tokens.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired means the token was well formed and signed but exp <= now.
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the payload of a session token. The principal id travels in the
// registered "sub" claim as a decimal string.
type Claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256-signed session tokens. Tokens are
// stateless: there is no server-side record and no way to revoke one before
// it expires.
type TokenCodec struct {
	key    []byte
	issuer string
	now    func() time.Time
}

// TokenOption customises a TokenCodec.
type TokenOption func(*TokenCodec)

// WithClock overrides the time source used for issuing and validating.
func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCodec) { c.now = now }
}

// WithIssuer sets the "iss" claim written and required by the codec.
func WithIssuer(issuer string) TokenOption {
	return func(c *TokenCodec) { c.issuer = issuer }
}

// NewTokenCodec copies key and returns a codec. Keys shorter than
// MinSigningKeyLen are rejected.
func NewTokenCodec(key []byte, opts ...TokenOption) (*TokenCodec, error) {
	if len(key) < MinSigningKeyLen {
		return nil, fmt.Errorf("token codec: signing key must be at least %d bytes, got %d", MinSigningKeyLen, len(key))
	}
	c := &TokenCodec{
		key: append([]byte(nil), key...),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs a token for the principal that expires ttl from now.
func (c *TokenCodec) Issue(principalID int64, displayName string, ttl time.Duration) (string, time.Time, error) {
	now := c.now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		Name: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(principalID, 10),
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token codec: sign: %w", err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Verify parses token and returns the principal it carries. It returns
// ErrTokenExpired or ErrTokenInvalid and never panics on hostile input.
func (c *TokenCodec) Verify(token string) (domain.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return c.key, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Principal{}, ErrTokenExpired
		}
		return domain.Principal{}, ErrTokenInvalid
	}
	if !parsed.Valid {
		return domain.Principal{}, ErrTokenInvalid
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return domain.Principal{}, ErrTokenInvalid
	}
	return domain.Principal{ID: id, DisplayName: claims.Name}, nil
}
