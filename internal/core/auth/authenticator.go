package auth

import (
	"strings"
	"unicode"

	"github.com/taskhub/taskhub-api/internal/core/domain"
)

const bearerScheme = "Bearer"

// TokenVerifier is the part of TokenCodec the authenticator depends on.
type TokenVerifier interface {
	Verify(token string) (domain.Principal, error)
}

// Authenticator turns an Authorization header value into a principal.
type Authenticator struct {
	verifier TokenVerifier
}

func NewAuthenticator(verifier TokenVerifier) *Authenticator {
	return &Authenticator{verifier: verifier}
}

// Authenticate returns the principal for a "Bearer <token>" header. Any other
// shape, or a token the verifier rejects, reports false.
func (a *Authenticator) Authenticate(header string) (domain.Principal, bool) {
	token, ok := BearerToken(header)
	if !ok {
		return domain.Principal{}, false
	}
	p, err := a.verifier.Verify(token)
	if err != nil {
		return domain.Principal{}, false
	}
	return p, true
}

// BearerToken extracts the token from a header of the form "Bearer <token>".
// The scheme is matched case-sensitively and must be followed by whitespace
// and a single non-empty token.
func BearerToken(header string) (string, bool) {
	rest, found := strings.CutPrefix(header, bearerScheme)
	if !found || rest == "" {
		return "", false
	}
	if !unicode.IsSpace(rune(rest[0])) {
		return "", false
	}
	token := strings.TrimSpace(rest)
	if token == "" || strings.IndexFunc(token, unicode.IsSpace) >= 0 {
		return "", false
	}
	return token, true
}
