package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhub/taskhub-api/internal/core/domain"
	"github.com/taskhub/taskhub-api/internal/core/ports"
)

// PasswordHasher abstracts the credential hasher.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, verifier string) bool
}

// TokenIssuer abstracts the session token codec.
type TokenIssuer interface {
	Issue(principalID int64, displayName string, ttl time.Duration) (string, time.Time, error)
}

// dummySecret is hashed once at startup so that logins for unknown usernames
// spend the same hashing cost as logins with a wrong password.
const dummySecret = "taskhub-dummy-secret"

// AuthService implements registration and login.
type AuthService struct {
	users    ports.UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	tokenTTL time.Duration
	throttle ports.LoginThrottle
	audit    ports.AuditPublisher
	log      zerolog.Logger

	dummyVerifier string
}

// NewAuthService wires the auth use cases. throttle and audit may be nil.
func NewAuthService(
	users ports.UserRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	tokenTTL time.Duration,
	throttle ports.LoginThrottle,
	audit ports.AuditPublisher,
	log zerolog.Logger,
) (*AuthService, error) {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if throttle == nil {
		throttle = noopThrottle{}
	}
	if audit == nil {
		audit = noopAudit{}
	}

	dummy, err := hasher.Hash(dummySecret)
	if err != nil {
		return nil, fmt.Errorf("auth service: prepare dummy verifier: %w", err)
	}

	return &AuthService{
		users:         users,
		hasher:        hasher,
		tokens:        tokens,
		tokenTTL:      tokenTTL,
		throttle:      throttle,
		audit:         audit,
		log:           log,
		dummyVerifier: dummy,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return nil, domain.ErrInvalidInput
		}
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.publish(domain.AuthEventRegister, created.Username, created.ID, "")
	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user registered")

	return created, nil
}

// Login verifies credentials and issues a session token. Unknown usernames
// and wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	allowed, err := s.throttle.Allowed(ctx, in.Username)
	if err != nil {
		s.log.Warn().Err(err).Str("username", in.Username).Msg("login throttle check failed, allowing attempt")
	} else if !allowed {
		s.publish(domain.AuthEventLoginThrottled, in.Username, 0, in.RemoteIP)
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByUsername(ctx, in.Username)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		s.hasher.Verify(in.Password, s.dummyVerifier)
		s.fail(ctx, in, 0)
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.fail(ctx, in, user.ID)
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	if err := s.throttle.Reset(ctx, in.Username); err != nil {
		s.log.Warn().Err(err).Str("username", in.Username).Msg("failed to reset login throttle")
	}
	s.publish(domain.AuthEventLoginSuccess, user.Username, user.ID, in.RemoteIP)

	return &ports.LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) fail(ctx context.Context, in ports.LoginInput, userID int64) {
	if err := s.throttle.RecordFailure(ctx, in.Username); err != nil {
		s.log.Warn().Err(err).Str("username", in.Username).Msg("failed to record login failure")
	}
	s.publish(domain.AuthEventLoginFailure, in.Username, userID, in.RemoteIP)
}

func (s *AuthService) publish(typ domain.AuthEventType, username string, userID int64, remoteIP string) {
	s.audit.Publish(domain.AuthEvent{
		Type:       typ,
		Username:   username,
		UserID:     userID,
		RemoteIP:   remoteIP,
		OccurredAt: time.Now().UTC(),
	})
}

type noopThrottle struct{}

func (noopThrottle) Allowed(context.Context, string) (bool, error) { return true, nil }
func (noopThrottle) RecordFailure(context.Context, string) error   { return nil }
func (noopThrottle) Reset(context.Context, string) error           { return nil }

type noopAudit struct{}

func (noopAudit) Publish(domain.AuthEvent) {}
