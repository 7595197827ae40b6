package ports

import (
	"context"
	"time"

	"github.com/taskhub/taskhub-api/internal/core/domain"
)

// RegisterInput is the DTO for account creation.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput is the DTO for a login attempt. RemoteIP only feeds the audit trail.
type LoginInput struct {
	Username string
	Password string
	RemoteIP string
}

// LoginResult carries the issued session token and the user it belongs to.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
}

// LoginThrottle counts failed logins per username. Implementations must be
// safe for concurrent use.
type LoginThrottle interface {
	Allowed(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// AuditPublisher accepts auth events without blocking the caller.
type AuditPublisher interface {
	Publish(event domain.AuthEvent)
}

// AuditSink persists auth events. It is driven by the audit dispatcher workers.
type AuditSink interface {
	Record(ctx context.Context, event domain.AuthEvent) error
}
