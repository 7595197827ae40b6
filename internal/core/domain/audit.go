package domain

import "time"

// AuthEventType classifies an entry of the authentication audit trail.
type AuthEventType string

const (
	AuthEventRegister       AuthEventType = "register"
	AuthEventLoginSuccess   AuthEventType = "login_success"
	AuthEventLoginFailure   AuthEventType = "login_failure"
	AuthEventLoginThrottled AuthEventType = "login_throttled"
)

// AuthEvent records a registration or login attempt.
type AuthEvent struct {
	Type       AuthEventType
	Username   string
	UserID     int64 // zero when the attempt did not resolve to a user
	RemoteIP   string
	OccurredAt time.Time
}
