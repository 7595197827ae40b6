package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/taskhub/taskhub-api/internal/core/domain"
	"github.com/taskhub/taskhub-api/internal/core/ports"
)

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Username != "alice" || in.Email != "alice@x.com" || in.Password != "secret1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: 1, Username: in.Username, Email: in.Email, PasswordHash: "$argon2id$..."}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/auth/register", `{"username":"alice","email":"alice@x.com","password":"secret1"}`, "")

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "argon2id") {
		t.Fatalf("response leaks the password verifier: %s", rec.Body.String())
	}

	resp := decode(t, rec)
	if resp["success"] != true || resp["message"] != "User registered successfully" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	user, ok := resp["data"].(map[string]any)
	if !ok || user["username"] != "alice" || user["email"] != "alice@x.com" {
		t.Fatalf("unexpected user payload: %+v", resp["data"])
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	c, _ := newContext(http.MethodPost, "/api/auth/register", `{"username":"bob","email":"bob@x.com","password":"pw"}`, "")

	if err := NewAuthHandler(stub).Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}

	for _, body := range []string{
		"not-json",
		`{"username":"bob"}`,
		`{"username":"bob","email":"not-an-email","password":"pw"}`,
	} {
		c, _ := newContext(http.MethodPost, "/api/auth/register", body, "")
		if code := httpCode(NewAuthHandler(stub).Register(c)); code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, code)
		}
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
			if in.Username != "alice" || in.Password != "secret1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.RemoteIP == "" {
				t.Fatalf("remote ip not forwarded")
			}
			return &ports.LoginResult{
				Token:     "token123",
				ExpiresAt: expires,
				User:      &domain.User{ID: 1, Username: "alice", Email: "alice@x.com"},
			}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/auth/login", `{"username":"alice","password":"secret1"}`, "")

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	data, ok := decode(t, rec)["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data in response")
	}
	if data["token"] != "token123" || data["username"] != "alice" || data["id"] != float64(1) {
		t.Fatalf("unexpected login payload: %+v", data)
	}
	if data["expires_at"] != "2030-01-01T00:00:00Z" {
		t.Fatalf("unexpected expires_at: %v", data["expires_at"])
	}
}

func TestAuthHandler_Login_Failures(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidCredentials, domain.ErrTooManyAttempts} {
		stub := &stubAuthService{
			loginFn: func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
				return nil, want
			},
		}
		c, _ := newContext(http.MethodPost, "/api/auth/login", `{"username":"alice","password":"bad"}`, "")

		if err := NewAuthHandler(stub).Login(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := newContext(http.MethodPost, "/api/auth/login", `{"username":"alice"}`, "")

	if code := httpCode(NewAuthHandler(stub).Login(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestLoginResult(t *testing.T) {
	cases := map[error]string{
		domain.ErrInvalidCredentials: "invalid_credentials",
		domain.ErrTooManyAttempts:    "throttled",
		errors.New("db down"):        "error",
	}
	for err, want := range cases {
		if got := loginResult(err); got != want {
			t.Fatalf("loginResult(%v) = %q, want %q", err, got, want)
		}
	}
}
