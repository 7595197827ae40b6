package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/taskhub-api/internal/api/middleware"
	"github.com/taskhub/taskhub-api/internal/core/domain"
	"github.com/taskhub/taskhub-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	return s.loginFn(ctx, in)
}

type stubUserService struct {
	listFn   func(ctx context.Context) ([]*domain.User, error)
	getFn    func(ctx context.Context, id int64) (*domain.User, error)
	updateFn func(ctx context.Context, p domain.Principal, id int64, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, p domain.Principal, id int64) error
}

func (s *stubUserService) List(ctx context.Context) ([]*domain.User, error) { return s.listFn(ctx) }
func (s *stubUserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.getFn(ctx, id)
}
func (s *stubUserService) Update(ctx context.Context, p domain.Principal, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, p, id, in)
}
func (s *stubUserService) Delete(ctx context.Context, p domain.Principal, id int64) error {
	return s.deleteFn(ctx, p, id)
}

type stubTaskService struct {
	listFn       func(ctx context.Context) ([]*domain.Task, error)
	listByUserFn func(ctx context.Context, userID int64) ([]*domain.Task, error)
	getFn        func(ctx context.Context, id int64) (*domain.Task, error)
	createFn     func(ctx context.Context, p domain.Principal, in ports.CreateTaskInput) (*domain.Task, error)
	updateFn     func(ctx context.Context, p domain.Principal, id int64, patch domain.TaskPatch) (*domain.Task, error)
	deleteFn     func(ctx context.Context, p domain.Principal, id int64) error
}

func (s *stubTaskService) List(ctx context.Context) ([]*domain.Task, error) { return s.listFn(ctx) }
func (s *stubTaskService) ListByUser(ctx context.Context, userID int64) ([]*domain.Task, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *stubTaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	return s.getFn(ctx, id)
}
func (s *stubTaskService) Create(ctx context.Context, p domain.Principal, in ports.CreateTaskInput) (*domain.Task, error) {
	return s.createFn(ctx, p, in)
}
func (s *stubTaskService) Update(ctx context.Context, p domain.Principal, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	return s.updateFn(ctx, p, id, patch)
}
func (s *stubTaskService) Delete(ctx context.Context, p domain.Principal, id int64) error {
	return s.deleteFn(ctx, p, id)
}

var alice = domain.Principal{ID: 1, DisplayName: "alice"}

// newContext builds an echo context with the validator registered. id, when
// non-empty, is set as the ":id" route parameter.
func newContext(method, target, body, id string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := e.NewContext(req, rec)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	return c, rec
}

func asPrincipal(c echo.Context, p domain.Principal) echo.Context {
	middleware.SetPrincipal(c, p)
	return c
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return resp
}

func httpCode(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}
