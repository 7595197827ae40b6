package service

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/taskhub/taskhub-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   map[int64]*domain.User
	nextID  int64
	findErr error // if set, FindByUsername returns this error
	calls   int   // number of repository calls
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) conflicts(u *domain.User) bool {
	for _, existing := range r.users {
		if existing.ID == u.ID {
			continue
		}
		if existing.Username == u.Username || existing.Email == u.Email {
			return true
		}
	}
	return false
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.calls++
	if r.conflicts(user) {
		return nil, domain.ErrUserExists
	}
	created := cloneUser(user)
	created.ID = r.nextID
	r.nextID++
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.calls++
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.calls++
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.calls++
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.calls++
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	if r.conflicts(user) {
		return domain.ErrUserExists
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	r.calls++
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) seed(username, email, hash string) *domain.User {
	u, _ := r.Create(context.Background(), &domain.User{Username: username, Email: email, PasswordHash: hash})
	r.calls = 0
	return u
}

type stubTaskRepo struct {
	tasks     map[int64]*domain.Task
	nextID    int64
	deleted   []int64
	updateErr error
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[int64]*domain.Task), nextID: 1}
}

func (r *stubTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	clone := *task
	clone.ID = r.nextID
	r.nextID++
	stored := clone
	r.tasks[clone.ID] = &stored
	return &clone, nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id int64) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) List(_ context.Context) ([]*domain.Task, error) {
	return r.filter(func(*domain.Task) bool { return true }), nil
}

func (r *stubTaskRepo) ListByUser(_ context.Context, userID int64) ([]*domain.Task, error) {
	return r.filter(func(t *domain.Task) bool { return t.UserID == userID }), nil
}

func (r *stubTaskRepo) filter(keep func(*domain.Task) bool) []*domain.Task {
	out := []*domain.Task{}
	for _, t := range r.tasks {
		if keep(t) {
			clone := *t
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubTaskRepo) Update(_ context.Context, task *domain.Task) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	clone := *task
	r.tasks[task.ID] = &clone
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	r.deleted = append(r.deleted, id)
	return nil
}

// ---------------------------------------------------------------------------
// Throttle and audit doubles
// ---------------------------------------------------------------------------

type stubThrottle struct {
	max      int
	failures map[string]int
	err      error
}

func newStubThrottle(max int) *stubThrottle {
	return &stubThrottle{max: max, failures: make(map[string]int)}
}

func (s *stubThrottle) Allowed(_ context.Context, username string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.failures[username] < s.max, nil
}

func (s *stubThrottle) RecordFailure(_ context.Context, username string) error {
	if s.err != nil {
		return s.err
	}
	s.failures[username]++
	return nil
}

func (s *stubThrottle) Reset(_ context.Context, username string) error {
	delete(s.failures, username)
	return nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (a *recordingAudit) Publish(e domain.AuthEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) types() []domain.AuthEventType {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuthEventType, len(a.events))
	for i, e := range a.events {
		out[i] = e.Type
	}
	return out
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

// ownerPolicy mirrors auth.Policy without importing it.
type ownerPolicy struct{}

func (ownerPolicy) CanModifyUser(p domain.Principal, id int64) bool    { return p.ID == id }
func (ownerPolicy) CanModifyTask(p domain.Principal, owner int64) bool { return p.ID == owner }

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
