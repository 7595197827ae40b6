package ports

import (
	"context"

	"github.com/taskhub/taskhub-api/internal/core/domain"
)

// CreateTaskInput holds the fields of a new task. The owner is always the caller.
type CreateTaskInput struct {
	Title       string
	Description string
	Completed   bool
}

// TaskService exposes task reads (public) and owner-only mutations.
type TaskService interface {
	List(ctx context.Context) ([]*domain.Task, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Task, error)
	Get(ctx context.Context, id int64) (*domain.Task, error)
	Create(ctx context.Context, principal domain.Principal, input CreateTaskInput) (*domain.Task, error)
	Update(ctx context.Context, principal domain.Principal, id int64, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, principal domain.Principal, id int64) error
}

// OwnershipPolicy decides whether a principal may mutate a resource.
type OwnershipPolicy interface {
	CanModifyUser(p domain.Principal, targetUserID int64) bool
	CanModifyTask(p domain.Principal, taskOwnerID int64) bool
}
