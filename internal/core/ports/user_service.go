package ports

import (
	"context"

	"github.com/taskhub/taskhub-api/internal/core/domain"
)

// UpdateUserInput replaces the mutable profile fields of a user.
type UpdateUserInput struct {
	Username string
	Email    string
}

// UserService exposes account reads (public) and owner-only mutations.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, principal domain.Principal, id int64, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, principal domain.Principal, id int64) error
}
