package ports

import (
	"context"

	"github.com/taskhub/taskhub-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Lookups return domain.ErrUserNotFound when no row matches and Create
// returns domain.ErrUserExists on a username or email collision.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// Delete removes the user together with every task it owns.
	Delete(ctx context.Context, id int64) error
}
