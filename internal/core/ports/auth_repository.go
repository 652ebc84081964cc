package ports

import (
	"context"

	"github.com/movieapp/movie-api/internal/core/domain"
)

// UserRepository defines persistence for accounts.
// Lookups return domain.ErrNotFound when no row matches.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// Create inserts the user and returns it with ID and timestamps set.
	// A duplicate username yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}
