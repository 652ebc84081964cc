package ports

import (
	"context"

	"github.com/movieapp/movie-api/internal/core/domain"
)

// MovieFilter carries the already-normalised catalog query.
type MovieFilter struct {
	Search string // optional: case-insensitive substring of title or description
	Limit  int
	Offset int
}

// MovieRepository defines persistence for the catalog.
// Operations on a missing id return domain.ErrMovieNotFound.
type MovieRepository interface {
	// List returns one page, newest first, and the size of the filtered set.
	List(ctx context.Context, filter MovieFilter) ([]*domain.Movie, int64, error)
	ListAll(ctx context.Context) ([]*domain.Movie, error)
	FindByID(ctx context.Context, id int64) (*domain.Movie, error)
	Create(ctx context.Context, movie *domain.Movie) (*domain.Movie, error)
	Update(ctx context.Context, id int64, patch domain.MoviePatch) (*domain.Movie, error)
	// Delete removes the row and returns it as it was before removal.
	Delete(ctx context.Context, id int64) (*domain.Movie, error)
	Count(ctx context.Context) (int64, error)
}

// IdempotencyStore remembers which movie a client-supplied key produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (int64, bool, error)
	Remember(ctx context.Context, key string, movieID int64) error
}
