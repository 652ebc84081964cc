package ports

import (
	"context"

	"github.com/movieapp/movie-api/internal/core/domain"
)

// ListMoviesInput holds the raw query values; the service coerces them.
type ListMoviesInput struct {
	Search string
	Limit  string
	Offset string
}

type ListMoviesResult struct {
	Items  []*domain.Movie
	Total  int64
	Limit  int
	Offset int
}

type CreateMovieInput struct {
	Title          string
	Description    string
	SourceURL      string
	ThumbURL       string
	Subtitle       string
	IdempotencyKey string
}

// CatalogService is the public read side of the catalog.
type CatalogService interface {
	ListMovies(ctx context.Context, in ListMoviesInput) (*ListMoviesResult, error)
	GetMovie(ctx context.Context, id int64) (*domain.Movie, error)
}

// CatalogAdminService holds the admin-only catalog mutations.
type CatalogAdminService interface {
	ListAllMovies(ctx context.Context) ([]*domain.Movie, error)
	CreateMovie(ctx context.Context, in CreateMovieInput) (*domain.Movie, error)
	UpdateMovie(ctx context.Context, id int64, patch domain.MoviePatch) (*domain.Movie, error)
	DeleteMovie(ctx context.Context, id int64) (*domain.Movie, error)
}

type AdminService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	Stats(ctx context.Context) (*domain.Stats, error)
}
