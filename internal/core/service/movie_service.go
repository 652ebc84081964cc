package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/movieapp/movie-api/internal/metrics"
	"github.com/movieapp/movie-api/internal/core/domain"
	"github.com/movieapp/movie-api/internal/core/ports"
)

const DefaultPageLimit = 50

// CatalogService serves catalog reads and the admin mutations.
type CatalogService struct {
	repo        ports.MovieRepository
	idempotency ports.IdempotencyStore // optional
	logger      zerolog.Logger
}

// NewCatalogService wires the catalog. idem may be nil, which disables
// Idempotency-Key replay.
func NewCatalogService(repo ports.MovieRepository, idem ports.IdempotencyStore, logger zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, idempotency: idem, logger: logger}
}

// NormalizePage coerces raw limit/offset query values. Missing, unparsable
// or out-of-range values fall back to the defaults; valid values are kept
// as sent.
func NormalizePage(rawLimit, rawOffset string) (limit, offset int) {
	limit, err := strconv.Atoi(strings.TrimSpace(rawLimit))
	if err != nil || limit <= 0 {
		limit = DefaultPageLimit
	}

	offset, err = strconv.Atoi(strings.TrimSpace(rawOffset))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *CatalogService) ListMovies(ctx context.Context, in ports.ListMoviesInput) (*ports.ListMoviesResult, error) {
	limit, offset := NormalizePage(in.Limit, in.Offset)
	search := strings.TrimSpace(in.Search)

	kind := "list"
	if search != "" {
		kind = "search"
	}
	metrics.CatalogQueriesTotal.WithLabelValues(kind).Inc()

	items, total, err := s.repo.List(ctx, ports.MovieFilter{Search: search, Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}

	return &ports.ListMoviesResult{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *CatalogService) GetMovie(ctx context.Context, id int64) (*domain.Movie, error) {
	metrics.CatalogQueriesTotal.WithLabelValues("get").Inc()
	if id <= 0 {
		return nil, domain.ErrMovieNotFound
	}
	return s.repo.FindByID(ctx, id)
}

func (s *CatalogService) ListAllMovies(ctx context.Context) ([]*domain.Movie, error) {
	return s.repo.ListAll(ctx)
}

// CreateMovie inserts a movie. When an idempotency key is provided and already
// seen, the previously created movie is returned without a second insert.
func (s *CatalogService) CreateMovie(ctx context.Context, in ports.CreateMovieInput) (*domain.Movie, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.SourceURL) == "" {
		return nil, domain.ErrMovieFieldsRequired
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" && s.idempotency != nil {
		if existing := s.replay(ctx, key); existing != nil {
			return existing, nil
		}
	}

	movie, err := s.repo.Create(ctx, &domain.Movie{
		Title:       in.Title,
		SourceURL:   in.SourceURL,
		Description: optional(in.Description),
		ThumbURL:    optional(in.ThumbURL),
		Subtitle:    optional(in.Subtitle),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create movie")
		return nil, err
	}

	if key != "" && s.idempotency != nil {
		if err := s.idempotency.Remember(ctx, key, movie.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to store idempotency key")
		}
	}

	metrics.MovieMutationsTotal.WithLabelValues("create").Inc()
	s.logger.Info().Int64("movie_id", movie.ID).Str("title", movie.Title).Msg("movie created")
	return movie, nil
}

// replay returns the movie remembered under key, or nil when there is none.
// Store failures are logged and treated as a miss.
func (s *CatalogService) replay(ctx context.Context, key string) *domain.Movie {
	id, ok, err := s.idempotency.Lookup(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !ok {
		return nil
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn().Err(err).Int64("movie_id", id).Msg("idempotent replay lookup failed")
		}
		return nil
	}

	metrics.MovieMutationsTotal.WithLabelValues("replay").Inc()
	s.logger.Info().Str("idempotency_key", key).Int64("movie_id", id).Msg("idempotent replay")
	return existing
}

// UpdateMovie applies a partial patch. A missing movie is reported before
// any problem with the patch itself.
func (s *CatalogService) UpdateMovie(ctx context.Context, id int64, patch domain.MoviePatch) (*domain.Movie, error) {
	if id <= 0 {
		return nil, domain.ErrMovieNotFound
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return nil, domain.ErrNoFieldsToUpdate
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, domain.ErrEmptyTitle
	}
	if patch.SourceURL != nil && strings.TrimSpace(*patch.SourceURL) == "" {
		return nil, domain.ErrEmptySourceURL
	}

	movie, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	metrics.MovieMutationsTotal.WithLabelValues("update").Inc()
	s.logger.Info().Int64("movie_id", id).Msg("movie updated")
	return movie, nil
}

func (s *CatalogService) DeleteMovie(ctx context.Context, id int64) (*domain.Movie, error) {
	if id <= 0 {
		return nil, domain.ErrMovieNotFound
	}

	movie, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	metrics.MovieMutationsTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Int64("movie_id", id).Str("title", movie.Title).Msg("movie deleted")
	return movie, nil
}

// optional maps a blank string to NULL.
func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
