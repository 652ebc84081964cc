package handler

import (
	"github.com/movieapp/movie-api/internal/core/domain"
	"github.com/movieapp/movie-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateMovieInput(req createMovieRequest, idempotencyKey string) ports.CreateMovieInput {
	return ports.CreateMovieInput{
		Title:          req.Title,
		Description:    req.Description,
		SourceURL:      req.SourceURL,
		ThumbURL:       req.ThumbURL,
		Subtitle:       req.Subtitle,
		IdempotencyKey: idempotencyKey,
	}
}

func toMoviePatch(req updateMovieRequest) domain.MoviePatch {
	return domain.MoviePatch{
		Title:       req.Title.text(),
		SourceURL:   req.SourceURL.text(),
		Description: req.Description.nullable(),
		ThumbURL:    req.ThumbURL.nullable(),
		Subtitle:    req.Subtitle.nullable(),
	}
}

// --- Domain → Response ---

func toUserView(u *domain.User) userView {
	return userView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func toUserViews(users []*domain.User) []userView {
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, toUserView(u))
	}
	return out
}

func toMovieView(m *domain.Movie) movieView {
	return movieView{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		SourceURL:   m.SourceURL,
		ThumbURL:    m.ThumbURL,
		Subtitle:    m.Subtitle,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toMovieViews(movies []*domain.Movie) []movieView {
	out := make([]movieView, 0, len(movies))
	for _, m := range movies {
		out = append(out, toMovieView(m))
	}
	return out
}
