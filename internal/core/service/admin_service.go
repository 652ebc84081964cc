package service

import (
	"context"
	"fmt"

	"github.com/movieapp/movie-api/internal/core/domain"
	"github.com/movieapp/movie-api/internal/core/ports"
)

// AdminService backs the admin dashboard reports.
type AdminService struct {
	users  ports.UserRepository
	movies ports.MovieRepository
}

func NewAdminService(users ports.UserRepository, movies ports.MovieRepository) *AdminService {
	return &AdminService{users: users, movies: movies}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *AdminService) Stats(ctx context.Context) (*domain.Stats, error) {
	movies, err := s.movies.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count movies: %w", err)
	}
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	admins, err := s.users.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("count admins: %w", err)
	}

	return &domain.Stats{TotalMovies: movies, TotalUsers: users, TotalAdmins: admins}, nil
}
