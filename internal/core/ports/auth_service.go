package ports

import (
	"context"

	"github.com/movieapp/movie-api/internal/core/domain"
)

type RegisterInput struct {
	Username string
	Password string
	Email    string
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	Token string
	User  *domain.User
}

// TokenVerifier is the slice of the auth service the access gate needs.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

type AuthService interface {
	TokenVerifier
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	CurrentUser(ctx context.Context, id domain.Identity) (*domain.User, error)
}
