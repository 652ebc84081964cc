package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/movieapp/movie-api/internal/core/domain"
	"github.com/movieapp/movie-api/internal/core/ports"
)

// RequireAuth verifies the bearer token and attaches the identity to the
// request context. Failures are returned as domain errors for the central
// error handler to render as 401.
func RequireAuth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.ErrMissingToken
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
				return domain.ErrMissingToken
			}

			id, err := verifier.Verify(token)
			if err != nil {
				return domain.ErrInvalidToken
			}

			req := c.Request()
			c.SetRequest(req.WithContext(domain.WithIdentity(req.Context(), id)))
			return next(c)
		}
	}
}

// IdentityFrom returns the identity RequireAuth attached to the request.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	return domain.IdentityFrom(c.Request().Context())
}
