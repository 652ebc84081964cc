package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/movieapp/movie-api/internal/core/domain"
)

// RBAC admits requests whose identity holds one of the allowed roles. It must
// run after RequireAuth; a request with no identity is treated as
// unauthenticated, never as allowed.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrMissingToken
			}
			if _, ok := allowed[id.Role]; !ok {
				return domain.ErrAdminRequired
			}
			return next(c)
		}
	}
}

// RequireAdmin is RBAC restricted to administrators.
func RequireAdmin() echo.MiddlewareFunc {
	return RBAC(domain.RoleAdmin)
}
