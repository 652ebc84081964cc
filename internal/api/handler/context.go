package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/movieapp/movie-api/internal/api/middleware"
	"github.com/movieapp/movie-api/internal/core/domain"
)

// ctxIdentity returns the identity attached by RequireAuth. Its absence means
// the route was registered without the middleware; answer 401 rather than
// proceed anonymously.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.ErrMissingToken
	}
	return id, nil
}

// movieID parses the :id path parameter. Anything that is not a positive
// integer cannot name a movie.
func movieID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrMovieNotFound
	}
	return id, nil
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Validation("Invalid request body.")
	}
	return c.Validate(req)
}
