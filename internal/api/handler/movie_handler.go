package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/movieapp/movie-api/internal/core/ports"
)

// MovieHandler serves the public catalog and the admin catalog mutations.
type MovieHandler struct {
	catalog ports.CatalogService
	admin   ports.CatalogAdminService
}

func NewMovieHandler(catalog ports.CatalogService, admin ports.CatalogAdminService) *MovieHandler {
	return &MovieHandler{catalog: catalog, admin: admin}
}

// List handles GET /api/movies.
//
// @Summary      List movies
// @Description  Newest first. limit defaults to 50; offset defaults to 0.
// @Tags         movies
// @Produce      json
// @Param        search  query     string  false  "Case-insensitive match on title or description"
// @Param        limit   query     int     false  "Page size"
// @Param        offset  query     int     false  "Rows to skip"
// @Success      200     {object}  moviesPageResponse
// @Failure      500     {object}  ErrorResponse
// @Router       /api/movies [get]
func (h *MovieHandler) List(c echo.Context) error {
	res, err := h.catalog.ListMovies(c.Request().Context(), ports.ListMoviesInput{
		Search: c.QueryParam("search"),
		Limit:  c.QueryParam("limit"),
		Offset: c.QueryParam("offset"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, moviesPageResponse{
		Success: true,
		Movies:  toMovieViews(res.Items),
		Pagination: pagination{
			Total:  res.Total,
			Limit:  res.Limit,
			Offset: res.Offset,
		},
	})
}

// Get handles GET /api/movies/:id.
//
// @Summary      Get a movie
// @Tags         movies
// @Produce      json
// @Param        id   path      int  true  "Movie ID"
// @Success      200  {object}  movieResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/movies/{id} [get]
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := movieID(c)
	if err != nil {
		return err
	}

	movie, err := h.catalog.GetMovie(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, movieResponse{Success: true, Movie: toMovieView(movie)})
}

// ListAll handles GET /api/admin/movies.
//
// @Summary      List every movie
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  moviesResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /api/admin/movies [get]
func (h *MovieHandler) ListAll(c echo.Context) error {
	movies, err := h.admin.ListAllMovies(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, moviesResponse{Success: true, Movies: toMovieViews(movies)})
}

// Create handles POST /api/admin/movies.
//
// @Summary      Create a movie
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string              false  "Replays the first response for a repeated key"
// @Param        body             body      createMovieRequest  true   "Movie fields"
// @Success      201              {object}  movieResponse
// @Failure      400              {object}  ErrorResponse
// @Failure      401              {object}  ErrorResponse
// @Failure      403              {object}  ErrorResponse
// @Router       /api/admin/movies [post]
func (h *MovieHandler) Create(c echo.Context) error {
	var req createMovieRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	idempotencyKey := c.Request().Header.Get("Idempotency-Key")
	movie, err := h.admin.CreateMovie(c.Request().Context(), toCreateMovieInput(req, idempotencyKey))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, movieResponse{
		Success: true,
		Message: "Movie created successfully.",
		Movie:   toMovieView(movie),
	})
}

// Update handles PUT /api/admin/movies/:id. Only fields present in the body
// change; null clears an optional field.
//
// @Summary      Update a movie
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Movie ID"
// @Param        body  body      updateMovieRequest  true  "Fields to change"
// @Success      200   {object}  movieResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/admin/movies/{id} [put]
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := movieID(c)
	if err != nil {
		return err
	}

	var req updateMovieRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	movie, err := h.admin.UpdateMovie(c.Request().Context(), id, toMoviePatch(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, movieResponse{
		Success: true,
		Message: "Movie updated successfully.",
		Movie:   toMovieView(movie),
	})
}

// Delete handles DELETE /api/admin/movies/:id.
//
// @Summary      Delete a movie
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Movie ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/admin/movies/{id} [delete]
func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := movieID(c)
	if err != nil {
		return err
	}

	movie, err := h.admin.DeleteMovie(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{
		Success: true,
		Message: "Movie \"" + movie.Title + "\" deleted successfully.",
	})
}
