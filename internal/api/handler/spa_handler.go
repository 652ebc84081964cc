package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/movieapp/movie-api/internal/core/domain"
)

var errAPINotFound = domain.NotFound("API endpoint not found.")

// SPAHandler serves the built browser client. Unknown paths fall back to
// index.html so client-side routing works; unknown /api paths are 404s.
type SPAHandler struct {
	root string
}

func NewSPAHandler(root string) *SPAHandler {
	return &SPAHandler{root: root}
}

type apiIndex struct {
	Message   string         `json:"message"`
	Version   string         `json:"version"`
	Endpoints map[string]any `json:"endpoints"`
}

func (h *SPAHandler) Serve(c echo.Context) error {
	p := c.Request().URL.Path
	if p == "/api" || strings.HasPrefix(p, "/api/") {
		return errAPINotFound
	}

	// path.Clean on a rooted path cannot climb above the root.
	rel := filepath.FromSlash(path.Clean("/" + p))
	if file := filepath.Join(h.root, rel); isFile(file) {
		return c.File(file)
	}

	index := filepath.Join(h.root, "index.html")
	if isFile(index) {
		return c.File(index)
	}

	return c.JSON(http.StatusOK, apiIndex{
		Message: "Movie App API Server",
		Version: "1.0.0",
		Endpoints: map[string]any{
			"health": "GET /health",
			"auth": map[string]string{
				"register": "POST /api/auth/register",
				"login":    "POST /api/auth/login",
				"me":       "GET /api/auth/me",
			},
			"movies": map[string]string{
				"list":   "GET /api/movies",
				"detail": "GET /api/movies/:id",
			},
			"admin": map[string]string{
				"movies":      "GET/POST /api/admin/movies",
				"movieDetail": "PUT/DELETE /api/admin/movies/:id",
				"users":       "GET /api/admin/users",
				"stats":       "GET /api/admin/stats",
			},
		},
	})
}

func isFile(name string) bool {
	fi, err := os.Stat(name)
	return err == nil && !fi.IsDir()
}
