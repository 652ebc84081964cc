package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/movieapp/movie-api/internal/api/handler"
	"github.com/movieapp/movie-api/internal/core/domain"
)

const internalErrorMessage = "Internal server error."

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"success": false, "message": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, handler.ErrorResponse{Success: false, Message: msg})
	}
}

var kindStatus = []struct {
	kind   error
	status int
	// fallback is used when the kind arrives without a *domain.Error message.
	fallback string
}{
	{domain.ErrValidation, http.StatusBadRequest, "Invalid request."},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized."},
	{domain.ErrForbidden, http.StatusForbidden, "Forbidden."},
	{domain.ErrNotFound, http.StatusNotFound, "Not found."},
	{domain.ErrConflict, http.StatusConflict, "Conflict."},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Known domain errors → deterministic HTTP codes.
	for _, ks := range kindStatus {
		if !errors.Is(err, ks.kind) {
			continue
		}
		var de *domain.Error
		if errors.As(err, &de) {
			return ks.status, de.Message
		}
		return ks.status, ks.fallback
	}

	// Echo's own errors (router 404/405, body too large, ...).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound:
			return he.Code, "Not found."
		case http.StatusMethodNotAllowed:
			return he.Code, "Method not allowed."
		}
		if he.Code < http.StatusInternalServerError {
			return he.Code, fmt.Sprintf("%v", he.Message)
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, internalErrorMessage
}
