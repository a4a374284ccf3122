package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/cleantree/internal/scrub"
)

// ResponseError is the body of every non-2xx response.
type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
}

func writeError(c *echo.Context, status int, errType, msg, id string) error {
	return writeJSON(c, status, map[string]any{
		"error": ResponseError{Message: msg, Type: errType, ID: id},
	})
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg, "")
}

// writeScrubError maps a failed run onto a status code.
func writeScrubError(c *echo.Context, id string, err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return writeError(c, http.StatusRequestEntityTooLarge, "request_too_large", err.Error(), id)
	case errors.Is(err, scrub.ErrShortHeader), errors.Is(err, scrub.ErrMarkerNotFound):
		return writeError(c, http.StatusUnprocessableEntity, "invalid_tree_error", err.Error(), id)
	case errors.Is(err, scrub.ErrInvariant):
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), id)
	default:
		return writeError(c, http.StatusBadRequest, "read_error", err.Error(), id)
	}
}
