package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/simple-directory/pkg/directory"
)

// ErrorResponse is the body returned on every failure.
type ErrorResponse struct {
	Message string `json:"message"`
}

// httpStatus maps the engine's status classification to an HTTP code.
func httpStatus(status directory.Status) int {
	switch status {
	case directory.StatusOK:
		return http.StatusOK
	case directory.StatusCreated:
		return http.StatusCreated
	case directory.StatusNoContent:
		return http.StatusNoContent
	case directory.StatusInvalid:
		return http.StatusBadRequest
	case directory.StatusUnauthenticated:
		return http.StatusUnauthorized
	case directory.StatusForbidden:
		return http.StatusForbidden
	case directory.StatusNotFound:
		return http.StatusNotFound
	case directory.StatusConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeResult serializes a service result into an HTTP response.
func writeResult[T any](w http.ResponseWriter, r *http.Request, res directory.Result[T]) {
	code := httpStatus(res.Status())

	if !res.Ok() {
		writeMessage(w, r, code, res.Message())
		return
	}
	if code == http.StatusNoContent {
		w.WriteHeader(code)
		return
	}
	render.Status(r, code)
	render.JSON(w, r, res.Value())
}

func writeMessage(w http.ResponseWriter, r *http.Request, code int, message string) {
	render.Status(r, code)
	render.JSON(w, r, ErrorResponse{Message: message})
}

func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request failed", "path", r.URL.Path, "err", err)
	writeMessage(w, r, http.StatusInternalServerError, "internal error")
}
