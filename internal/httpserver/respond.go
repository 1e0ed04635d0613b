package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/devlog/internal/account"
	"github.com/dmitrymomot/devlog/internal/auth"
	"github.com/dmitrymomot/devlog/internal/post"
	"github.com/dmitrymomot/devlog/pkg/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// respondError maps domain sentinels onto HTTP statuses. Unknown errors
// become opaque 500s so internals never leak to clients.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, account.ErrNotFound),
		errors.Is(err, account.ErrIdentityNotFound),
		errors.Is(err, post.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"

	case errors.Is(err, account.ErrIdnameTaken):
		status, msg = http.StatusConflict, "idname already taken"
	case errors.Is(err, account.ErrAlreadyActive):
		status, msg = http.StatusConflict, "profile already completed"
	case errors.Is(err, post.ErrSlugTaken):
		status, msg = http.StatusConflict, "slug already in use"

	case errors.Is(err, account.ErrInvalidIdname),
		errors.Is(err, account.ErrUnknownProvider),
		errors.Is(err, post.ErrEmptyTitle),
		errors.Is(err, post.ErrEmptyContent),
		errors.Is(err, post.ErrTitleTooLong),
		errors.Is(err, post.ErrInvalidStatus),
		errors.Is(err, storage.ErrEmptyFile),
		errors.Is(err, storage.ErrFileTooLarge),
		errors.Is(err, storage.ErrUnsupportedImage):
		status, msg = http.StatusBadRequest, err.Error()

	case errors.Is(err, auth.ErrInvalidCredential):
		status, msg = http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, ErrInvalidState):
		status, msg = http.StatusUnauthorized, "invalid oauth state"

	case errors.Is(err, post.ErrNotAuthor):
		status, msg = http.StatusForbidden, "not the author"

	case errors.Is(err, auth.ErrTransientStorage):
		status, msg = http.StatusServiceUnavailable, "temporarily unavailable, retry"
	}

	if status >= http.StatusInternalServerError {
		s.log.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}

	respondJSON(w, status, errorResponse{Error: msg})
}
