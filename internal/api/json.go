package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/savscan/internal/apperr"
	"github.com/starford/savscan/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeLoadError maps a service error onto a status code.
func writeLoadError(w http.ResponseWriter, op, path string, err error) {
	switch {
	case errors.Is(err, storage.ErrInvalidPath):
		writeJSON(w, http.StatusBadRequest, errorBody("invalid save path"))
	case errors.Is(err, apperr.ErrFileNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("save not found"))
	case apperr.IsLoadError(err):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
	default:
		slog.Error(op+" failed", slog.String("save", path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
