package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starford/savscan/internal/models"
	"github.com/starford/savscan/internal/saveservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *saveservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *saveservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListSaves handles GET /api/saves.
//
//	@Summary		List save files under the save directory
//	@Tags			saves
//	@Produce		json
//	@Success		200		{object}	SaveListResponse
//	@Security		BearerAuth
//	@Router			/saves [get]
func (h *Handler) ListSaves(w http.ResponseWriter, r *http.Request) {
	saves, err := h.svc.ListSaves(r.Context())
	if err != nil {
		slog.Error("list saves failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, SaveListResponse{Saves: saves, Total: len(saves)})
}

// Summary handles GET /api/saves/summary.
//
//	@Summary		Decode a save and describe its root
//	@Tags			saves
//	@Produce		json
//	@Param			save	query		string	true	"Save path relative to the save directory"
//	@Success		200		{object}	SummaryResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/saves/summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("save")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("save is required"))
		return
	}
	res, err := h.svc.Summary(r.Context(), path)
	if err != nil {
		writeLoadError(w, "summary", path, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// FindValue handles GET /api/search/value.
//
//	@Summary		Find string values equal to or containing q
//	@Tags			search
//	@Produce		json
//	@Param			save			query		string	true	"Save path"
//	@Param			q				query		string	true	"Target text"
//	@Param			case_sensitive	query		bool	false	"Match case exactly"
//	@Success		200				{object}	SearchResponse
//	@Failure		400				{object}	errResponse
//	@Failure		404				{object}	errResponse
//	@Failure		422				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search/value [get]
func (h *Handler) FindValue(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, models.ModeValue, h.svc.FindValue)
}

// FindKey handles GET /api/search/key.
//
//	@Summary		Find keys whose name contains q
//	@Tags			search
//	@Produce		json
//	@Param			save			query		string	true	"Save path"
//	@Param			q				query		string	true	"Key substring"
//	@Param			case_sensitive	query		bool	false	"Match case exactly"
//	@Success		200				{object}	SearchResponse
//	@Failure		400				{object}	errResponse
//	@Failure		404				{object}	errResponse
//	@Failure		422				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search/key [get]
func (h *Handler) FindKey(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, models.ModeKey, h.svc.FindKey)
}

type searchFunc func(ctx context.Context, path, q string, caseSensitive bool) (*models.SearchResult, error)

func (h *Handler) search(w http.ResponseWriter, r *http.Request, mode string, fn searchFunc) {
	query := r.URL.Query()
	path := query.Get("save")
	q := query.Get("q")
	if path == "" || q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("save and q are required"))
		return
	}
	caseSensitive := false
	if raw := query.Get("case_sensitive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("case_sensitive must be a boolean"))
			return
		}
		caseSensitive = v
	}
	res, err := fn(r.Context(), path, q, caseSensitive)
	if err != nil {
		writeLoadError(w, mode+" search", path, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
