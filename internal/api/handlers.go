package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/starford/scrapnote/internal/apperr"
	"github.com/starford/scrapnote/internal/noteservice"
)

const maxBodyBytes = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// noteName extracts the note name from the URL. chi matches on the escaped
// path when the request carried escapes (e.g. a%2Fb), so only then is the
// parameter decoded.
func noteName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return raw
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// writeStoreError maps store errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, op, name string, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalidName):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error(op+" failed", slog.String("name", name), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "store unavailable")
	}
}

// ListFiles handles GET /api/files?key=.
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	items, err := h.svc.ListNotes(r.Context(), key)
	if err != nil {
		writeStoreError(w, "list files", key, err)
		return
	}
	writeJSON(w, http.StatusOK, FilesResponse{Files: items})
}

// GetFile handles GET /api/file/{name}. Missing notes are created empty.
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	name := noteName(r)
	content, err := h.svc.GetNote(r.Context(), name)
	if err != nil {
		writeStoreError(w, "get file", name, err)
		return
	}
	writeJSON(w, http.StatusOK, FileContentResponse{Content: content})
}

// SaveFile handles POST /api/file/{name}. Responds 200 with an empty body.
func (h *Handler) SaveFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	name := noteName(r)

	var req SaveFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.svc.SaveNote(r.Context(), name, req.Content); err != nil {
		writeStoreError(w, "save file", name, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
