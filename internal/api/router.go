package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/scrapnote/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// loopbackOnly rejects requests that do not originate from a loopback address.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *noteservice.Service, loopbackOnly bool, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(LoopbackOnly(loopbackOnly))
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Get("/files", h.ListFiles)
	r.Get("/file/{name}", h.GetFile)
	r.Post("/file/{name}", h.SaveFile)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

// notFound answers every unknown method or path with an empty 404.
func notFound(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotFound)
}
