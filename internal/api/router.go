package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all routes mounted.
// authEnabled controls whether Bearer token auth is enforced on the
// /api group. Vault files, the stylesheet, and health stay open so
// rendered views can load avatar images without credentials.
// sseHandler, if non-nil, is mounted at GET /api/events.
func NewRouter(h *Handler, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, token))

		// Settings.
		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.UpdateSettings)
		r.Get("/folders", h.ListFolders)

		// People and notes.
		r.Get("/people", h.ListPeople)
		r.Get("/people/*", h.GetPerson)
		r.Get("/notes/*", h.GetNote)

		// Active view.
		r.Post("/view", h.OpenView)
		r.Get("/view", h.GetView)
		r.Put("/view/html", h.UpdateViewHTML)
		r.Post("/decorate", h.Decorate)

		// Host events: inject via POST, subscribe via SSE.
		r.Post("/events", h.PostEvent)
		if sseHandler != nil {
			r.Get("/events", sseHandler.ServeHTTP)
		}
	})

	r.Get("/vault/*", h.VaultFile)
	r.Get("/assets/avatars.css", h.AvatarsCSS)
	r.Get("/health/live", h.Health)
	r.Get("/health/ready", h.Health)

	return r
}
