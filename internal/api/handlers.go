package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/mannaz/internal/apperr"
	"github.com/starford/mannaz/internal/checksum"
	"github.com/starford/mannaz/internal/driver"
	"github.com/starford/mannaz/internal/events"
	"github.com/starford/mannaz/internal/index"
	"github.com/starford/mannaz/internal/models"
	"github.com/starford/mannaz/internal/parser"
	"github.com/starford/mannaz/internal/people"
	"github.com/starford/mannaz/internal/preview"
	"github.com/starford/mannaz/internal/settings"
	"github.com/starford/mannaz/internal/storage"
)

// Handler holds API route handlers.
type Handler struct {
	settings *settings.Store
	people   *people.Service
	driver   *driver.Driver
	renderer *preview.Renderer
	storage  storage.Provider
	cache    index.MetadataCache
	bus      *events.Bus
}

// NewHandler creates a new Handler.
func NewHandler(store *settings.Store, svc *people.Service, d *driver.Driver, renderer *preview.Renderer, provider storage.Provider, cache index.MetadataCache, bus *events.Bus) *Handler {
	return &Handler{
		settings: store,
		people:   svc,
		driver:   d,
		renderer: renderer,
		storage:  provider,
		cache:    cache,
		bus:      bus,
	}
}

// wildcardPath extracts the trailing path from the URL. Supports
// encoded slashes from OpenAPI clients (e.g. Sets%2FPeople%2FAda.md).
func wildcardPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// GetSettings handles GET /api/settings.
//
//	@Summary		Get the current avatar settings
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	models.AvatarSettings
//	@Security		BearerAuth
//	@Router			/settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settings.Snapshot())
}

// UpdateSettings handles PUT /api/settings.
//
//	@Summary		Replace the avatar settings
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			body	body		models.AvatarSettings	true	"New settings"
//	@Success		200		{object}	models.AvatarSettings
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/settings [put]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req models.AvatarSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.settings.Save(req); err != nil {
		if errors.Is(err, apperr.ErrInvalidSettings) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		} else {
			slog.Error("save settings failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, h.settings.Snapshot())
}

// ListPeople handles GET /api/people.
//
//	@Summary		List person notes with their avatar URLs
//	@Tags			people
//	@Produce		json
//	@Success		200	{object}	PeopleResponse
//	@Security		BearerAuth
//	@Router			/people [get]
func (h *Handler) ListPeople(w http.ResponseWriter, r *http.Request) {
	items, err := h.people.List()
	if err != nil {
		slog.Error("list people failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, PeopleResponse{People: items, Total: len(items)})
}

// GetPerson handles GET /api/people/*.
//
//	@Summary		Get one person note by path
//	@Tags			people
//	@Produce		json
//	@Param			path	path		string	true	"Note path"
//	@Success		200		{object}	models.Person
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/people/{path} [get]
func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) {
	p := wildcardPath(r)
	if p == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	person, err := h.people.Get(p)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get person failed", slog.String("path", p), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, person)
}

// ListFolders handles GET /api/folders: every vault folder that holds
// at least one note, for settings folder suggestions.
//
//	@Summary		List folders containing notes
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	FoldersResponse
//	@Security		BearerAuth
//	@Router			/folders [get]
func (h *Handler) ListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.cache.Folders()
	if err != nil {
		slog.Error("list folders failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, FoldersResponse{Folders: folders, Total: len(folders)})
}

// GetNote handles GET /api/notes/*: the parsed note behind a path, with
// frontmatter, body, and outgoing wikilinks split out.
//
//	@Summary		Get a parsed note by path
//	@Tags			notes
//	@Produce		json
//	@Param			path	path		string	true	"Note path"
//	@Success		200		{object}	models.Note
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{path} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	p := wildcardPath(r)
	if p == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	raw, err := h.storage.Read(p)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	res, err := parser.Parse(raw)
	if err != nil {
		slog.Error("parse note failed", slog.String("path", p), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	title := res.Title
	if title == "" {
		title = index.Stem(p)
	}
	note := models.Note{
		Path:        p,
		Body:        res.Body,
		Frontmatter: res.Frontmatter,
		Title:       title,
		Links:       res.Links,
		Checksum:    checksum.Sum(raw),
	}
	// A walk over the single file recovers its modification time.
	if metas, err := h.storage.List(p); err == nil && len(metas) == 1 {
		note.UpdatedAt = metas[0].UpdatedAt
	}
	writeJSON(w, http.StatusOK, note)
}

// OpenView handles POST /api/view: renders a note to preview HTML,
// makes it the active view, and decorates it.
//
//	@Summary		Open a note as the active view
//	@Tags			view
//	@Accept			json
//	@Produce		json
//	@Param			body	body		OpenViewRequest	true	"Note to open"
//	@Success		200		{object}	ViewResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/view [post]
func (h *Handler) OpenView(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req OpenViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}

	var rendered string
	switch req.Mode {
	case "editor":
		// Editor mode: the client supplies the CodeMirror-shaped DOM.
		if req.HTML == "" {
			writeJSON(w, http.StatusBadRequest, errorBody("html is required in editor mode"))
			return
		}
		if !h.storage.Exists(req.Path) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		rendered = req.HTML
	case "", "preview":
		raw, err := h.storage.Read(req.Path)
		if err != nil {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		rendered, err = h.renderer.RenderNote(raw)
		if err != nil {
			slog.Error("render note failed", slog.String("path", req.Path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			return
		}
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("mode must be preview or editor"))
		return
	}

	count, err := h.driver.OpenView(req.Path, rendered)
	if err != nil {
		slog.Error("open view failed", slog.String("path", req.Path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	h.bus.Publish(events.Event{Kind: events.KindFileOpen, Path: req.Path})

	h.writeView(w, count)
}

// GetView handles GET /api/view.
//
//	@Summary		Get the active view's decorated HTML
//	@Tags			view
//	@Produce		json
//	@Success		200	{object}	ViewResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/view [get]
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	h.writeView(w, 0)
}

// UpdateViewHTML handles PUT /api/view/html: replaces the active
// view's DOM with editor-produced HTML and decorates it.
//
//	@Summary		Replace the active view's HTML
//	@Tags			view
//	@Accept			json
//	@Produce		json
//	@Param			body	body		UpdateViewRequest	true	"New HTML"
//	@Success		200		{object}	ViewResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/view/html [put]
func (h *Handler) UpdateViewHTML(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req UpdateViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.HTML == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("html is required"))
		return
	}

	count, err := h.driver.UpdateViewHTML(req.HTML)
	if err != nil {
		if errors.Is(err, apperr.ErrNoActiveView) {
			writeJSON(w, http.StatusNotFound, errorBody("no active view"))
		} else {
			slog.Error("update view failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	h.bus.Publish(events.Event{Kind: events.KindEditorChange})

	h.writeView(w, count)
}

func (h *Handler) writeView(w http.ResponseWriter, decorated int) {
	p, html, err := h.driver.HTML()
	if err != nil {
		if errors.Is(err, apperr.ErrNoActiveView) {
			writeJSON(w, http.StatusNotFound, errorBody("no active view"))
		} else {
			slog.Error("render view failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, ViewResponse{Path: p, HTML: html, Decorated: decorated})
}

// Decorate handles POST /api/decorate. With an HTML body it decorates
// the fragment statelessly; without one it rescans the active view.
//
//	@Summary		Decorate an HTML fragment or rescan the active view
//	@Tags			view
//	@Accept			json
//	@Produce		json
//	@Param			body	body		DecorateRequest	true	"Fragment to decorate"
//	@Success		200		{object}	DecorateResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/decorate [post]
func (h *Handler) Decorate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req DecorateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	if req.HTML == "" {
		count, err := h.driver.Scan()
		if err != nil {
			if errors.Is(err, apperr.ErrNoActiveView) {
				writeJSON(w, http.StatusNotFound, errorBody("no active view"))
			} else {
				slog.Error("scan failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			}
			return
		}
		writeJSON(w, http.StatusOK, DecorateResponse{Decorated: count})
		return
	}

	out, count, err := h.driver.DecorateFragment(req.HTML, req.Path)
	if err != nil {
		slog.Error("decorate fragment failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, DecorateResponse{HTML: out, Decorated: count})
}

// PostEvent handles POST /api/events: injects a host event.
//
//	@Summary		Inject a host event
//	@Tags			events
//	@Accept			json
//	@Param			body	body	EventRequest	true	"Event to publish"
//	@Success		202		"Event accepted"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/events [post]
func (h *Handler) PostEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	kind := events.Kind(req.Kind)
	switch kind {
	case events.KindFileOpen, events.KindActiveLeafChange, events.KindEditorChange,
		events.KindLayoutChange, events.KindMutation, events.KindVaultChange:
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("unknown event kind"))
		return
	}
	h.bus.Publish(events.Event{Kind: kind, Path: req.Path})
	w.WriteHeader(http.StatusAccepted)
}

// VaultFile handles GET /vault/*: serves raw vault files (avatar
// images, note sources) read-only.
func (h *Handler) VaultFile(w http.ResponseWriter, r *http.Request) {
	p := wildcardPath(r)
	if p == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	data, err := h.storage.Read(p)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	ct := mime.TypeByExtension(path.Ext(p))
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(data)
}

// AvatarsCSS handles GET /assets/avatars.css.
func (h *Handler) AvatarsCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write([]byte(AvatarsCSS))
}

// Health handles GET /health/live and GET /health/ready.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
