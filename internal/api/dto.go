package api

import "github.com/starford/mannaz/internal/models"

// OpenViewRequest opens a note as the active view. Mode "preview"
// (default) renders the note's Markdown server-side; mode "editor"
// takes the client-supplied DOM in HTML.
type OpenViewRequest struct {
	Path string `json:"path" validate:"required"`
	Mode string `json:"mode,omitempty"`
	HTML string `json:"html,omitempty"`
}

// UpdateViewRequest replaces the active view's HTML (editor mode).
type UpdateViewRequest struct {
	HTML string `json:"html" validate:"required"`
}

// ViewResponse describes the active view after an operation.
type ViewResponse struct {
	Path      string `json:"path"`
	HTML      string `json:"html"`
	Decorated int    `json:"decorated"`
}

// DecorateRequest decorates a standalone HTML fragment. When HTML is
// empty the active view is rescanned instead.
type DecorateRequest struct {
	Path string `json:"path"`
	HTML string `json:"html"`
}

// DecorateResponse carries the decorated fragment and the number of
// links decorated by this pass.
type DecorateResponse struct {
	HTML      string `json:"html,omitempty"`
	Decorated int    `json:"decorated"`
}

// EventRequest injects a host event into the bus.
type EventRequest struct {
	Kind string `json:"kind" validate:"required"`
	Path string `json:"path"`
}

// PeopleResponse lists person notes.
type PeopleResponse struct {
	People []models.Person `json:"people"`
	Total  int             `json:"total"`
}

// FoldersResponse lists vault folders holding at least one note, for
// settings folder suggestions.
type FoldersResponse struct {
	Folders []string `json:"folders"`
	Total   int      `json:"total"`
}
