package decor

import (
	"golang.org/x/net/html"

	"github.com/starford/mannaz/internal/dom"
)

// Candidate element classes, as produced by the two rendering modes.
const (
	ClassPreviewLink     = "internal-link"
	ClassEditorContainer = "cm-hmd-internal-link"
	ClassEditorUnderline = "cm-underline"
)

// Marker classes and attributes written by the decorator.
const (
	ClassLinkIcon   = "data-link-icon"
	ClassPersonLink = "person-link"
	ClassProcessed  = "person-link-processed"

	AttrAvatar      = "data-link-avatar"
	StyleAvatarProp = "--data-link-avatar"
)

// Role identifies which rendering-mode shape a link candidate has.
// It is computed once per candidate; downstream stages branch on it
// instead of re-probing class lists.
type Role int

const (
	RolePreviewAnchor Role = iota
	RoleEditorUnderline
	RoleEditorContainer
)

// CandidateRole classifies an element as a link candidate, or reports
// false for elements the scanner should ignore. A link container with
// an underline child is not itself a candidate: the underline carries
// the link text and decoration climbs back to the container from it.
func CandidateRole(n *html.Node) (Role, bool) {
	switch {
	case dom.HasClass(n, ClassPreviewLink):
		return RolePreviewAnchor, true
	case dom.HasClass(n, ClassEditorUnderline):
		return RoleEditorUnderline, true
	case dom.HasClass(n, ClassEditorContainer):
		if dom.FindByClass(n, ClassEditorUnderline) != nil {
			return 0, false
		}
		return RoleEditorContainer, true
	}
	return 0, false
}
