package decor

import (
	"golang.org/x/net/html"

	"github.com/starford/mannaz/internal/dom"
)

// Decorate attaches the avatar marker to a link element. In editor mode
// the marker lands on the link-container ancestor; the inner text span
// gets the visual classes but not the sentinel. Returns false when the
// host element already carries the sentinel (nothing was written).
//
// The decorator only writes its own attributes, classes, and custom
// property; everything else on the element is left untouched.
func Decorate(el *html.Node, avatarURL string) bool {
	hostEl := el
	if anc := dom.ClosestByClass(el, ClassEditorContainer); anc != nil {
		hostEl = anc
	}

	if dom.HasClass(hostEl, ClassProcessed) {
		return false
	}

	dom.SetAttr(hostEl, AttrAvatar, avatarURL)
	dom.SetStyleProperty(hostEl, StyleAvatarProp, "url('"+avatarURL+"')")
	dom.AddClass(hostEl, ClassLinkIcon)
	dom.AddClass(hostEl, ClassPersonLink)
	dom.AddClass(hostEl, ClassProcessed)

	if hostEl != el {
		dom.AddClass(el, ClassLinkIcon)
		dom.AddClass(el, ClassPersonLink)
	}
	return true
}
