package decor

import (
	"strings"
	"testing"
)

func TestChoose_ConfiguredAvatar(t *testing.T) {
	sel := NewSelector(adaHost())
	target := &Target{Path: "Sets/People/Ada.md", Frontmatter: map[string]any{"avatar": "ada.png"}}

	got := sel.Choose(target, enabledSettings())
	if got != "app://vault/_Meta/Avatars/ada.png" {
		t.Errorf("url = %q", got)
	}
}

func TestChoose_MissingKey(t *testing.T) {
	sel := NewSelector(adaHost())
	target := &Target{Path: "Sets/People/Ada.md", Frontmatter: map[string]any{}}

	if got := sel.Choose(target, enabledSettings()); got != DefaultAvatarURL() {
		t.Errorf("url = %q, want default", got)
	}
}

func TestChoose_NonStringKey(t *testing.T) {
	sel := NewSelector(adaHost())
	target := &Target{Path: "Sets/People/Ada.md", Frontmatter: map[string]any{"avatar": 42}}

	if got := sel.Choose(target, enabledSettings()); got != DefaultAvatarURL() {
		t.Errorf("url = %q, want default", got)
	}
}

func TestChoose_FileMissing(t *testing.T) {
	sel := NewSelector(adaHost())
	target := &Target{Path: "Sets/People/Grace.md", Frontmatter: map[string]any{"avatar": "grace.png"}}

	if got := sel.Choose(target, enabledSettings()); got != DefaultAvatarURL() {
		t.Errorf("url = %q, want default when the file does not exist", got)
	}
}

func TestChoose_EmptyAvatarFolder(t *testing.T) {
	sel := NewSelector(adaHost())
	target := &Target{Path: "Sets/People/Ada.md", Frontmatter: map[string]any{"avatar": "ada.png"}}
	s := enabledSettings()
	s.AvatarFolderPath = ""

	if got := sel.Choose(target, s); got != DefaultAvatarURL() {
		t.Errorf("url = %q, want default when the avatar folder is unset", got)
	}
}

func TestChoose_NilFrontmatter(t *testing.T) {
	sel := NewSelector(adaHost())
	target := &Target{Path: "Sets/People/Ada.md"}

	if got := sel.Choose(target, enabledSettings()); got != DefaultAvatarURL() {
		t.Errorf("url = %q, want default", got)
	}
}

func TestDefaultAvatarURL_Shape(t *testing.T) {
	got := DefaultAvatarURL()
	if !strings.HasPrefix(got, "data:image/svg+xml,") {
		t.Fatalf("url = %q", got)
	}
	// Pre-encoded once: no raw angle brackets may survive.
	if strings.ContainsAny(got, "<>") {
		t.Errorf("url contains unencoded markup: %q", got)
	}
	if !strings.Contains(got, "currentColor") {
		t.Errorf("silhouette should render in currentColor: %q", got)
	}
}
