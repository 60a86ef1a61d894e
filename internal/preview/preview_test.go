package preview

import (
	"strings"
	"testing"
)

func TestRenderWikilink(t *testing.T) {
	out, err := New().Render("Met with [[Ada Lovelace]] today.")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := `<a class="internal-link" data-href="Ada Lovelace" href="Ada Lovelace">Ada Lovelace</a>`
	if !strings.Contains(out, want) {
		t.Errorf("Render() = %q, want it to contain %q", out, want)
	}
}

func TestRenderWikilinkAlias(t *testing.T) {
	out, err := New().Render("See [[Sets/People/Ada|Ada]].")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, `data-href="Sets/People/Ada"`) {
		t.Errorf("Render() missing target: %q", out)
	}
	if !strings.Contains(out, `>Ada</a>`) {
		t.Errorf("Render() missing alias text: %q", out)
	}
	if strings.Contains(out, "[[") {
		t.Errorf("Render() left raw wikilink syntax: %q", out)
	}
}

func TestRenderSkipsCodeSpans(t *testing.T) {
	out, err := New().Render("Use `[[Ada]]` literally.\n\n```\n[[Bob]]\n```\n")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(out, "internal-link") {
		t.Errorf("Render() linked inside code: %q", out)
	}
	if !strings.Contains(out, "[[Ada]]") || !strings.Contains(out, "[[Bob]]") {
		t.Errorf("Render() lost literal code content: %q", out)
	}
}

func TestRenderMarkdownStructure(t *testing.T) {
	out, err := New().Render("# Heading\n\nSome *emphasis* and [[Ada]].")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, want := range []string{"<h1", "<em>emphasis</em>", `class="internal-link"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() = %q, want it to contain %q", out, want)
		}
	}
}

func TestRenderNoteStripsFrontmatter(t *testing.T) {
	raw := []byte("---\ntitle: Daily\n---\nHello [[Ada]].\n")
	out, err := New().RenderNote(raw)
	if err != nil {
		t.Fatalf("RenderNote() error = %v", err)
	}
	if strings.Contains(out, "title:") {
		t.Errorf("RenderNote() leaked frontmatter: %q", out)
	}
	if !strings.Contains(out, `data-href="Ada"`) {
		t.Errorf("RenderNote() missing link: %q", out)
	}
}

func TestRenderMultipleLinksInOneTextNode(t *testing.T) {
	out, err := New().Render("[[Ada]] and [[Bob|Robert]] met.")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := strings.Count(out, `class="internal-link"`); got != 2 {
		t.Errorf("anchor count = %d, want 2: %q", got, out)
	}
	if !strings.Contains(out, " and ") {
		t.Errorf("Render() lost interleaved text: %q", out)
	}
}
