package dom

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func parse(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := ParseDocument(s)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	return doc
}

func TestHasAndAddClass(t *testing.T) {
	doc := parse(t, `<a class="internal-link other">x</a>`)
	a := FindElement(doc, "a")
	if !HasClass(a, "internal-link") {
		t.Error("HasClass(internal-link) = false")
	}
	if HasClass(a, "internal") {
		t.Error("HasClass should not match class substrings")
	}

	AddClass(a, "person-link")
	AddClass(a, "person-link")
	if got := Attr(a, "class"); got != "internal-link other person-link" {
		t.Errorf("class = %q", got)
	}
}

func TestAddClass_EmptyAttribute(t *testing.T) {
	doc := parse(t, `<span>x</span>`)
	span := FindElement(doc, "span")
	AddClass(span, "person-link")
	if got := Attr(span, "class"); got != "person-link" {
		t.Errorf("class = %q", got)
	}
}

func TestSetStyleProperty_PreservesOthers(t *testing.T) {
	doc := parse(t, `<a style="color: red; margin: 0">x</a>`)
	a := FindElement(doc, "a")

	SetStyleProperty(a, "--data-link-avatar", "url('/vault/a.png')")
	if got := StyleProperty(a, "--data-link-avatar"); got != "url('/vault/a.png')" {
		t.Errorf("property = %q", got)
	}
	if got := StyleProperty(a, "color"); got != "red" {
		t.Errorf("color = %q, other declarations must survive", got)
	}
	if got := StyleProperty(a, "margin"); got != "0" {
		t.Errorf("margin = %q", got)
	}

	// Replacing the same property must not duplicate it.
	SetStyleProperty(a, "--data-link-avatar", "url('/vault/b.png')")
	if n := strings.Count(Attr(a, "style"), "--data-link-avatar"); n != 1 {
		t.Errorf("property occurs %d times, want 1", n)
	}
}

func TestClosestByClass(t *testing.T) {
	doc := parse(t, `<span class="cm-hmd-internal-link"><span class="cm-underline">Ada</span></span>`)
	inner := FindByClass(doc, "cm-underline")
	outer := ClosestByClass(inner, "cm-hmd-internal-link")
	if outer == nil || !HasClass(outer, "cm-hmd-internal-link") {
		t.Fatal("expected the container ancestor")
	}
	if ClosestByClass(inner, "nope") != nil {
		t.Error("expected nil for absent class")
	}
	// Inclusive: a node matches itself.
	if got := ClosestByClass(outer, "cm-hmd-internal-link"); got != outer {
		t.Error("ClosestByClass should be inclusive of the start node")
	}
}

func TestIsAttached(t *testing.T) {
	doc := parse(t, `<a class="internal-link">x</a>`)
	a := FindElement(doc, "a")
	if !IsAttached(a) {
		t.Error("parsed node should be attached to its document")
	}

	detached := &html.Node{Type: html.ElementNode, Data: "a"}
	if IsAttached(detached) {
		t.Error("freestanding node should not be attached")
	}
}

func TestWalkElements_DocumentOrder(t *testing.T) {
	doc := parse(t, `<p><a>1</a></p><p><a>2</a><a>3</a></p>`)
	var order []string
	WalkElements(doc, func(n *html.Node) {
		if n.Data == "a" {
			order = append(order, Text(n))
		}
	})
	if strings.Join(order, "") != "123" {
		t.Errorf("order = %v", order)
	}
}

func TestRenderBodyContents_RoundTrip(t *testing.T) {
	in := `<p>hello <a class="internal-link" href="Ada">Ada</a></p>`
	doc := parse(t, in)
	out, err := RenderBodyContents(doc)
	if err != nil {
		t.Fatalf("RenderBodyContents: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %q, want %q", out, in)
	}
}

func TestText(t *testing.T) {
	doc := parse(t, `<span>[[Ada <b>Lovelace</b>]]</span>`)
	if got := Text(FindElement(doc, "span")); got != "[[Ada Lovelace]]" {
		t.Errorf("Text = %q", got)
	}
}
