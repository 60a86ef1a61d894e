// Package preview renders note Markdown to the HTML served as the
// reading view. Wikilinks become internal-link anchors so the
// decoration engine can pick them up.
package preview

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/starford/mannaz/internal/dom"
	"github.com/starford/mannaz/internal/parser"
)

// Renderer converts Markdown note bodies to preview HTML.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a renderer with GFM extensions enabled.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(ghtml.WithUnsafe()),
		),
	}
}

// Render converts a Markdown body (frontmatter already stripped) to
// preview HTML with wikilinks turned into internal-link anchors.
func (r *Renderer) Render(body string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("preview: convert markdown: %w", err)
	}

	doc, err := dom.ParseDocument(buf.String())
	if err != nil {
		return "", fmt.Errorf("preview: parse rendered html: %w", err)
	}
	wikilinkify(doc)
	out, err := dom.RenderBodyContents(doc)
	if err != nil {
		return "", fmt.Errorf("preview: render html: %w", err)
	}
	return out, nil
}

// RenderNote renders raw note bytes: frontmatter is stripped first.
func (r *Renderer) RenderNote(raw []byte) (string, error) {
	res, err := parser.Parse(raw)
	if err != nil {
		return "", err
	}
	return r.Render(res.Body)
}

// wikilinkify rewrites [[Target]] and [[Target|alias]] occurrences in
// text nodes into internal-link anchors. Text inside code, pre, or an
// existing anchor is left alone.
func wikilinkify(doc *html.Node) {
	var textNodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode && linkable(n.Parent) && parser.WikilinkRe.MatchString(n.Data) {
			textNodes = append(textNodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, n := range textNodes {
		splice(n)
	}
}

func linkable(parent *html.Node) bool {
	for a := parent; a != nil; a = a.Parent {
		if a.Type != html.ElementNode {
			continue
		}
		switch a.Data {
		case "code", "pre", "a", "script", "style":
			return false
		}
	}
	return true
}

// splice replaces one text node with interleaved text and anchor nodes.
func splice(n *html.Node) {
	parent := n.Parent
	data := n.Data

	var nodes []*html.Node
	last := 0
	for _, m := range parser.WikilinkRe.FindAllStringSubmatchIndex(data, -1) {
		if m[0] > last {
			nodes = append(nodes, textNode(data[last:m[0]]))
		}
		inner := data[m[2]:m[3]]
		target := parser.SplitAlias(inner)
		if target == "" {
			// Empty target like [[]]: keep the literal text.
			nodes = append(nodes, textNode(data[m[0]:m[1]]))
		} else {
			nodes = append(nodes, anchor(target, parser.AliasText(inner)))
		}
		last = m[1]
	}
	if last < len(data) {
		nodes = append(nodes, textNode(data[last:]))
	}

	for _, nn := range nodes {
		parent.InsertBefore(nn, n)
	}
	parent.RemoveChild(n)
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func anchor(target, text string) *html.Node {
	a := &html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
		Attr: []html.Attribute{
			{Key: "class", Val: "internal-link"},
			{Key: "data-href", Val: target},
			{Key: "href", Val: target},
		},
	}
	a.AppendChild(textNode(text))
	return a
}
