// Package dom provides the small slice of DOM behavior the decoration
// engine needs on top of golang.org/x/net/html nodes: class lists,
// attributes, inline-style custom properties, and tree queries.
package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ParseDocument parses an HTML string into a full document node.
// Fragments are accepted; the parser wraps them in html/body.
func ParseDocument(s string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return doc, nil
}

// RenderNode serializes a node (and its subtree) back to HTML.
func RenderNode(n *html.Node) (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return "", fmt.Errorf("dom: render: %w", err)
	}
	return sb.String(), nil
}

// RenderBodyContents serializes the children of the document's body,
// recovering the original fragment from a ParseDocument round trip.
func RenderBodyContents(doc *html.Node) (string, error) {
	body := FindElement(doc, "body")
	if body == nil {
		return RenderNode(doc)
	}
	var sb strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			return "", fmt.Errorf("dom: render: %w", err)
		}
	}
	return sb.String(), nil
}

// Attr returns the value of an attribute, or "" when absent.
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// SetAttr sets or replaces an attribute value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// HasClass reports whether the node's class attribute contains class.
func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends class to the node's class attribute unless present.
func AddClass(n *html.Node, class string) {
	if HasClass(n, class) {
		return
	}
	cur := Attr(n, "class")
	if cur == "" {
		SetAttr(n, "class", class)
		return
	}
	SetAttr(n, "class", cur+" "+class)
}

// SetStyleProperty sets one declaration in the node's inline style,
// replacing a prior declaration of the same property and leaving every
// other declaration untouched.
func SetStyleProperty(n *html.Node, prop, value string) {
	decls := splitStyle(Attr(n, "style"))
	out := make([]string, 0, len(decls)+1)
	for _, d := range decls {
		if name, _, ok := strings.Cut(d, ":"); ok && strings.TrimSpace(name) == prop {
			continue
		}
		out = append(out, d)
	}
	out = append(out, prop+": "+value)
	SetAttr(n, "style", strings.Join(out, "; "))
}

// StyleProperty returns the value of one inline-style declaration, or "".
func StyleProperty(n *html.Node, prop string) string {
	for _, d := range splitStyle(Attr(n, "style")) {
		if name, val, ok := strings.Cut(d, ":"); ok && strings.TrimSpace(name) == prop {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

func splitStyle(style string) []string {
	var out []string
	for _, d := range strings.Split(style, ";") {
		d = strings.TrimSpace(d)
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}

// ClosestByClass walks from n upward (inclusive) and returns the first
// element carrying the class, or nil.
func ClosestByClass(n *html.Node, class string) *html.Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode && HasClass(cur, class) {
			return cur
		}
	}
	return nil
}

// IsAttached reports whether n is reachable from a document root.
func IsAttached(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == html.DocumentNode {
			return true
		}
	}
	return false
}

// WalkElements visits every element under root in document order.
func WalkElements(root *html.Node, fn func(*html.Node)) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			fn(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}

// Text returns the concatenated text content of a subtree.
func Text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// FindElement returns the first element with the given tag name, or nil.
func FindElement(root *html.Node, tag string) *html.Node {
	var found *html.Node
	WalkElements(root, func(n *html.Node) {
		if found == nil && n.Data == tag {
			found = n
		}
	})
	return found
}

// FindByClass returns the first element carrying the class, or nil.
func FindByClass(root *html.Node, class string) *html.Node {
	var found *html.Node
	WalkElements(root, func(n *html.Node) {
		if found == nil && HasClass(n, class) {
			found = n
		}
	})
	return found
}
