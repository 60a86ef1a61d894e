package decor

import (
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/starford/mannaz/internal/dom"
	"github.com/starford/mannaz/internal/parser"
)

// Target is a resolved link destination: the note's path and its
// frontmatter mapping.
type Target struct {
	Path        string
	Frontmatter map[string]any
}

// Resolver maps a candidate element to its target note. Host errors are
// swallowed at debug level; the resolver never fails loudly.
type Resolver struct {
	host   Host
	logger *slog.Logger
}

// NewResolver creates a resolver bound to a host.
func NewResolver(host Host, logger *slog.Logger) *Resolver {
	return &Resolver{host: host, logger: logger}
}

// Resolve tries the role-appropriate link texts in order and returns the
// first target the host resolves. Editor underline spans carry the link
// as visible text; other candidates prefer data-href, then href, then
// fall back to text content.
func (r *Resolver) Resolve(el *html.Node, role Role, sourcePath string) (*Target, bool) {
	var candidates []string
	if role == RoleEditorUnderline {
		candidates = []string{normalizeLinkText(dom.Text(el))}
	} else {
		candidates = []string{
			encodeAttrValue(dom.Attr(el, "data-href")),
			encodeAttrValue(dom.Attr(el, "href")),
			normalizeLinkText(dom.Text(el)),
		}
	}

	for _, c := range candidates {
		if c == "" {
			continue
		}
		path, err := r.host.ResolveLinkPath(c, sourcePath)
		if err != nil {
			r.logger.Debug("resolver: link path miss",
				slog.String("link", c),
				slog.String("source", sourcePath),
				slog.String("error", err.Error()))
			continue
		}
		if path == "" {
			continue
		}

		fm, err := r.host.FileCache(path)
		if err != nil {
			// The note resolved but its cache entry is gone; decorate
			// with no frontmatter rather than skipping the link.
			r.logger.Debug("resolver: file cache miss",
				slog.String("path", path),
				slog.String("error", err.Error()))
			fm = nil
		}
		return &Target{Path: path, Frontmatter: fm}, true
	}
	return nil, false
}

// normalizeLinkText normalizes visible link text: trim, collapse
// internal whitespace, strip wiki brackets, and drop any alias part.
func normalizeLinkText(text string) string {
	text = strings.Join(strings.Fields(strings.TrimSpace(text)), " ")
	text = strings.ReplaceAll(text, "[[", "")
	text = strings.ReplaceAll(text, "]]", "")
	return parser.SplitAlias(text)
}

// attrEscaper percent-encodes the characters the host's resolver treats
// as syntax. "%" is listed first so produced escapes are not re-escaped.
var attrEscaper = strings.NewReplacer(
	"%", "%25",
	"[", "%5B",
	"]", "%5D",
	"|", "%7C",
	"&", "%26",
	"?", "%3F",
	"#", "%23",
)

// encodeAttrValue passes through values that are already percent-encoded
// (a decode round trip changes them) and encodes the rest, collapsing
// whitespace runs.
func encodeAttrValue(v string) string {
	if v == "" {
		return ""
	}
	if dec, err := url.PathUnescape(v); err == nil && dec != v {
		return v
	}
	v = strings.Join(strings.Fields(v), " ")
	return attrEscaper.Replace(v)
}
