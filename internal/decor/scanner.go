package decor

import (
	"fmt"
	"log/slog"

	"golang.org/x/net/html"

	"github.com/starford/mannaz/internal/dom"
)

// Scanner sweeps a view's DOM for link candidates and runs each through
// the resolve → classify → select → decorate pipeline.
type Scanner struct {
	settings SettingsFunc
	logger   *slog.Logger
	resolver *Resolver
	selector *Selector
}

// NewScanner creates a scanner bound to a host and a settings source.
func NewScanner(host Host, settings SettingsFunc, logger *slog.Logger) *Scanner {
	return &Scanner{
		settings: settings,
		logger:   logger,
		resolver: NewResolver(host, logger),
		selector: NewSelector(host),
	}
}

// Scan processes every candidate under root in document order and
// returns the number of elements decorated. Detached roots are skipped.
// A failing candidate is logged at debug level and never aborts the
// sweep; its sentinel stays unset so the next scan retries it.
func (s *Scanner) Scan(root *html.Node, sourcePath string) int {
	if !dom.IsAttached(root) {
		return 0
	}

	type candidate struct {
		el   *html.Node
		role Role
	}
	var candidates []candidate
	dom.WalkElements(root, func(n *html.Node) {
		if role, ok := CandidateRole(n); ok {
			candidates = append(candidates, candidate{el: n, role: role})
		}
	})

	decorated := 0
	for _, c := range candidates {
		if dom.HasClass(c.el, ClassProcessed) {
			continue
		}
		if s.process(c.el, c.role, sourcePath) {
			decorated++
		}
	}
	return decorated
}

// process runs the pipeline for one candidate. Panics from the host or
// from DOM edge cases are contained here.
func (s *Scanner) process(el *html.Node, role Role, sourcePath string) (decorated bool) {
	defer func() {
		if rec := recover(); rec != nil {
			decorated = false
			s.logger.Debug("scan: candidate failed",
				slog.String("source", sourcePath),
				slog.String("error", fmt.Sprint(rec)))
		}
	}()

	target, ok := s.resolver.Resolve(el, role, sourcePath)
	if !ok {
		return false
	}

	settings := s.settings()
	if !IsPerson(target.Path, settings.PeopleFolderPath) {
		return false
	}
	if !settings.AvatarsEnabled {
		return false
	}

	return Decorate(el, s.selector.Choose(target, settings))
}

// DecorateFragment parses an HTML fragment, scans it against sourcePath,
// and serializes it back. This is the stateless post-processor surface:
// rendered sections are decorated without touching driver state.
func (s *Scanner) DecorateFragment(fragment, sourcePath string) (string, int, error) {
	doc, err := dom.ParseDocument(fragment)
	if err != nil {
		return "", 0, err
	}
	n := s.Scan(doc, sourcePath)
	out, err := dom.RenderBodyContents(doc)
	if err != nil {
		return "", 0, err
	}
	return out, n, nil
}
