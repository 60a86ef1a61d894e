package index

import (
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/starford/mannaz/internal/apperr"
)

// ResolveLinkPath resolves a link's text to the path of a cached note,
// relative to the note the link appears in.
//
// Resolution order:
//  1. exact vault path, with or without a trailing .md
//  2. path relative to the source note's folder (./x, ../x)
//  3. stem match (case-insensitive file name), preferring the candidate
//     with the fewest path segments, then lexicographic order
//
// Returns apperr.ErrNotFound when nothing matches.
func (db *DB) ResolveLinkPath(link, sourcePath string) (string, error) {
	link = normalizeLink(link)
	if link == "" {
		return "", apperr.ErrNotFound
	}

	// Exact vault path.
	if p, ok, err := db.tryPath(link); err != nil || ok {
		return p, err
	}

	// Relative to the source note.
	if strings.HasPrefix(link, "./") || strings.HasPrefix(link, "../") {
		joined := path.Join(path.Dir(sourcePath), link)
		if strings.HasPrefix(joined, "..") {
			return "", apperr.ErrNotFound
		}
		if p, ok, err := db.tryPath(joined); err != nil || ok {
			return p, err
		}
	}

	// Stem lookup.
	matches, err := db.stemMatches(Stem(link))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", apperr.ErrNotFound
	}
	sort.Slice(matches, func(i, j int) bool {
		di := strings.Count(matches[i], "/")
		dj := strings.Count(matches[j], "/")
		if di != dj {
			return di < dj
		}
		return matches[i] < matches[j]
	})
	return matches[0], nil
}

// tryPath checks the exact path and the path with .md appended.
func (db *DB) tryPath(p string) (string, bool, error) {
	ok, err := db.hasPath(p)
	if err != nil {
		return "", false, err
	}
	if ok {
		return p, true, nil
	}
	if !strings.HasSuffix(p, ".md") {
		ok, err = db.hasPath(p + ".md")
		if err != nil {
			return "", false, err
		}
		if ok {
			return p + ".md", true, nil
		}
	}
	return "", false, nil
}

// normalizeLink decodes percent escapes, strips any #subpath fragment,
// and normalizes separators.
func normalizeLink(link string) string {
	if dec, err := url.PathUnescape(link); err == nil {
		link = dec
	}
	if i := strings.Index(link, "#"); i >= 0 {
		link = link[:i]
	}
	link = strings.ReplaceAll(link, "\\", "/")
	return strings.TrimSpace(link)
}
