package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/starford/mannaz/internal/apperr"
)

// NoteRow represents a row in the notes table.
type NoteRow struct {
	Path        string
	Title       string
	Checksum    string
	Frontmatter map[string]any
	UpdatedAt   time.Time
}

// UpsertNote inserts or replaces a note's metadata. The stem (lowercased
// file name without extension) is derived from the path.
func (db *DB) UpsertNote(n NoteRow) error {
	fmJSON, err := json.Marshal(n.Frontmatter)
	if err != nil {
		// Frontmatter that cannot round-trip through JSON is stored empty;
		// the note still resolves by path and stem.
		fmJSON = []byte("{}")
	}
	if n.Frontmatter == nil {
		fmJSON = []byte("{}")
	}

	_, err = db.conn.Exec(`
		INSERT INTO notes (path, stem, title, checksum, frontmatter, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			stem        = excluded.stem,
			title       = excluded.title,
			checksum    = excluded.checksum,
			frontmatter = excluded.frontmatter,
			updated_at  = excluded.updated_at
	`, n.Path, Stem(n.Path), n.Title, n.Checksum, string(fmJSON), n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert note: %w", err)
	}
	return nil
}

// DeleteNote removes a note from the cache.
func (db *DB) DeleteNote(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM notes WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete note: %w", err)
	}
	return nil
}

// GetChecksum returns the stored checksum for a note, or empty string
// when the note is not cached.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM notes WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums returns a path → checksum map for every cached note.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// Title returns the cached title for a note path.
func (db *DB) Title(path string) (string, error) {
	var title string
	err := db.conn.QueryRow(`SELECT title FROM notes WHERE path = ?`, path).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("index: title: %w", err)
	}
	return title, nil
}

// FileCache returns the parsed frontmatter mapping for a note path.
// A cached note without frontmatter returns an empty mapping.
func (db *DB) FileCache(path string) (map[string]any, error) {
	var raw string
	err := db.conn.QueryRow(`SELECT frontmatter FROM notes WHERE path = ?`, path).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: file cache: %w", err)
	}
	var fm map[string]any
	if err := json.Unmarshal([]byte(raw), &fm); err != nil {
		return map[string]any{}, nil
	}
	if fm == nil {
		fm = map[string]any{}
	}
	return fm, nil
}

// ListFolder returns the paths of every cached note whose path equals or
// sits under the given folder, in lexicographic order.
func (db *DB) ListFolder(folder string) ([]string, error) {
	rows, err := db.conn.Query(
		`SELECT path FROM notes WHERE path LIKE ? ORDER BY path`,
		strings.TrimRight(folder, "/")+"/%",
	)
	if err != nil {
		return nil, fmt.Errorf("index: list folder: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Folders returns every folder that contains at least one cached note,
// including intermediate folders, in lexicographic order. Backs the
// folder-suggestion endpoint the settings UI enumerates.
func (db *DB) Folders() ([]string, error) {
	rows, err := db.conn.Query(`SELECT path FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: folders: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
			seen[dir] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(seen))
	for dir := range seen {
		out = append(out, dir)
	}
	sort.Strings(out)
	return out, nil
}

// hasPath reports whether a note exists at exactly the given path.
func (db *DB) hasPath(p string) (bool, error) {
	var one int
	err := db.conn.QueryRow(`SELECT 1 FROM notes WHERE path = ?`, p).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("index: has path: %w", err)
	}
	return true, nil
}

// stemMatches returns every note path whose stem matches, lexicographically ordered.
func (db *DB) stemMatches(stem string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT path FROM notes WHERE stem = ? ORDER BY path`, stem)
	if err != nil {
		return nil, fmt.Errorf("index: stem matches: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Stem returns the lowercased file name of a note path, without the .md extension.
func Stem(p string) string {
	base := path.Base(strings.TrimSuffix(p, ".md"))
	return strings.ToLower(base)
}
