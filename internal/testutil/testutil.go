// Package testutil provides shared fixtures for package tests: a
// throwaway sqlite cache and a seeded on-disk vault.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/mannaz/internal/index"
	"github.com/starford/mannaz/internal/storage"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDB opens a fresh metadata cache in a temp directory and closes it
// when the test finishes.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestVault creates a temp vault populated with the given files (path
// relative to root, using forward slashes) and returns an FS provider
// rooted at it.
func TestVault(t *testing.T, files map[string]string) *storage.FS {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	fs, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return fs
}

// SeedPeopleVault builds the fixture most tests share: a people folder
// with two person notes (one with a configured avatar), an avatar
// image, and a non-person note. The cache is indexed to match.
func SeedPeopleVault(t *testing.T) (*storage.FS, *index.DB) {
	t.Helper()
	fs := TestVault(t, map[string]string{
		"Sets/People/Ada Lovelace.md": "---\ntitle: Ada Lovelace\navatar: ada.png\n---\nAnalytical engines.\n",
		"Sets/People/Bob.md":          "Plain person note.\n",
		"Notes/Ideas.md":              "Linking [[Ada Lovelace]] and [[Bob]].\n",
		"_Meta/Avatars/ada.png":       "png-bytes",
	})
	db := TestDB(t)
	if err := index.Sync(db, fs, Logger()); err != nil {
		t.Fatalf("sync: %v", err)
	}
	return fs, db
}
