package index

// MetadataCache defines the interface for metadata lookups consumed by
// the decoration engine and its host adapter. Consumers should depend on
// this interface rather than the concrete *DB type to facilitate testing.
type MetadataCache interface {
	UpsertNote(n NoteRow) error
	DeleteNote(path string) error
	GetChecksum(path string) (string, error)
	AllChecksums() (map[string]string, error)
	Title(path string) (string, error)
	FileCache(path string) (map[string]any, error)
	ResolveLinkPath(link, sourcePath string) (string, error)
	ListFolder(folder string) ([]string, error)
	Folders() ([]string, error)
	Close() error
}

// Verify *DB satisfies MetadataCache at compile time.
var _ MetadataCache = (*DB)(nil)
