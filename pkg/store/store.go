package store

import (
	"errors"

	"github.com/praetorian-inc/linepos/pkg/lineindex"
	"github.com/praetorian-inc/linepos/pkg/types"
)

// ErrNotFound is returned by Get when no index is stored for a document.
var ErrNotFound = errors.New("document not found")

// MemoryPath selects the in-memory backend.
const MemoryPath = ":memory:"

// Store caches line indexes by document content hash.
// Since a DocumentID is derived from content, an index stored under an ID
// is valid for as long as the ID is.
type Store interface {
	// Put stores the index for a document. Storing an existing ID is a no-op.
	Put(id types.DocumentID, idx *lineindex.Index) error

	// Get retrieves the index for a document, or ErrNotFound.
	Get(id types.DocumentID) (*lineindex.Index, error)

	// Exists checks if an index is stored for a document.
	Exists(id types.DocumentID) (bool, error)

	// Count returns the number of stored documents.
	Count() (int, error)

	// Close releases the backend.
	Close() error
}

// Config for store initialization.
type Config struct {
	// Path is the database file path.
	// Use ":memory:" for a process-local map.
	Path string
}
