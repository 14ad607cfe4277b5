package resolver

import (
	"github.com/praetorian-inc/linepos/pkg/lineindex"
	"github.com/praetorian-inc/linepos/pkg/types"
)

// ContentItem is one document to resolve offsets in
type ContentItem struct {
	Source  string `json:"source"`  // e.g., "file:///src/main.go", "buffer:1"
	Content string `json:"content"` // the full text
	Offsets []int  `json:"offsets"`
}

// OpenResult describes a document registered with Open
type OpenResult struct {
	ID       types.DocumentID `json:"id"`
	Source   string           `json:"source,omitempty"`
	NumLines int              `json:"num_lines"`
	Length   int              `json:"length"`
	Ending   string           `json:"ending"`
}

// PositionResult is the outcome for one queried offset.
type PositionResult = lineindex.OffsetResult

// ResolveResult holds the positions of all offsets queried in one document
type ResolveResult struct {
	ID        types.DocumentID `json:"id" yaml:"id"`
	Source    string           `json:"source,omitempty" yaml:"source,omitempty"`
	NumLines  int              `json:"num_lines" yaml:"num_lines"`
	Positions []PositionResult `json:"positions" yaml:"positions"`
}

// BatchResult holds results for every item of a batch, in request order
type BatchResult struct {
	Results []ResolveResult `json:"results"`
	Total   int             `json:"total"`
}

// DebugLogger provides platform-specific logging
type DebugLogger interface {
	Log(format string, args ...interface{})
}

// NoopLogger is a no-op logger
type NoopLogger struct{}

func (NoopLogger) Log(format string, args ...interface{}) {}
