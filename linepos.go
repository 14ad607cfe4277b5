// Package linepos converts byte offsets in a text into line and column
// positions.
//
// It is written for tools such as language servers, linters and scanners
// that receive offsets from a parser or matcher and must report them to
// users as line:column.
//
// # Basic Usage
//
// Parse a text once and query it as often as needed:
//
//	idx := linepos.Parse("abcdefg\nhijklmnop\n")
//	pos, err := idx.Position(5)
//	if err != nil {
//	    log.Fatal(err) // linepos.ErrOffsetOutOfBounds
//	}
//	fmt.Println(idx.NumLines(), pos.Line, pos.Column) // 2 1 5
//
// Lines are 1-based. Columns are 0-based byte offsets within the line. If
// the text contains "\r\n" anywhere, every line is split on "\r\n";
// otherwise lines are split on "\n". A trailing delimiter does not start an
// extra, empty line.
//
// # Resolver
//
// A Resolver keeps indexes for many documents, keyed by content hash, and
// tracks named documents whose text may be replaced:
//
//	r, err := linepos.NewResolver(linepos.WithStorePath("linepos.db"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	opened, _ := r.Open("file:///main.go", content)
//	result, _ := r.ResolveSource("file:///main.go", []int{120, 348})
package linepos

import (
	"github.com/praetorian-inc/linepos/pkg/lineindex"
	"github.com/praetorian-inc/linepos/pkg/resolver"
	"github.com/praetorian-inc/linepos/pkg/types"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/praetorian-inc/linepos" without subpackages.
type (
	// Index maps offsets of one text to positions.
	Index = lineindex.Index

	// Position is a 1-based line and 0-based column.
	Position = lineindex.Position

	// Span is the byte range of one line.
	Span = lineindex.Span

	// Ending is the line delimiter detected for a text.
	Ending = lineindex.Ending

	// Location is a resolved byte range.
	Location = types.Location

	// DocumentID identifies a text by content.
	DocumentID = types.DocumentID

	// ResolveResult holds the positions queried in one document.
	ResolveResult = resolver.ResolveResult

	// DebugLogger receives resolver diagnostics.
	DebugLogger = resolver.DebugLogger
)

// Re-export line ending constants.
const (
	LF   = lineindex.LF
	CRLF = lineindex.CRLF
)

// ErrOffsetOutOfBounds is returned for offsets outside the text.
var ErrOffsetOutOfBounds = lineindex.ErrOffsetOutOfBounds

// Parse builds an Index for text. It never fails.
func Parse(text string) *Index {
	return lineindex.Parse(text)
}

// ParseBytes builds an Index for content.
func ParseBytes(content []byte) *Index {
	return lineindex.ParseBytes(content)
}

// Resolver keeps line indexes for open documents.
type Resolver struct {
	*resolver.Core
}

// resolverConfig holds resolver configuration.
type resolverConfig struct {
	storePath string
	workers   int
	logger    DebugLogger
}

// Option configures a Resolver.
type Option func(*resolverConfig)

// WithStorePath persists indexes in a SQLite database at path.
// Default is ":memory:", which keeps them in process memory.
func WithStorePath(path string) Option {
	return func(c *resolverConfig) {
		c.storePath = path
	}
}

// WithWorkers sets how many batch items are resolved concurrently.
// Default is 4.
func WithWorkers(workers int) Option {
	return func(c *resolverConfig) {
		c.workers = workers
	}
}

// WithLogger sets the logger for resolver diagnostics.
func WithLogger(logger DebugLogger) Option {
	return func(c *resolverConfig) {
		c.logger = logger
	}
}

// NewResolver creates a Resolver with the given options.
func NewResolver(opts ...Option) (*Resolver, error) {
	config := &resolverConfig{
		workers: resolver.DefaultWorkers,
	}

	for _, opt := range opts {
		opt(config)
	}

	core, err := resolver.NewCore(resolver.Config{
		StorePath: config.storePath,
		Workers:   config.workers,
	}, config.logger)
	if err != nil {
		return nil, err
	}

	return &Resolver{Core: core}, nil
}

// Locate resolves a byte range of the text idx was built from.
func Locate(idx *Index, start, end int64) (Location, error) {
	return types.Locate(idx, types.OffsetSpan{Start: start, End: end})
}
