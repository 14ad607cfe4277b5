// Package resolver keeps line indexes for open documents and answers offset
// queries against them.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/praetorian-inc/linepos/pkg/lineindex"
	"github.com/praetorian-inc/linepos/pkg/store"
	"github.com/praetorian-inc/linepos/pkg/types"
	"golang.org/x/sync/errgroup"
)

// ErrUnknownSource is returned when a source name was never opened.
var ErrUnknownSource = errors.New("unknown source")

// DefaultWorkers is the batch concurrency used when Config.Workers is unset.
const DefaultWorkers = 4

// Config configures a Core.
type Config struct {
	// StorePath is passed to store.New. Empty means ":memory:".
	StorePath string
	// Workers bounds ResolveBatch concurrency.
	Workers int
}

// Core wraps the index store and the named document snapshots
type Core struct {
	store   store.Store
	logger  DebugLogger
	workers int

	mu      sync.RWMutex
	sources map[string]*lineindex.Snapshot
	ids     map[*lineindex.Document]types.DocumentID // published documents
}

// NewCore creates a new Core
func NewCore(cfg Config, logger DebugLogger) (*Core, error) {
	if logger == nil {
		logger = NoopLogger{}
	}
	if cfg.StorePath == "" {
		cfg.StorePath = store.MemoryPath
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	logger.Log("Creating store at %s...", cfg.StorePath)
	s, err := store.New(store.Config{Path: cfg.StorePath})
	if err != nil {
		logger.Log("store.New failed: %v", err)
		return nil, fmt.Errorf("creating store: %w", err)
	}

	return &Core{
		store:   s,
		logger:  logger,
		workers: cfg.Workers,
		sources: make(map[string]*lineindex.Snapshot),
		ids:     make(map[*lineindex.Document]types.DocumentID),
	}, nil
}

// Open indexes content and, when source is non-empty, publishes it as the
// current text of source. Reopening a source replaces its text atomically;
// readers holding the previous document are unaffected.
func (c *Core) Open(source, content string) (*OpenResult, error) {
	id, idx, err := c.index(content)
	if err != nil {
		return nil, err
	}

	if source != "" {
		doc := &lineindex.Document{Text: content, Index: idx}

		c.mu.Lock()
		snap, ok := c.sources[source]
		if !ok {
			snap = &lineindex.Snapshot{}
			c.sources[source] = snap
		}
		// Registered before publishing so every reader of doc finds its ID.
		c.ids[doc] = id
		c.mu.Unlock()

		if prev := snap.Publish(doc); prev != nil {
			c.mu.Lock()
			delete(c.ids, prev)
			c.mu.Unlock()
		}
		c.logger.Log("Published %s as %s (%d lines)", source, id, idx.NumLines())
	}

	return &OpenResult{
		ID:       id,
		Source:   source,
		NumLines: idx.NumLines(),
		Length:   idx.Len(),
		Ending:   idx.Ending().String(),
	}, nil
}

// index returns the stored index for content, building and storing it on a miss.
func (c *Core) index(content string) (types.DocumentID, *lineindex.Index, error) {
	id := types.ComputeDocumentID([]byte(content))

	idx, err := c.store.Get(id)
	if err == nil {
		c.logger.Log("Index cache hit for %s", id)
		return id, idx, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return id, nil, fmt.Errorf("loading index %s: %w", id, err)
	}

	idx = lineindex.Parse(content)
	if err := c.store.Put(id, idx); err != nil {
		return id, nil, fmt.Errorf("storing index %s: %w", id, err)
	}
	c.logger.Log("Indexed %s: %d lines", id, idx.NumLines())
	return id, idx, nil
}

// Document returns the current document of an opened source.
func (c *Core) Document(source string) (*lineindex.Document, error) {
	c.mu.RLock()
	snap, ok := c.sources[source]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}
	return snap.Load(), nil
}

// CloseSource forgets a source. Its index stays in the store.
func (c *Core) CloseSource(source string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, ok := c.sources[source]
	if ok {
		delete(c.ids, snap.Load())
	}
	delete(c.sources, source)
	return ok
}

// Index returns the index of a previously opened document.
func (c *Core) Index(id types.DocumentID) (*lineindex.Index, error) {
	idx, err := c.store.Get(id)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}
	return idx, nil
}

// NumLines returns the line count of a previously opened document.
func (c *Core) NumLines(id types.DocumentID) (int, error) {
	idx, err := c.Index(id)
	if err != nil {
		return 0, err
	}
	return idx.NumLines(), nil
}

// Resolve resolves offsets in a previously opened document.
// Out-of-bounds offsets are reported per offset, not as an error.
func (c *Core) Resolve(id types.DocumentID, offsets []int) (*ResolveResult, error) {
	idx, err := c.Index(id)
	if err != nil {
		return nil, err
	}
	result := resolveAll(idx, offsets)
	result.ID = id
	return result, nil
}

// ResolveSource resolves offsets in the current document of a source.
func (c *Core) ResolveSource(source string, offsets []int) (*ResolveResult, error) {
	doc, err := c.Document(source)
	if err != nil {
		return nil, err
	}
	result := resolveAll(doc.Index, offsets)
	result.ID = c.documentID(doc)
	result.Source = source
	return result, nil
}

// documentID returns the ID recorded when doc was published. A reader that
// loaded a document just before it was replaced may miss it and hash.
func (c *Core) documentID(doc *lineindex.Document) types.DocumentID {
	c.mu.RLock()
	id, ok := c.ids[doc]
	c.mu.RUnlock()
	if ok {
		return id
	}
	return types.ComputeDocumentID([]byte(doc.Text))
}

// ResolveContent indexes content and resolves offsets in it.
func (c *Core) ResolveContent(source, content string, offsets []int) (*ResolveResult, error) {
	id, idx, err := c.index(content)
	if err != nil {
		return nil, err
	}
	result := resolveAll(idx, offsets)
	result.ID = id
	result.Source = source
	return result, nil
}

// ResolveBatch resolves multiple content items concurrently.
func (c *Core) ResolveBatch(ctx context.Context, items []ContentItem) (*BatchResult, error) {
	results := make([]ResolveResult, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := c.ResolveContent(item.Source, item.Content, item.Offsets)
			if err != nil {
				return fmt.Errorf("item %d (%s): %w", i, item.Source, err)
			}
			results[i] = *r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r.Positions)
	}
	return &BatchResult{Results: results, Total: total}, nil
}

// Close releases resolver resources
func (c *Core) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}

func resolveAll(idx *lineindex.Index, offsets []int) *ResolveResult {
	return &ResolveResult{
		NumLines:  idx.NumLines(),
		Positions: idx.Positions(offsets),
	}
}
