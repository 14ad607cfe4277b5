package lineindex

import "sync/atomic"

// Document pairs a text with the Index built from it.
type Document struct {
	Text  string
	Index *Index
}

// NewDocument parses text into a Document.
func NewDocument(text string) *Document {
	return &Document{Text: text, Index: Parse(text)}
}

// Snapshot publishes the current Document for a text that may be replaced
// while readers are querying it. Readers always see a text and the index
// built from that same text.
type Snapshot struct {
	current atomic.Pointer[Document]
}

// NewSnapshot creates a Snapshot holding text.
func NewSnapshot(text string) *Snapshot {
	s := &Snapshot{}
	s.current.Store(NewDocument(text))
	return s
}

// Load returns the current Document. It is nil for a zero Snapshot.
func (s *Snapshot) Load() *Document {
	return s.current.Load()
}

// Replace parses text and swaps it in as the current Document.
func (s *Snapshot) Replace(text string) *Document {
	doc := NewDocument(text)
	s.current.Store(doc)
	return doc
}

// Publish swaps in a Document built elsewhere and returns the previous one.
// doc.Index must have been built from doc.Text.
func (s *Snapshot) Publish(doc *Document) *Document {
	return s.current.Swap(doc)
}
