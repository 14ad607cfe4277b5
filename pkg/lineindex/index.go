// Package lineindex maps byte offsets in a text to line and column positions.
//
// An Index is built once from an immutable text with Parse and then answers
// any number of Position queries. It is never mutated after construction, so
// a single Index may be shared by concurrent readers without locking.
package lineindex

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSpans is returned by FromSpans when the spans do not partition
// a text.
var ErrInvalidSpans = errors.New("invalid line spans")

// Span is the half-open byte range [Start, End) of one line, including its
// terminating delimiter if it has one.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes in the line, delimiter included.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return s.Start <= offset && offset < s.End
}

// Index holds the line spans of a text.
type Index struct {
	spans  []Span
	ending Ending
	size   int
}

// Parse builds an Index for text. It never fails; an empty text yields an
// Index with no lines.
//
// Lines are split on the delimiter chosen by DetectEnding. A trailing
// delimiter terminates the last line and does not start a new, empty one.
func Parse(text string) *Index {
	ending := DetectEnding(text)
	delim := ending.Delimiter()

	idx := &Index{
		spans:  make([]Span, 0, strings.Count(text, delim)+1),
		ending: ending,
		size:   len(text),
	}

	start := 0
	for start < len(text) {
		n := strings.Index(text[start:], delim)
		end := len(text)
		if n >= 0 {
			end = start + n + len(delim)
		}
		idx.spans = append(idx.spans, Span{Start: start, End: end})
		start = end
	}

	return idx
}

// ParseBytes is Parse for a byte slice. The slice is not retained.
func ParseBytes(content []byte) *Index {
	return Parse(string(content))
}

// FromSpans rebuilds an Index from spans previously taken from Spans.
//
// The spans must start at 0, be contiguous and have Start <= End. An empty
// slice is the index of an empty text.
func FromSpans(spans []Span, ending Ending) (*Index, error) {
	if ending != LF && ending != CRLF {
		return nil, fmt.Errorf("%w: unknown ending %d", ErrInvalidSpans, int(ending))
	}

	prev := 0
	for i, s := range spans {
		if s.Start != prev {
			return nil, fmt.Errorf("%w: line %d starts at %d, want %d", ErrInvalidSpans, i+1, s.Start, prev)
		}
		if s.End < s.Start {
			return nil, fmt.Errorf("%w: line %d ends at %d before its start %d", ErrInvalidSpans, i+1, s.End, s.Start)
		}
		prev = s.End
	}

	owned := make([]Span, len(spans))
	copy(owned, spans)
	return &Index{spans: owned, ending: ending, size: prev}, nil
}

// NumLines returns the number of lines in the text.
func (idx *Index) NumLines() int {
	return len(idx.spans)
}

// Len returns the length in bytes of the text the Index was built from.
func (idx *Index) Len() int {
	return idx.size
}

// Ending returns the delimiter used to split the text.
func (idx *Index) Ending() Ending {
	return idx.ending
}

// Span returns the span of the given 1-indexed line.
func (idx *Index) Span(line int) (Span, bool) {
	if line < 1 || line > len(idx.spans) {
		return Span{}, false
	}
	return idx.spans[line-1], true
}

// Spans returns a copy of all line spans in document order.
func (idx *Index) Spans() []Span {
	out := make([]Span, len(idx.spans))
	copy(out, idx.spans)
	return out
}
