package lineindex

import (
	"errors"
	"fmt"
	"sort"
)

// ErrOffsetOutOfBounds is returned when an offset lies outside the text.
var ErrOffsetOutOfBounds = errors.New("offset out of bounds")

// Position is a resolved offset.
type Position struct {
	Line   int `json:"line" yaml:"line"`     // 1-based
	Column int `json:"column" yaml:"column"` // 0-based byte offset within the line
}

// String formats the position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Position resolves offset to the line containing it.
//
// The delimiter at the end of a line belongs to that line; the byte after it
// is column 0 of the next line. Offsets below 0 or at or beyond Len return
// ErrOffsetOutOfBounds.
func (idx *Index) Position(offset int) (Position, error) {
	if offset < 0 || offset >= idx.size {
		return Position{}, ErrOffsetOutOfBounds
	}

	// First span starting after offset; the one before it contains offset.
	i := sort.Search(len(idx.spans), func(i int) bool {
		return idx.spans[i].Start > offset
	}) - 1
	if i < 0 || !idx.spans[i].Contains(offset) {
		return Position{}, ErrOffsetOutOfBounds
	}

	return Position{Line: i + 1, Column: offset - idx.spans[i].Start}, nil
}

// Line returns only the 1-based line number of offset.
func (idx *Index) Line(offset int) (int, error) {
	pos, err := idx.Position(offset)
	if err != nil {
		return 0, err
	}
	return pos.Line, nil
}

// OffsetResult is the outcome for one queried offset.
// Exactly one of Position and Error is set.
type OffsetResult struct {
	Offset   int       `json:"offset" yaml:"offset"`
	Position *Position `json:"position,omitempty" yaml:"position,omitempty"`
	Error    string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// Positions resolves every offset. Offsets outside the text are reported in
// their result rather than failing the call.
func (idx *Index) Positions(offsets []int) []OffsetResult {
	results := make([]OffsetResult, len(offsets))
	for i, off := range offsets {
		results[i].Offset = off
		pos, err := idx.Position(off)
		if err != nil {
			results[i].Error = err.Error()
			continue
		}
		results[i].Position = &pos
	}
	return results
}

// positionLinear resolves offset by scanning every span in order. Position
// must agree with it for every input.
func (idx *Index) positionLinear(offset int) (Position, error) {
	line := 1
	for _, s := range idx.spans {
		if s.Contains(offset) {
			return Position{Line: line, Column: offset - s.Start}, nil
		}
		line++
	}
	return Position{}, ErrOffsetOutOfBounds
}
