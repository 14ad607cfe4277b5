package types

import (
	"fmt"

	"github.com/praetorian-inc/linepos/pkg/lineindex"
)

// Locate resolves both ends of span against idx.
//
// The end of a non-empty span is exclusive, so it is reported as one column
// past the last byte of the span, on the line of that byte. This keeps spans
// that run to the end of the text resolvable. An empty span resolves both
// ends to the start position.
func Locate(idx *lineindex.Index, span OffsetSpan) (Location, error) {
	if span.End < span.Start {
		return Location{}, fmt.Errorf("span end %d before start %d", span.End, span.Start)
	}

	start, err := idx.Position(int(span.Start))
	if err != nil {
		return Location{}, fmt.Errorf("resolving start offset %d: %w", span.Start, err)
	}

	end := start
	if span.End > span.Start {
		last, err := idx.Position(int(span.End - 1))
		if err != nil {
			return Location{}, fmt.Errorf("resolving end offset %d: %w", span.End, err)
		}
		end = lineindex.Position{Line: last.Line, Column: last.Column + 1}
	}

	return Location{
		Offset: span,
		Source: SourceSpan{
			Start: SourcePoint{Line: start.Line, Column: start.Column},
			End:   SourcePoint{Line: end.Line, Column: end.Column},
		},
	}, nil
}

// LocateOffset resolves a single offset to a zero-width Location.
func LocateOffset(idx *lineindex.Index, offset int64) (Location, error) {
	return Locate(idx, OffsetSpan{Start: offset, End: offset})
}
