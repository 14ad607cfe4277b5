package types

import "fmt"

// OffsetSpan is byte range [Start, End) - half-open interval.
type OffsetSpan struct {
	Start int64 `json:"start" yaml:"start"`
	End   int64 `json:"end" yaml:"end"`
}

// Len returns End - Start.
func (s OffsetSpan) Len() int64 {
	return s.End - s.Start
}

// SourcePoint is a line:column position. Line is 1-based; Column is the
// 0-based byte offset within the line.
type SourcePoint struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p SourcePoint) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// SourceSpan is start-end line:column range.
type SourceSpan struct {
	Start SourcePoint `json:"start" yaml:"start"`
	End   SourcePoint `json:"end" yaml:"end"`
}

func (s SourceSpan) String() string {
	if s.Start == s.End {
		return s.Start.String()
	}
	return s.Start.String() + "-" + s.End.String()
}

// Location combines byte offsets and source positions.
type Location struct {
	Offset OffsetSpan `json:"offset" yaml:"offset"`
	Source SourceSpan `json:"source" yaml:"source"`
}
