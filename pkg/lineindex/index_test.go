package lineindex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectEnding(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Ending
	}{
		{name: "empty", input: "", want: LF},
		{name: "no delimiter", input: "abc", want: LF},
		{name: "lf only", input: "a\nb\n", want: LF},
		{name: "crlf only", input: "a\r\nb\r\n", want: CRLF},
		{name: "mixed picks crlf", input: "a\nb\r\nc\n", want: CRLF},
		{name: "lone cr", input: "a\rb", want: LF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectEnding(tt.input))
		})
	}
}

func TestEnding_String(t *testing.T) {
	assert.Equal(t, "lf", LF.String())
	assert.Equal(t, "crlf", CRLF.String())
	assert.Equal(t, "Ending(7)", Ending(7).String())

	for _, e := range []Ending{LF, CRLF} {
		parsed, err := ParseEnding(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, parsed)
	}

	_, err := ParseEnding("cr")
	assert.Error(t, err)
}

func TestParse_Spans(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Span
	}{
		{name: "empty", input: "", want: []Span{}},
		{name: "no terminator", input: "abcdefg", want: []Span{{0, 7}}},
		{name: "trailing lf", input: "a\n", want: []Span{{0, 2}}},
		{name: "lf then remainder", input: "a\nb", want: []Span{{0, 2}, {2, 3}}},
		{name: "blank lines", input: "\n\n", want: []Span{{0, 1}, {1, 2}}},
		{name: "crlf", input: "ab\r\ncd\r\n", want: []Span{{0, 4}, {4, 8}}},
		{name: "mixed split on crlf only", input: "abcdefg\r\nhijklmnop\nqrstuv", want: []Span{{0, 9}, {9, 25}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := Parse(tt.input)
			assert.Equal(t, tt.want, idx.Spans())
			assert.Equal(t, len(tt.want), idx.NumLines())
			assert.Equal(t, len(tt.input), idx.Len())
		})
	}
}

func TestParse_Partition(t *testing.T) {
	inputs := []string{
		"",
		"x",
		"\n",
		"\r\n",
		"abc\ndef\nghi",
		"abc\r\ndef\r\n\r\n",
		"one\ntwo\r\nthree\n",
		strings.Repeat("line\n", 100),
	}

	for _, input := range inputs {
		idx := Parse(input)
		spans := idx.Spans()

		if input == "" {
			assert.Empty(t, spans)
			continue
		}

		assert.Equal(t, 0, spans[0].Start, "%q: first span starts at 0", input)
		assert.Equal(t, len(input), spans[len(spans)-1].End, "%q: last span ends at len", input)
		for i := range spans {
			assert.Less(t, spans[i].Start, spans[i].End, "%q: span %d is non-empty", input, i)
			if i > 0 {
				assert.Equal(t, spans[i-1].End, spans[i].Start, "%q: span %d is contiguous", input, i)
			}
		}
	}
}

func TestParseBytes(t *testing.T) {
	content := []byte("a\nb\n")
	idx := ParseBytes(content)
	content[0] = '\n'

	assert.Equal(t, []Span{{0, 2}, {2, 4}}, idx.Spans())
}

func TestNumLines(t *testing.T) {
	assert.Equal(t, 0, Parse("").NumLines())
	assert.Equal(t, 1, Parse("a\n").NumLines())
	assert.Equal(t, 2, Parse("a\nb").NumLines())
	assert.Equal(t, 2, Parse("abcdefg\nhijklmnop\n").NumLines())
}

func TestIndex_Span(t *testing.T) {
	idx := Parse("ab\ncd")

	s, ok := idx.Span(1)
	require.True(t, ok)
	assert.Equal(t, Span{Start: 0, End: 3}, s)
	assert.Equal(t, 3, s.Len())

	s, ok = idx.Span(2)
	require.True(t, ok)
	assert.Equal(t, Span{Start: 3, End: 5}, s)

	_, ok = idx.Span(0)
	assert.False(t, ok)
	_, ok = idx.Span(3)
	assert.False(t, ok)
}

func TestIndex_SpansIsCopy(t *testing.T) {
	idx := Parse("a\nb\n")
	spans := idx.Spans()
	spans[0].End = 100

	pos, err := idx.Position(1)
	require.NoError(t, err)
	assert.Equal(t, Position{Line: 1, Column: 1}, pos)
}

func TestFromSpans(t *testing.T) {
	original := Parse("abc\r\ndef\r\ngh")

	rebuilt, err := FromSpans(original.Spans(), original.Ending())
	require.NoError(t, err)
	assert.Equal(t, original.Spans(), rebuilt.Spans())
	assert.Equal(t, original.Len(), rebuilt.Len())
	assert.Equal(t, CRLF, rebuilt.Ending())

	for off := 0; off <= original.Len(); off++ {
		want, wantErr := original.Position(off)
		got, gotErr := rebuilt.Position(off)
		assert.Equal(t, want, got, "offset %d", off)
		assert.Equal(t, wantErr, gotErr, "offset %d", off)
	}
}

func TestFromSpans_Empty(t *testing.T) {
	idx, err := FromSpans(nil, LF)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.NumLines())
	assert.Equal(t, 0, idx.Len())
}

func TestFromSpans_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		spans  []Span
		ending Ending
	}{
		{name: "does not start at zero", spans: []Span{{1, 3}}, ending: LF},
		{name: "gap", spans: []Span{{0, 2}, {3, 5}}, ending: LF},
		{name: "overlap", spans: []Span{{0, 3}, {2, 5}}, ending: LF},
		{name: "end before start", spans: []Span{{0, 2}, {2, 1}}, ending: LF},
		{name: "unknown ending", spans: []Span{{0, 2}}, ending: Ending(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSpans(tt.spans, tt.ending)
			assert.ErrorIs(t, err, ErrInvalidSpans)
		})
	}
}
