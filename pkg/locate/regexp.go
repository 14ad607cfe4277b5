package locate

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/praetorian-inc/linepos/pkg/types"
)

// MatchTimeout bounds a single regex evaluation.
const MatchTimeout = 5 * time.Second

// RegexpMatcher finds matches of Perl-style regular expressions.
type RegexpMatcher struct {
	patterns []string
	regexes  []*regexp2.Regexp
}

// NewRegexp compiles patterns.
func NewRegexp(patterns []string) (*RegexpMatcher, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no patterns provided")
	}

	m := &RegexpMatcher{patterns: patterns}
	for _, pattern := range patterns {
		// Try RE2 mode first (no backtracking)
		re, err := regexp2.Compile(pattern, regexp2.RE2|regexp2.Multiline)
		if err != nil {
			// Fall back to Perl-compatible mode for lookarounds and (?x)
			re, err = regexp2.Compile(pattern, regexp2.Multiline)
			if err != nil {
				return nil, fmt.Errorf("failed to compile pattern %q: %w", pattern, err)
			}
		}
		re.MatchTimeout = MatchTimeout
		m.regexes = append(m.regexes, re)
	}

	return m, nil
}

// Find returns every non-overlapping match of every pattern.
func (m *RegexpMatcher) Find(content []byte) ([]Hit, error) {
	// regexp2 reports rune indexes; map them back to byte offsets.
	text := string(content)
	runeToByte := runeOffsets(text)

	var hits []Hit
	for i, re := range m.regexes {
		match, err := re.FindStringMatch(text)
		if err != nil {
			return nil, fmt.Errorf("regex match error for %q: %w", m.patterns[i], err)
		}

		for match != nil {
			start := runeToByte[match.Index]
			end := runeToByte[match.Index+match.Length]
			hits = append(hits, Hit{
				Pattern: m.patterns[i],
				Offset:  types.OffsetSpan{Start: int64(start), End: int64(end)},
			})

			match, err = re.FindNextMatch(match)
			if err != nil {
				return nil, fmt.Errorf("regex match error for %q: %w", m.patterns[i], err)
			}
		}
	}

	sortHits(hits)
	return hits, nil
}

// runeOffsets returns the byte offset of every rune index in text, plus one
// trailing entry for len(text).
func runeOffsets(text string) []int {
	offsets := make([]int, 0, utf8.RuneCountInString(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}
