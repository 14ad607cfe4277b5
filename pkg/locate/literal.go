package locate

import (
	"bytes"
	"fmt"

	"github.com/cloudflare/ahocorasick"
	"github.com/praetorian-inc/linepos/pkg/types"
)

// LiteralMatcher finds exact occurrences of fixed strings.
//
// An Aho-Corasick pass over the content first selects the words that occur
// at all, so content with no hits costs a single scan however many words
// there are.
type LiteralMatcher struct {
	words   []string
	matcher *ahocorasick.Matcher
}

// NewLiteral creates a matcher for words. Duplicates are ignored.
func NewLiteral(words []string) (*LiteralMatcher, error) {
	seen := make(map[string]bool)
	m := &LiteralMatcher{}
	for _, w := range words {
		if w == "" {
			return nil, fmt.Errorf("empty literal")
		}
		if seen[w] {
			continue
		}
		seen[w] = true
		m.words = append(m.words, w)
	}
	if len(m.words) == 0 {
		return nil, fmt.Errorf("no literals provided")
	}

	m.matcher = ahocorasick.NewStringMatcher(m.words)
	return m, nil
}

// Find returns every non-overlapping occurrence of every word.
func (m *LiteralMatcher) Find(content []byte) ([]Hit, error) {
	var hits []Hit
	seen := make(map[int]bool)
	for _, i := range m.matcher.Match(content) {
		if seen[i] {
			continue
		}
		seen[i] = true

		word := []byte(m.words[i])
		pos := 0
		for {
			n := bytes.Index(content[pos:], word)
			if n < 0 {
				break
			}
			start := pos + n
			hits = append(hits, Hit{
				Pattern: m.words[i],
				Offset:  types.OffsetSpan{Start: int64(start), End: int64(start + len(word))},
			})
			pos = start + len(word)
		}
	}

	sortHits(hits)
	return hits, nil
}
