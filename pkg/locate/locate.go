// Package locate finds patterns in content and reports them as line:column
// locations.
package locate

import (
	"fmt"
	"sort"

	"github.com/praetorian-inc/linepos/pkg/lineindex"
	"github.com/praetorian-inc/linepos/pkg/types"
)

// Hit is one occurrence of a pattern, as a byte range in the content.
type Hit struct {
	Pattern string           `json:"pattern" yaml:"pattern"`
	Offset  types.OffsetSpan `json:"offset" yaml:"offset"`
}

// Result is a Hit with its resolved location and matched text.
type Result struct {
	Pattern  string         `json:"pattern" yaml:"pattern"`
	Location types.Location `json:"location" yaml:"location"`
	Text     string         `json:"text" yaml:"text"`
}

// Matcher finds pattern occurrences in content.
type Matcher interface {
	Find(content []byte) ([]Hit, error)
}

// Config selects the patterns of a matcher built by New.
type Config struct {
	Regexps  []string
	Literals []string
}

// New builds a Matcher for every non-empty pattern group in cfg.
func New(cfg Config) (Matcher, error) {
	var matchers multi
	if len(cfg.Regexps) > 0 {
		m, err := NewRegexp(cfg.Regexps)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	if len(cfg.Literals) > 0 {
		m, err := NewLiteral(cfg.Literals)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	if len(matchers) == 0 {
		return nil, fmt.Errorf("no patterns provided")
	}
	return matchers, nil
}

type multi []Matcher

func (m multi) Find(content []byte) ([]Hit, error) {
	var hits []Hit
	for _, matcher := range m {
		found, err := matcher.Find(content)
		if err != nil {
			return nil, err
		}
		hits = append(hits, found...)
	}
	sortHits(hits)
	return hits, nil
}

// Resolve converts hits to locations using idx, which must be the index of
// content.
//
// A zero-length hit at the end of content, such as a match of "$", resolves
// to the position just past the last byte. Content with no bytes has no
// positions, so zero-length hits in it are dropped.
func Resolve(idx *lineindex.Index, content []byte, hits []Hit) ([]Result, error) {
	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		var loc types.Location
		var err error
		if hit.Offset.Len() == 0 && hit.Offset.Start == int64(idx.Len()) {
			if idx.Len() == 0 {
				continue
			}
			loc, err = locateEnd(idx, hit.Offset)
		} else {
			loc, err = types.Locate(idx, hit.Offset)
		}
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", hit.Pattern, err)
		}
		results = append(results, Result{
			Pattern:  hit.Pattern,
			Location: loc,
			Text:     string(content[hit.Offset.Start:hit.Offset.End]),
		})
	}
	return results, nil
}

// locateEnd resolves the empty span at the end of a non-empty text.
func locateEnd(idx *lineindex.Index, span types.OffsetSpan) (types.Location, error) {
	last, err := types.Locate(idx, types.OffsetSpan{Start: span.Start - 1, End: span.End})
	if err != nil {
		return types.Location{}, err
	}
	return types.Location{
		Offset: span,
		Source: types.SourceSpan{Start: last.Source.End, End: last.Source.End},
	}, nil
}

// sortHits orders hits by position, then by pattern.
func sortHits(hits []Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i].Offset, hits[j].Offset
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		return hits[i].Pattern < hits[j].Pattern
	})
}
