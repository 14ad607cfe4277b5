package lineindex

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_Replace(t *testing.T) {
	s := NewSnapshot("a\nb")
	doc := s.Load()
	require.NotNil(t, doc)
	assert.Equal(t, 2, doc.Index.NumLines())

	next := s.Replace("a\nb\nc\n")
	assert.Same(t, next, s.Load())
	assert.Equal(t, 3, s.Load().Index.NumLines())

	// The old document stays usable for readers still holding it.
	assert.Equal(t, 2, doc.Index.NumLines())
	assert.Equal(t, "a\nb", doc.Text)
}

func TestSnapshot_Publish(t *testing.T) {
	s := NewSnapshot("old")
	first := s.Load()

	doc := &Document{Text: "new\n", Index: Parse("new\n")}
	prev := s.Publish(doc)

	assert.Same(t, first, prev)
	assert.Same(t, doc, s.Load())
}

func TestSnapshot_ZeroValue(t *testing.T) {
	var s Snapshot
	assert.Nil(t, s.Load())

	s.Replace("x")
	assert.Equal(t, 1, s.Load().Index.NumLines())
}

func TestSnapshot_ConcurrentReplace(t *testing.T) {
	s := NewSnapshot("")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for n := 1; n <= 100; n++ {
			s.Replace(strings.Repeat("x\n", n))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			doc := s.Load()
			assert.Equal(t, len(doc.Text), doc.Index.Len())
			assert.Equal(t, strings.Count(doc.Text, "\n"), doc.Index.NumLines())
		}
	}()
	wg.Wait()
}
