package serve

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/praetorian-inc/linepos/pkg/lineindex"
	"github.com/praetorian-inc/linepos/pkg/resolver"
	"github.com/praetorian-inc/linepos/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCore(t *testing.T) *resolver.Core {
	t.Helper()
	core, err := resolver.NewCore(resolver.Config{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { core.Close() })
	return core
}

// run feeds requests to a server and returns every response line.
func run(t *testing.T, requests ...string) []Response {
	t.Helper()

	in := strings.NewReader(strings.Join(requests, "\n") + "\n")
	out := &bytes.Buffer{}

	srv := NewServer(newCore(t), in, out)
	require.NoError(t, srv.Run(context.Background()))

	var responses []Response
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var resp Response
		require.NoError(t, json.Unmarshal([]byte(line), &resp), line)
		responses = append(responses, resp)
	}
	return responses
}

func TestServer_SendsReadyOnStart(t *testing.T) {
	in := strings.NewReader("")
	out := &bytes.Buffer{}

	srv := NewServer(newCore(t), in, out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately to exit after ready

	_ = srv.Run(ctx)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.NotEmpty(t, lines)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, TypeReady, resp.Type)

	var ready ReadyData
	require.NoError(t, json.Unmarshal(resp.Data, &ready))
	assert.Equal(t, Version, ready.Version)
}

func TestServer_OpenThenPosition(t *testing.T) {
	responses := run(t,
		`{"type":"open","payload":{"source":"file:///a.txt","content":"abcdefg\nhijklmnop\n"}}`,
		`{"type":"position","payload":{"source":"file:///a.txt","offsets":[5,8,18]}}`,
	)
	require.Len(t, responses, 3)

	require.True(t, responses[1].Success)
	assert.Equal(t, TypeOpen, responses[1].Type)
	var opened resolver.OpenResult
	require.NoError(t, json.Unmarshal(responses[1].Data, &opened))
	assert.Equal(t, 2, opened.NumLines)
	assert.Equal(t, "lf", opened.Ending)

	require.True(t, responses[2].Success)
	var result resolver.ResolveResult
	require.NoError(t, json.Unmarshal(responses[2].Data, &result))
	require.Len(t, result.Positions, 3)
	assert.Equal(t, &lineindex.Position{Line: 1, Column: 5}, result.Positions[0].Position)
	assert.Equal(t, &lineindex.Position{Line: 2, Column: 0}, result.Positions[1].Position)
	assert.Equal(t, "offset out of bounds", result.Positions[2].Error)
}

func TestServer_PositionByIDAndContent(t *testing.T) {
	id := types.ComputeDocumentID([]byte("abcdefg\r\nhijklmnop\nqrstuv"))

	responses := run(t,
		`{"type":"open","payload":{"content":"abcdefg\r\nhijklmnop\nqrstuv"}}`,
		`{"type":"position","payload":{"id":"`+id.Hex()+`","offsets":[24]}}`,
		`{"type":"position","payload":{"content":"abcdefg\r\nhijklmnop\nqrstuv","offsets":[24]}}`,
		`{"type":"num_lines","payload":{"id":"`+id.Hex()+`"}}`,
	)
	require.Len(t, responses, 5)

	var opened resolver.OpenResult
	require.NoError(t, json.Unmarshal(responses[1].Data, &opened))
	assert.Equal(t, id, opened.ID)

	for _, resp := range responses[2:4] {
		require.True(t, resp.Success, resp.Error)
		var result resolver.ResolveResult
		require.NoError(t, json.Unmarshal(resp.Data, &result))
		assert.Equal(t, id, result.ID)
		assert.Equal(t, &lineindex.Position{Line: 2, Column: 15}, result.Positions[0].Position)
	}

	require.True(t, responses[4].Success)
	var n NumLinesData
	require.NoError(t, json.Unmarshal(responses[4].Data, &n))
	assert.Equal(t, 2, n.NumLines)
}

func TestServer_PositionErrors(t *testing.T) {
	responses := run(t,
		`{"type":"position","payload":{"offsets":[0]}}`,
		`{"type":"position","payload":{"source":"never-opened","offsets":[0]}}`,
		`{"type":"position","payload":{"id":"e69de29bb2d1d6434b8b29ae775ad8c2e48c5391","offsets":[0]}}`,
		`{"type":"position","payload":"not an object"}`,
	)
	require.Len(t, responses, 5)

	for _, resp := range responses[1:] {
		assert.False(t, resp.Success)
		assert.Equal(t, TypePosition, resp.Type)
		assert.NotEmpty(t, resp.Error)
	}
	assert.Contains(t, responses[1].Error, "required")
	assert.Contains(t, responses[2].Error, "unknown source")
	assert.Contains(t, responses[3].Error, "not found")
}

func TestServer_ResolveBatch(t *testing.T) {
	responses := run(t,
		`{"type":"resolve_batch","payload":{"items":[{"source":"s1","content":"a\nb","offsets":[2]},{"source":"s2","content":"abc","offsets":[3]}]}}`,
	)
	require.Len(t, responses, 2)

	require.True(t, responses[1].Success)
	assert.Equal(t, TypeResolveBatch, responses[1].Type)

	var batch resolver.BatchResult
	require.NoError(t, json.Unmarshal(responses[1].Data, &batch))
	require.Len(t, batch.Results, 2)
	assert.Equal(t, 2, batch.Total)
	assert.Equal(t, &lineindex.Position{Line: 2, Column: 0}, batch.Results[0].Positions[0].Position)
	assert.NotEmpty(t, batch.Results[1].Positions[0].Error)
}

func TestServer_CloseSource(t *testing.T) {
	responses := run(t,
		`{"type":"open","payload":{"source":"buf","content":"x"}}`,
		`{"type":"close_source","payload":{"source":"buf"}}`,
		`{"type":"close_source","payload":{"source":"buf"}}`,
	)
	require.Len(t, responses, 4)

	var first, second CloseSourceData
	require.NoError(t, json.Unmarshal(responses[2].Data, &first))
	require.NoError(t, json.Unmarshal(responses[3].Data, &second))
	assert.True(t, first.Closed)
	assert.False(t, second.Closed)
}

func TestServer_GracefulShutdownOnContext(t *testing.T) {
	// Slow reader that blocks
	pr, pw := io.Pipe()
	out := &bytes.Buffer{}

	srv := NewServer(newCore(t), pr, out)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() {
		done <- srv.Run(ctx)
	}()

	// Wait for ready signal
	time.Sleep(100 * time.Millisecond)

	cancel()
	pw.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

func TestServer_CloseCommand(t *testing.T) {
	responses := run(t,
		`{"type":"close","payload":{}}`,
		`{"type":"open","payload":{"content":"ignored"}}`,
	)
	require.Len(t, responses, 1) // Only ready signal
}

func TestServer_UnknownCommand(t *testing.T) {
	responses := run(t, `{"type":"invalid","payload":{}}`)
	require.Len(t, responses, 2)

	assert.False(t, responses[1].Success)
	assert.Contains(t, responses[1].Error, "unknown request type")
}

func TestServer_MalformedJSON(t *testing.T) {
	responses := run(t, `{invalid json}`)
	require.GreaterOrEqual(t, len(responses), 2)

	assert.False(t, responses[1].Success)
	assert.Equal(t, TypeDecode, responses[1].Type)
}

// Responses must be sent even when EOF arrives before the main loop
// processes the pending request.
func TestServer_PendingRequestBeforeEOF(t *testing.T) {
	for i := range 10 {
		responses := run(t, `{"type":"position","payload":{"content":"a\nb","offsets":[2]}}`)
		require.Len(t, responses, 2, "iteration %d", i)
		assert.True(t, responses[1].Success, "iteration %d", i)
		assert.Equal(t, TypePosition, responses[1].Type, "iteration %d", i)
	}
}
