package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/praetorian-inc/linepos/pkg/lineindex"
	"github.com/praetorian-inc/linepos/pkg/store"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// newResolveCmd creates a fresh resolve command for testing
func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:  "resolve",
		Args: cobra.ExactArgs(1),
		RunE: runResolve,
	}
	cmd.Flags().IntSliceVar(&resolveOffsets, "offset", nil, "")
	cmd.Flags().StringVar(&resolveQueriesPath, "queries", "", "")
	cmd.Flags().StringVar(&resolveFormat, "format", formatHuman, "")
	cmd.Flags().StringVar(&resolveColor, "color", "never", "")
	cmd.Flags().StringVar(&resolveStorePath, "store", store.MemoryPath, "")
	cmd.Flags().Int64Var(&resolveMaxFileSize, "max-file-size", 1024*1024, "")
	return cmd
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func executeResolve(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	cmd := newResolveCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestResolveCommand_JSON(t *testing.T) {
	path := writeFile(t, "sample.txt", "abcdefg\r\nhijklmnop\nqrstuv")

	out, err := executeResolve(t, path, "--offset", "5,24", "--offset", "25", "--format", "json")
	require.NoError(t, err)

	var decoded resolveOutput
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, path, decoded.Source)
	assert.Equal(t, 2, decoded.NumLines)
	assert.Equal(t, "crlf", decoded.Ending)
	require.Len(t, decoded.Positions, 3)
	assert.Equal(t, &lineindex.Position{Line: 1, Column: 5}, decoded.Positions[0].Position)
	assert.Equal(t, &lineindex.Position{Line: 2, Column: 15}, decoded.Positions[1].Position)
	assert.Nil(t, decoded.Positions[2].Position)
	assert.Equal(t, "offset out of bounds", decoded.Positions[2].Error)
}

func TestResolveCommand_Human(t *testing.T) {
	path := writeFile(t, "sample.txt", "abcdefg\nhijklmnop\n")

	out, err := executeResolve(t, path, "--offset", "8", "--offset", "100")
	require.NoError(t, err)

	assert.Contains(t, out, "(2 lines, lf)")
	assert.Contains(t, out, "8 -> 2:0")
	assert.Contains(t, out, "100 -> error: offset out of bounds")
}

func TestResolveCommand_QueryFileYAML(t *testing.T) {
	path := writeFile(t, "sample.txt", "abcdefg\nhijklmnop\n")
	queries := writeFile(t, "queries.yaml", `offsets: [0]
spans:
  - name: second
    start: 8
    end: 18
  - name: backwards
    start: 5
    end: 2
`)

	out, err := executeResolve(t, path, "--queries", queries, "--format", "yaml")
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 2, decoded["num_lines"])

	spans, ok := decoded["spans"].([]interface{})
	require.True(t, ok)
	require.Len(t, spans, 2)

	second := spans[0].(map[string]interface{})
	assert.Equal(t, "second", second["name"])
	assert.NotNil(t, second["location"])

	backwards := spans[1].(map[string]interface{})
	assert.Contains(t, backwards["error"], "before start")
}

func TestResolveCommand_SARIF(t *testing.T) {
	path := writeFile(t, "sample.txt", "abc\ndef\n")

	out, err := executeResolve(t, path, "--offset", "5", "--format", "sarif")
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "2.1.0", decoded["version"])
	assert.Contains(t, out, `"startLine": 2`)
	assert.Contains(t, out, `"startColumn": 2`)
}

func TestResolveCommand_Errors(t *testing.T) {
	path := writeFile(t, "sample.txt", "abc")

	_, err := executeResolve(t, path)
	assert.ErrorContains(t, err, "no offsets given")

	_, err = executeResolve(t, path, "--offset", "1", "--format", "xml")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = executeResolve(t, filepath.Join(t.TempDir(), "missing.txt"), "--offset", "1")
	assert.Error(t, err)

	_, err = executeResolve(t, path, "--queries", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "loading queries")
}

func TestResolveCommand_PersistentStore(t *testing.T) {
	path := writeFile(t, "sample.txt", "a\nb\nc")
	dbPath := filepath.Join(t.TempDir(), "linepos.db")

	for range 2 {
		out, err := executeResolve(t, path, "--offset", "4", "--store", dbPath, "--format", "json")
		require.NoError(t, err)
		assert.Contains(t, out, `"line": 3`)
	}

	s, err := store.New(store.Config{Path: dbPath})
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
