package main

import (
	"context"
	"fmt"
	"os"

	"github.com/praetorian-inc/linepos/pkg/resolver"
	"github.com/praetorian-inc/linepos/pkg/sarif"
	"github.com/praetorian-inc/linepos/pkg/source"
	"github.com/praetorian-inc/linepos/pkg/store"
	"github.com/praetorian-inc/linepos/pkg/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	resolveOffsets     []int
	resolveQueriesPath string
	resolveFormat      string
	resolveColor       string
	resolveStorePath   string
	resolveMaxFileSize int64
)

// QueryFile lists offsets and named spans to resolve, loaded from YAML.
type QueryFile struct {
	Offsets []int       `yaml:"offsets"`
	Spans   []SpanQuery `yaml:"spans"`
}

// SpanQuery is a named half-open byte range.
type SpanQuery struct {
	Name  string `yaml:"name"`
	Start int64  `yaml:"start"`
	End   int64  `yaml:"end"`
}

// SpanResult is a resolved SpanQuery. Exactly one of Location and Error is set.
type SpanResult struct {
	Name     string          `json:"name" yaml:"name"`
	Location *types.Location `json:"location,omitempty" yaml:"location,omitempty"`
	Error    string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// resolveOutput is the structured output of the resolve command
type resolveOutput struct {
	Source    string                    `json:"source" yaml:"source"`
	ID        types.DocumentID          `json:"id" yaml:"id"`
	NumLines  int                       `json:"num_lines" yaml:"num_lines"`
	Ending    string                    `json:"ending" yaml:"ending"`
	Positions []resolver.PositionResult `json:"positions" yaml:"positions"`
	Spans     []SpanResult              `json:"spans,omitempty" yaml:"spans,omitempty"`
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <file|git:repo@rev:path>",
	Short: "Resolve byte offsets to line:column positions",
	Long: `Resolve byte offsets in a file, or in a file at a git revision, to
1-based lines and 0-based byte columns.

Offsets come from --offset and from a YAML query file:

  offsets: [5, 120]
  spans:
    - name: header
      start: 0
      end: 42`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().IntSliceVar(&resolveOffsets, "offset", nil, "Byte offset to resolve (repeatable, comma-separated)")
	resolveCmd.Flags().StringVar(&resolveQueriesPath, "queries", "", "Path to YAML query file")
	resolveCmd.Flags().StringVar(&resolveFormat, "format", formatHuman, "Output format: human, json, yaml, sarif")
	resolveCmd.Flags().StringVar(&resolveColor, "color", "auto", "Color output: auto, always, never")
	resolveCmd.Flags().StringVar(&resolveStorePath, "store", store.MemoryPath, "Index cache database path")
	resolveCmd.Flags().Int64Var(&resolveMaxFileSize, "max-file-size", 64*1024*1024, "Maximum file size to load (bytes)")
}

func runResolve(cmd *cobra.Command, args []string) error {
	ref := args[0]

	if err := checkFormat(resolveFormat); err != nil {
		return err
	}

	offsets := append([]int(nil), resolveOffsets...)
	var spans []SpanQuery
	if resolveQueriesPath != "" {
		q, err := loadQueryFile(resolveQueriesPath)
		if err != nil {
			return fmt.Errorf("loading queries: %w", err)
		}
		offsets = append(offsets, q.Offsets...)
		spans = q.Spans
	}
	if len(offsets) == 0 && len(spans) == 0 {
		return fmt.Errorf("no offsets given: use --offset or --queries")
	}

	content, err := source.Load(commandContext(cmd), ref, source.Config{MaxSize: resolveMaxFileSize})
	if err != nil {
		return fmt.Errorf("loading %s: %w", ref, err)
	}

	core, err := resolver.NewCore(resolver.Config{StorePath: resolveStorePath}, newLogger(cmd))
	if err != nil {
		return fmt.Errorf("creating resolver: %w", err)
	}
	defer core.Close()

	opened, err := core.Open("", string(content.Data))
	if err != nil {
		return fmt.Errorf("indexing %s: %w", ref, err)
	}

	result, err := core.Resolve(opened.ID, offsets)
	if err != nil {
		return fmt.Errorf("resolving offsets: %w", err)
	}

	idx, err := core.Index(opened.ID)
	if err != nil {
		return err
	}

	output := resolveOutput{
		Source:    ref,
		ID:        opened.ID,
		NumLines:  opened.NumLines,
		Ending:    opened.Ending,
		Positions: result.Positions,
	}
	for _, q := range spans {
		sr := SpanResult{Name: q.Name}
		loc, err := types.Locate(idx, types.OffsetSpan{Start: q.Start, End: q.End})
		if err != nil {
			sr.Error = err.Error()
		} else {
			sr.Location = &loc
		}
		output.Spans = append(output.Spans, sr)
	}

	switch resolveFormat {
	case formatHuman:
		enabled, err := colorEnabled(resolveColor, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		outputResolveHuman(cmd, &output, newStyles(enabled))
		return nil
	case formatSARIF:
		return outputResolveSARIF(cmd, &output, content.Data)
	default:
		return writeStructured(cmd.OutOrStdout(), resolveFormat, &output)
	}
}

// loadQueryFile reads a YAML query file.
func loadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var q QueryFile
	if err := yaml.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &q, nil
}

func outputResolveHuman(cmd *cobra.Command, output *resolveOutput, s *styles) {
	out := cmd.OutOrStdout()

	s.heading.Fprintf(out, "%s", output.Source)
	fmt.Fprintf(out, " (%d lines, %s)\n", output.NumLines, output.Ending)

	for _, p := range output.Positions {
		s.offset.Fprintf(out, "  %d", p.Offset)
		fmt.Fprint(out, " -> ")
		if p.Position != nil {
			s.position.Fprintln(out, p.Position.String())
		} else {
			s.failure.Fprintln(out, "error: "+p.Error)
		}
	}

	for _, sr := range output.Spans {
		s.offset.Fprintf(out, "  %s", sr.Name)
		if sr.Location != nil {
			fmt.Fprintf(out, " [%d, %d) -> ", sr.Location.Offset.Start, sr.Location.Offset.End)
			s.position.Fprintln(out, sr.Location.Source.String())
		} else {
			fmt.Fprint(out, " -> ")
			s.failure.Fprintln(out, "error: "+sr.Error)
		}
	}
}

// outputResolveSARIF reports each resolved offset and span as a SARIF
// result. Offsets outside the text are skipped with a warning.
func outputResolveSARIF(cmd *cobra.Command, output *resolveOutput, data []byte) error {
	report := sarif.NewReport()
	report.AddRule("linepos.offset", "Offset", "A byte offset resolved to a line and column")

	for _, p := range output.Positions {
		if p.Position == nil {
			warnf("offset %d: %s", p.Offset, p.Error)
			continue
		}
		loc := types.Location{
			Offset: types.OffsetSpan{Start: int64(p.Offset), End: int64(p.Offset)},
			Source: types.SourceSpan{
				Start: types.SourcePoint{Line: p.Position.Line, Column: p.Position.Column},
				End:   types.SourcePoint{Line: p.Position.Line, Column: p.Position.Column},
			},
		}
		report.AddResult("linepos.offset", fmt.Sprintf("offset %d", p.Offset), output.Source, loc, "", data)
	}

	if len(output.Spans) > 0 {
		report.AddRule("linepos.span", "Span", "A byte range resolved to a line and column range")
	}
	for _, sr := range output.Spans {
		if sr.Location == nil {
			warnf("span %s: %s", sr.Name, sr.Error)
			continue
		}
		snippet := string(data[sr.Location.Offset.Start:sr.Location.Offset.End])
		report.AddResult("linepos.span", sr.Name, output.Source, *sr.Location, snippet, data)
	}

	jsonData, err := report.ToJSON()
	if err != nil {
		return fmt.Errorf("generating SARIF: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
	return nil
}

// commandContext returns the command's context, or Background when the
// command was run without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
