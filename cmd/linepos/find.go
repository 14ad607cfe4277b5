package main

import (
	"fmt"

	"github.com/praetorian-inc/linepos/pkg/lineindex"
	"github.com/praetorian-inc/linepos/pkg/locate"
	"github.com/praetorian-inc/linepos/pkg/sarif"
	"github.com/praetorian-inc/linepos/pkg/source"
	"github.com/spf13/cobra"
)

var (
	findRegexps     []string
	findLiterals    []string
	findFormat      string
	findColor       string
	findMaxFileSize int64
)

// findOutput is the structured output of the find command
type findOutput struct {
	Source  string          `json:"source" yaml:"source"`
	Results []locate.Result `json:"results" yaml:"results"`
}

var findCmd = &cobra.Command{
	Use:   "find <file|git:repo@rev:path>",
	Short: "Find patterns and report their line:column locations",
	Long: `Find every occurrence of regex and literal patterns in an input and
report each as a byte range and a line:column range.`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func init() {
	findCmd.Flags().StringArrayVar(&findRegexps, "regex", nil, "Regular expression to find (repeatable)")
	findCmd.Flags().StringArrayVar(&findLiterals, "literal", nil, "Literal string to find (repeatable)")
	findCmd.Flags().StringVar(&findFormat, "format", formatHuman, "Output format: human, json, yaml, sarif")
	findCmd.Flags().StringVar(&findColor, "color", "auto", "Color output: auto, always, never")
	findCmd.Flags().Int64Var(&findMaxFileSize, "max-file-size", 64*1024*1024, "Maximum file size to load (bytes)")
}

func runFind(cmd *cobra.Command, args []string) error {
	ref := args[0]

	if err := checkFormat(findFormat); err != nil {
		return err
	}

	m, err := locate.New(locate.Config{Regexps: findRegexps, Literals: findLiterals})
	if err != nil {
		return fmt.Errorf("creating matcher: %w", err)
	}

	content, err := source.Load(commandContext(cmd), ref, source.Config{MaxSize: findMaxFileSize})
	if err != nil {
		return fmt.Errorf("loading %s: %w", ref, err)
	}

	hits, err := m.Find(content.Data)
	if err != nil {
		return fmt.Errorf("matching %s: %w", ref, err)
	}

	results, err := locate.Resolve(lineindex.ParseBytes(content.Data), content.Data, hits)
	if err != nil {
		return fmt.Errorf("resolving matches: %w", err)
	}

	output := findOutput{Source: ref, Results: results}
	if output.Results == nil {
		output.Results = []locate.Result{}
	}

	switch findFormat {
	case formatHuman:
		enabled, err := colorEnabled(findColor, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		outputFindHuman(cmd, &output, newStyles(enabled))
		return nil
	case formatSARIF:
		return outputFindSARIF(cmd, &output, content.Data)
	default:
		return writeStructured(cmd.OutOrStdout(), findFormat, &output)
	}
}

func outputFindHuman(cmd *cobra.Command, output *findOutput, s *styles) {
	out := cmd.OutOrStdout()

	if len(output.Results) == 0 {
		fmt.Fprintf(out, "No matches.\n")
		return
	}

	for _, r := range output.Results {
		s.heading.Fprintf(out, "%s", output.Source)
		fmt.Fprint(out, ":")
		s.position.Fprintf(out, "%s", r.Location.Source.String())
		fmt.Fprint(out, " ")
		s.offset.Fprintf(out, "%s", r.Pattern)
		fmt.Fprint(out, " ")
		s.match.Fprintf(out, "%q", r.Text)
		fmt.Fprintln(out)
	}
}

func outputFindSARIF(cmd *cobra.Command, output *findOutput, data []byte) error {
	report := sarif.NewReport()
	if len(output.Results) > 0 {
		report.AddRule("linepos.match", "Match", "A pattern occurrence")
	}
	for _, r := range output.Results {
		report.AddResult("linepos.match", "matched "+r.Pattern, output.Source, r.Location, r.Text, data)
	}

	jsonData, err := report.ToJSON()
	if err != nil {
		return fmt.Errorf("generating SARIF: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
	return nil
}
