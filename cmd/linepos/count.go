package main

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/praetorian-inc/linepos/pkg/lineindex"
	"github.com/praetorian-inc/linepos/pkg/source"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	countWorkers       int
	countMaxFileSize   int64
	countIncludeHidden bool
)

// countResult is the line count of one input
type countResult struct {
	Ref      string
	NumLines int
	Ending   lineindex.Ending
}

var countCmd = &cobra.Command{
	Use:   "count <file|dir|git:repo@rev:path>...",
	Short: "Print the number of lines in each input",
	Long: `Print the number of lines of each input, as linepos counts them: a
trailing delimiter does not start an extra line, and an empty input has
zero lines.

Directories are walked recursively, skipping hidden entries, binary files
and paths matched by the directory's .gitignore.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCount,
}

func init() {
	countCmd.Flags().IntVar(&countWorkers, "workers", 4, "Number of inputs loaded concurrently")
	countCmd.Flags().Int64Var(&countMaxFileSize, "max-file-size", 64*1024*1024, "Maximum file size to load (bytes)")
	countCmd.Flags().BoolVar(&countIncludeHidden, "include-hidden", false, "Include hidden files when walking directories")
}

func runCount(cmd *cobra.Command, args []string) error {
	var (
		mu      sync.Mutex
		results []countResult
	)
	add := func(c *source.Content) {
		idx := lineindex.ParseBytes(c.Data)
		mu.Lock()
		results = append(results, countResult{Ref: c.Ref, NumLines: idx.NumLines(), Ending: idx.Ending()})
		mu.Unlock()
	}

	g, ctx := errgroup.WithContext(commandContext(cmd))
	if countWorkers > 0 {
		g.SetLimit(countWorkers)
	}

	for _, ref := range args {
		if info, err := os.Stat(ref); err == nil && info.IsDir() {
			g.Go(func() error {
				err := source.Walk(ctx, ref, source.WalkConfig{
					Config:        source.Config{MaxSize: countMaxFileSize},
					IncludeHidden: countIncludeHidden,
					Workers:       countWorkers,
				}, func(c *source.Content) error {
					add(c)
					return nil
				})
				if err != nil {
					return fmt.Errorf("walking %s: %w", ref, err)
				}
				return nil
			})
			continue
		}

		g.Go(func() error {
			content, err := source.Load(ctx, ref, source.Config{MaxSize: countMaxFileSize})
			if err != nil {
				return fmt.Errorf("loading %s: %w", ref, err)
			}
			add(content)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Ref < results[j].Ref
	})

	out := cmd.OutOrStdout()
	total := 0
	for _, r := range results {
		total += r.NumLines
		fmt.Fprintf(out, "%8d %-4s %s\n", r.NumLines, r.Ending, r.Ref)
	}
	if len(results) > 1 {
		fmt.Fprintf(out, "%8d      total\n", total)
	}
	return nil
}
