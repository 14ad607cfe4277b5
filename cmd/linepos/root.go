package main

import (
	"fmt"
	"io"
	"os"

	"github.com/praetorian-inc/linepos/pkg/resolver"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "linepos",
	Short: "linepos - resolve byte offsets to line and column positions",
	Long: `linepos converts byte offsets in a text into 1-based line numbers and
0-based byte columns.

A text containing "\r\n" anywhere is split on "\r\n", otherwise on "\n".
Offsets can be given directly, read from a query file, or produced by
regex and literal patterns.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	// Add subcommands
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// writerLogger writes resolver diagnostics to w
type writerLogger struct {
	w io.Writer
}

func (l writerLogger) Log(format string, args ...interface{}) {
	fmt.Fprintf(l.w, "debug: "+format+"\n", args...)
}

// newLogger returns a stderr logger when --verbose is set
func newLogger(cmd *cobra.Command) resolver.DebugLogger {
	if verbose && !quiet {
		return writerLogger{w: cmd.ErrOrStderr()}
	}
	return resolver.NoopLogger{}
}

// warnf prints a warning unless --quiet is set
func warnf(format string, args ...interface{}) {
	if quiet {
		return
	}
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}
