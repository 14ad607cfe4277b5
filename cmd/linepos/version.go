package main

import (
	"fmt"
	"runtime"

	"github.com/praetorian-inc/linepos/pkg/locate"
	"github.com/praetorian-inc/linepos/pkg/sarif"
	"github.com/praetorian-inc/linepos/pkg/serve"
	"github.com/praetorian-inc/linepos/pkg/store"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
)

var versionFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display the linepos build together with the versions of the formats it
reads and writes: the serve protocol, the index cache schema and SARIF.`,
	RunE: runVersion,
}

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", formatHuman, "Output format: human, json, yaml")
}

// buildInfo describes this binary and the formats it speaks.
type buildInfo struct {
	Version       string `json:"version" yaml:"version"`
	Commit        string `json:"commit" yaml:"commit"`
	Protocol      string `json:"protocol" yaml:"protocol"`
	StoreSchema   int    `json:"store_schema" yaml:"store_schema"`
	SARIF         string `json:"sarif" yaml:"sarif"`
	SARIFColumns  string `json:"sarif_columns" yaml:"sarif_columns"`
	RegexpTimeout string `json:"regexp_timeout" yaml:"regexp_timeout"`
	Go            string `json:"go" yaml:"go"`
	Platform      string `json:"platform" yaml:"platform"`
}

func currentBuildInfo() buildInfo {
	return buildInfo{
		Version:       version,
		Commit:        commit,
		Protocol:      serve.Version,
		StoreSchema:   store.SchemaVersion,
		SARIF:         sarif.Version,
		SARIFColumns:  sarif.ColumnKind,
		RegexpTimeout: locate.MatchTimeout.String(),
		Go:            runtime.Version(),
		Platform:      runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := currentBuildInfo()
	out := cmd.OutOrStdout()

	switch versionFormat {
	case formatJSON, formatYAML:
		return writeStructured(out, versionFormat, info)
	case formatHuman, "":
	default:
		return fmt.Errorf("unknown output format: %s", versionFormat)
	}

	fmt.Fprintf(out, "linepos v%s (%s)\n", info.Version, info.Commit)
	fmt.Fprintf(out, "Serve protocol: %s\n", info.Protocol)
	fmt.Fprintf(out, "Index cache schema: %d\n", info.StoreSchema)
	fmt.Fprintf(out, "SARIF: %s, columns in %s\n", info.SARIF, info.SARIFColumns)
	fmt.Fprintf(out, "Regexp match timeout: %s\n", info.RegexpTimeout)
	fmt.Fprintf(out, "Built with %s for %s\n", info.Go, info.Platform)
	return nil
}
