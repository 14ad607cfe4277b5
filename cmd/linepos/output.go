package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output formats shared by resolve and find
const (
	formatHuman = "human"
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatSARIF = "sarif"
)

// styles holds color formatters for human output
type styles struct {
	heading  *color.Color
	position *color.Color
	offset   *color.Color
	match    *color.Color
	failure  *color.Color
}

// newStyles creates color formatters for human output
// enabled=false respects --color never and the NO_COLOR env var
func newStyles(enabled bool) *styles {
	s := &styles{
		heading:  color.New(color.Bold, color.FgHiWhite),
		position: color.New(color.FgHiGreen),
		offset:   color.New(color.FgHiBlue),
		match:    color.New(color.FgYellow),
		failure:  color.New(color.FgRed),
	}

	// Without an explicit setting fatih/color uses the global NoColor,
	// which is true whenever stdout is not a terminal.
	for _, c := range []*color.Color{s.heading, s.position, s.offset, s.match, s.failure} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return s
}

// colorEnabled resolves a --color value against the terminal and NO_COLOR.
func colorEnabled(mode string, out io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		if os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		f, ok := out.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	default:
		return false, fmt.Errorf("unknown color mode: %s", mode)
	}
}

// checkFormat rejects unknown --format values before any work is done.
func checkFormat(format string) error {
	switch format {
	case formatHuman, formatJSON, formatYAML, formatSARIF:
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// writeStructured writes v as indented JSON or YAML.
func writeStructured(out io.Writer, format string, v interface{}) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
