package sarif

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/praetorian-inc/linepos/pkg/types"
)

// SARIF 2.1.0 constants
const (
	SchemaURI   = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	Version     = "2.1.0"
	ToolName    = "linepos"
	ToolVersion = "0.1.0"

	// ColumnKind is the unit of Region columns.
	ColumnKind = "utf16CodeUnits"
)

// Report is the top-level SARIF report structure
type Report struct {
	Schema  string `json:"$schema"`
	Version string `json:"version"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single invocation of the tool
type Run struct {
	Tool       Tool     `json:"tool"`
	ColumnKind string   `json:"columnKind"`
	Results    []Result `json:"results"`
}

// Tool describes the analysis tool
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver contains tool metadata
type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Rules   []Rule `json:"rules,omitempty"`
}

// Rule describes a kind of result
type Rule struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	ShortDescription ShortDescription `json:"shortDescription"`
}

// ShortDescription contains rule description text
type ShortDescription struct {
	Text string `json:"text"`
}

// Result represents a single located item
type Result struct {
	RuleID    string     `json:"ruleId"`
	Level     string     `json:"level"`
	Message   Message    `json:"message"`
	Locations []Location `json:"locations"`
}

// Message contains the result message
type Message struct {
	Text string `json:"text"`
}

// Location describes where a result was found
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation specifies file location
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

// ArtifactLocation identifies the file
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region specifies the line/column range. SARIF lines and columns are
// 1-based, columns count UTF-16 code units (ColumnKind) and EndColumn is
// one past the last character. CharOffset and CharLength are byte counts.
type Region struct {
	StartLine   int      `json:"startLine"`
	StartColumn int      `json:"startColumn"`
	EndLine     int      `json:"endLine"`
	EndColumn   int      `json:"endColumn"`
	CharOffset  int64    `json:"charOffset"`
	CharLength  int64    `json:"charLength"`
	Snippet     *Snippet `json:"snippet,omitempty"`
}

// Snippet contains the located text
type Snippet struct {
	Text string `json:"text"`
}

// NewReport creates a new SARIF report with initialized structure
func NewReport() *Report {
	return &Report{
		Schema:  SchemaURI,
		Version: Version,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:    ToolName,
						Version: ToolVersion,
						Rules:   []Rule{},
					},
				},
				Results: []Result{},
			},
		},
	}
}

// AddRule registers a rule once; repeated IDs are ignored.
func (r *Report) AddRule(id, name, description string) {
	driver := &r.Runs[0].Tool.Driver
	for _, existing := range driver.Rules {
		if existing.ID == id {
			return
		}
	}
	driver.Rules = append(driver.Rules, Rule{
		ID:               id,
		Name:             name,
		ShortDescription: ShortDescription{Text: description},
	})
}

// AddResult adds a located result to the report. content is the text loc
// was resolved in; it is needed to count columns in UTF-16 code units.
func (r *Report) AddResult(ruleID, message, filePath string, loc types.Location, snippet string, content []byte) {
	region := NewRegion(loc, content)
	if snippet != "" {
		region.Snippet = &Snippet{Text: snippet}
	}

	result := Result{
		RuleID: ruleID,
		Level:  "note",
		Message: Message{
			Text: message,
		},
		Locations: []Location{
			{
				PhysicalLocation: PhysicalLocation{
					ArtifactLocation: ArtifactLocation{
						URI: formatFileURI(filePath),
					},
					Region: region,
				},
			},
		},
	}

	r.Runs[0].Results = append(r.Runs[0].Results, result)
}

// NewRegion converts a Location in content to a SARIF region.
// With nil content, columns are byte columns, which agree for ASCII lines.
func NewRegion(loc types.Location, content []byte) Region {
	return Region{
		StartLine:   loc.Source.Start.Line,
		StartColumn: utf16Column(content, loc.Offset.Start, loc.Source.Start.Column),
		EndLine:     loc.Source.End.Line,
		EndColumn:   utf16Column(content, loc.Offset.End, loc.Source.End.Column),
		CharOffset:  loc.Offset.Start,
		CharLength:  loc.Offset.Len(),
	}
}

// utf16Column returns the 1-based UTF-16 column of the point at byte offset
// in content, whose 0-based byte column is column.
func utf16Column(content []byte, offset int64, column int) int {
	lineStart := offset - int64(column)
	if content == nil || lineStart < 0 || offset > int64(len(content)) {
		return column + 1
	}

	units := 0
	for b := content[lineStart:offset]; len(b) > 0; {
		r, size := utf8.DecodeRune(b)
		units += utf16.RuneLen(r)
		b = b[size:]
	}
	return units + 1
}

// ToJSON serializes the report to JSON bytes
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// formatFileURI converts a file path to SARIF URI format
// Absolute paths get file:// prefix, relative paths stay as-is
func formatFileURI(path string) string {
	if filepath.IsAbs(path) {
		// Normalize path separators for URI format
		path = filepath.ToSlash(path)
		// Ensure path starts with /
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return "file://" + path
	}
	// Relative paths stay as-is
	return filepath.ToSlash(path)
}
