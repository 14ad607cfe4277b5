package lineindex

import (
	"fmt"
	"strings"
)

// Ending is the line-ending delimiter chosen for a whole document.
type Ending int

const (
	// LF splits lines on "\n".
	LF Ending = iota
	// CRLF splits lines on "\r\n".
	CRLF
)

// DetectEnding returns CRLF if text contains "\r\n" anywhere, otherwise LF.
//
// The choice is global: a document mixing both conventions is split entirely
// by CRLF, and a lone "\n" inside it is ordinary text.
func DetectEnding(text string) Ending {
	if strings.Contains(text, "\r\n") {
		return CRLF
	}
	return LF
}

// Delimiter returns the byte sequence that terminates a line.
func (e Ending) Delimiter() string {
	if e == CRLF {
		return "\r\n"
	}
	return "\n"
}

// String returns "lf" or "crlf".
func (e Ending) String() string {
	switch e {
	case LF:
		return "lf"
	case CRLF:
		return "crlf"
	default:
		return fmt.Sprintf("Ending(%d)", int(e))
	}
}

// ParseEnding parses the output of String.
func ParseEnding(s string) (Ending, error) {
	switch s {
	case "lf":
		return LF, nil
	case "crlf":
		return CRLF, nil
	default:
		return LF, fmt.Errorf("unknown line ending: %q", s)
	}
}
