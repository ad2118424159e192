package parser

import "fmt"

// Diagnostic reports a single malformed rule line. Parsing never aborts on
// one: the offending line is skipped and collected here, the way the
// teacher's Parser.errors accumulates per-line problems across a load.
type Diagnostic struct {
	File    string
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	if d.File != "" {
		return fmt.Sprintf("%s:%d: %s", d.File, d.Line, d.Message)
	}
	return fmt.Sprintf("line %d: %s", d.Line, d.Message)
}
