package eval

import (
	"fmt"

	"github.com/shirou/filemagic/internal/ast"
)

// MatchResult is one top-level rule tree that matched, with its assembled
// description and any MIME metadata carried on the matched rule.
type MatchResult struct {
	Description string
	MIMEType    string
	Rule        *ast.Rule
}

// Diagnostic reports a rule-level problem encountered while evaluating one
// file: a bounds violation, an unresolved offset, a bad decode, or a
// recursion/time limit. These are data, not bugs, and never abort the run.
type Diagnostic struct {
	Rule    *ast.Rule
	Message string
}

func (d Diagnostic) String() string {
	if d.Rule != nil {
		return fmt.Sprintf("%s:%d: %s", d.Rule.File, d.Rule.Line, d.Message)
	}
	return d.Message
}

// Result is the outcome of one Evaluate call.
type Result struct {
	Matches     []MatchResult
	Diagnostics []Diagnostic
}

// Description joins every matched top-level description the way file(1)
// concatenates multiple guesses when run with -k.
func (r Result) Description() string {
	out := ""
	for i, m := range r.Matches {
		if i > 0 {
			out += "\n"
		}
		out += m.Description
	}
	if out == "" {
		return "data"
	}
	return out
}
