// Package parser turns textual magic source into an *ast.Database. It never
// aborts a whole load on one bad line: malformed rules are skipped and
// reported through Diagnostics, mirroring the teacher's Parser.errors.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/shirou/filemagic/internal/ast"
)

// Parser accumulates rules (and diagnostics for malformed lines) across one
// or more ParseReader/ParseFile calls into a single Database.
type Parser struct {
	db     *ast.Database
	diags  []Diagnostic
	logger *slog.Logger
	file   string
	stack  []*ast.Rule
}

type Option func(*Parser)

func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{db: ast.NewDatabase(), logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) Database() *ast.Database     { return p.db }
func (p *Parser) Diagnostics() []Diagnostic    { return p.diags }

func (p *Parser) addDiag(line int, format string, args ...interface{}) {
	p.diags = append(p.diags, Diagnostic{File: p.file, Line: line, Message: fmt.Sprintf(format, args...)})
}

// ParseReader loads one magic source, appending its rules to p.Database().
func (p *Parser) ParseReader(r io.Reader, filename string) {
	p.file = filename
	p.stack = nil
	p.db.Files = append(p.db.Files, filename)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := trimCR(scanner.Text())
		trimmed := skipSpaces(raw)
		if trimmed == "" || trimmed[0] == '#' {
			continue
		}
		if strings.HasPrefix(trimmed, "!:") {
			p.applyDirective(trimmed[2:], lineNo)
			continue
		}

		rule, err := p.parseLine(raw, lineNo)
		if err != nil {
			p.addDiag(lineNo, "%v", err)
			p.logger.Debug("skipping malformed rule", "line", lineNo, "error", err)
			continue
		}
		p.attach(rule)
	}
}

// ParseFile opens and loads a single magic source file.
func (p *Parser) ParseFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "parser: open %s", path)
	}
	defer f.Close()
	p.ParseReader(f, path)
	return nil
}

// ParseString loads magic source held entirely in memory, used by tests and
// by callers embedding a small rule set.
func (p *Parser) ParseString(text string) {
	p.ParseReader(strings.NewReader(text), "<string>")
}

// attach places rule into the rule tree being built, using p.stack (indexed
// by level) to find its parent, per spec.md §4.3's hierarchy construction.
func (p *Parser) attach(rule *ast.Rule) {
	if rule.Level == 0 {
		p.db.AddTopLevel(rule)
		p.stack = []*ast.Rule{rule}
		return
	}
	if rule.Level > len(p.stack) {
		p.addDiag(rule.Line, "rule at level %d has no parent at level %d", rule.Level, rule.Level-1)
		return
	}
	parent := p.stack[rule.Level-1]
	parent.Children = append(parent.Children, rule)
	p.stack = append(p.stack[:rule.Level], rule)
}

func (p *Parser) applyDirective(body string, lineNo int) {
	if len(p.stack) == 0 {
		p.addDiag(lineNo, "!: directive with no preceding rule")
		return
	}
	target := p.stack[len(p.stack)-1]
	field, rest := takeField(body)
	rest = skipSpaces(rest)
	switch field {
	case "mime":
		target.MIMEType = rest
	case "apple":
		target.Apple = rest
	case "ext":
		target.Extensions = strings.Split(rest, "/")
	case "strength":
		applyStrengthDirective(target, rest)
	default:
		p.addDiag(lineNo, "unknown !: directive %q", field)
	}
}

func applyStrengthDirective(target *ast.Rule, expr string) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return
	}
	op := expr[0]
	numStr := expr
	if op == '+' || op == '-' || op == '*' || op == '/' {
		numStr = expr[1:]
	} else {
		op = '='
	}
	n, err := strconv.Atoi(strings.TrimSpace(numStr))
	if err != nil {
		return
	}
	base := 10
	switch op {
	case '+':
		base = target.ManualStrength + n
	case '-':
		base = target.ManualStrength - n
	case '*':
		base = target.ManualStrength * n
	case '/':
		if n != 0 {
			base = target.ManualStrength / n
		}
	default:
		base = n
	}
	target.ManualStrength = base
	target.HasStrength = true
}

// parseLine parses one non-comment, non-directive magic source line into a
// Rule (without yet attaching it to the tree).
func (p *Parser) parseLine(raw string, lineNo int) (*ast.Rule, error) {
	level := 0
	l := raw
	for len(l) > 0 && l[0] == '>' {
		level++
		l = l[1:]
	}

	offset, rest, err := parseOffset(l)
	if err != nil {
		return nil, fmt.Errorf("offset: %w", err)
	}
	rest = skipSpaces(rest)
	if rest == "" {
		return nil, fmt.Errorf("missing type field")
	}

	t, rest, err := parseType(rest)
	if err != nil {
		return nil, fmt.Errorf("type: %w", err)
	}

	rule := &ast.Rule{Offset: offset, Type: t, Level: level, File: p.file, Line: lineNo}

	if t.Name == "name" {
		rest = skipSpaces(rest)
		name, remainder := takeField(rest)
		rule.Name = name
		rule.Operator = ast.Operator{Kind: ast.OpAlways}
		rule.Value = ast.Value{Kind: ast.ValueDontCare}
		rule.Message = strings.TrimSpace(remainder)
		return rule, nil
	}

	rest = skipSpaces(rest)
	op, val, rest, err := parseOperatorAndValue(&rule.Type, rest)
	if err != nil {
		return nil, fmt.Errorf("value: %w", err)
	}
	rule.Operator = op
	rule.Value = val

	rule.Message, rule.NoSpace = parseMessage(rest)
	return rule, nil
}

// parseMessage extracts the human-readable description trailing a rule. A
// leading "\b" (escaped or literal) suppresses the separating space the
// evaluator otherwise inserts before this message when concatenating it
// onto its parent's.
func parseMessage(rest string) (string, bool) {
	rest = skipSpaces(rest)
	noSpace := false
	if strings.HasPrefix(rest, "\\b") {
		noSpace = true
		rest = rest[2:]
	} else if strings.HasPrefix(rest, "\b") {
		noSpace = true
		rest = rest[1:]
	}
	return string(unescape(rest)), noSpace
}

// LoadRules parses a standalone magic source held in memory.
func LoadRules(text string) (*ast.Database, []Diagnostic) {
	p := NewParser()
	p.ParseString(text)
	return p.Database(), p.Diagnostics()
}

// LoadRulesFromPath parses a single magic source file on disk.
func LoadRulesFromPath(path string) (*ast.Database, []Diagnostic, error) {
	p := NewParser()
	if err := p.ParseFile(path); err != nil {
		return nil, nil, err
	}
	return p.Database(), p.Diagnostics(), nil
}

// LoadDefaultMagicFiles searches the MAGIC environment variable (a
// colon-separated list of paths) and, failing that, DefaultMagicPaths and
// ~/.magic, loading every file found into one Database.
func LoadDefaultMagicFiles() (*ast.Database, []Diagnostic, error) {
	var paths []string
	if env := os.Getenv("MAGIC"); env != "" {
		paths = strings.Split(env, ":")
	} else {
		paths = append(paths, DefaultMagicPaths...)
		if home, err := os.UserHomeDir(); err == nil {
			paths = append(paths, filepath.Join(home, ".magic"))
		}
	}

	p := NewParser()
	found := false
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := p.ParseFile(path); err != nil {
			return nil, nil, err
		}
		found = true
	}
	if !found {
		return nil, nil, errors.Errorf("parser: no magic file found in %v", paths)
	}
	return p.Database(), p.Diagnostics(), nil
}
