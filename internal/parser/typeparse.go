package parser

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/shirou/filemagic/internal/ast"
)

// parseType consumes a type keyword (and, for string/regex/search/pstring
// types, its "/"-separated modifiers) from the front of line.
func parseType(line string) (ast.TypeKind, string, error) {
	name, rest, ok := matchTypeKeyword(line)
	if !ok {
		return ast.TypeKind{}, line, fmt.Errorf("unknown type keyword at %q", firstToken(line))
	}
	t := baseTypes[name]
	t.Name = name

	switch t.Category {
	case ast.CategoryString:
		return parseStringModifiers(t, rest)
	case ast.CategoryPascalString:
		return parsePascalModifiers(t, rest)
	case ast.CategoryRegex:
		return parseRegexModifiers(t, rest)
	case ast.CategorySearch:
		return parseSearchModifiers(t, rest)
	default:
		return t, rest, nil
	}
}

func matchTypeKeyword(line string) (string, string, bool) {
	for _, name := range orderedTypeNames {
		if len(line) < len(name) || line[:len(name)] != name {
			continue
		}
		if len(line) > len(name) && isWordByte(line[len(name)]) {
			continue
		}
		return name, line[len(name):], true
	}
	return "", line, false
}

func isWordByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}

// parseCount reads an optional "/<digits>" length/count modifier.
func parseCount(l string) (int, string, bool) {
	if len(l) == 0 || l[0] != '/' {
		return 0, l, false
	}
	i := 1
	for i < len(l) && isDigit(l[i]) {
		i++
	}
	if i == 1 {
		return 0, l, false
	}
	n, _ := strconv.Atoi(l[1:i])
	return n, l[i:], true
}

func parseStringModifiers(t ast.TypeKind, l string) (ast.TypeKind, string, error) {
	if n, rest, ok := parseCount(l); ok {
		t.MaxLen = n
		l = rest
	}
	for len(l) > 0 && l[0] == '/' {
		l = l[1:]
	}
	for len(l) > 0 && !isSpace(l[0]) {
		switch l[0] {
		case 'W':
			t.CompactWhitespace = true
		case 'w':
			t.OptionalWhitespace = true
		case 'c', 'C':
			t.CaseFold = true
		case 'T':
			t.Trim = true
		case 'f':
			t.FullWord = true
		case 'b', 't', 's':
			// binary/text/regex-offset-start test hints; not consulted by
			// the evaluator's matching logic.
		default:
			return t, l, fmt.Errorf("unknown string modifier %q", string(l[0]))
		}
		l = l[1:]
	}
	return t, l, nil
}

func parsePascalModifiers(t ast.TypeKind, l string) (ast.TypeKind, string, error) {
	for len(l) > 0 && l[0] == '/' {
		l = l[1:]
		if len(l) == 0 {
			break
		}
		switch l[0] {
		case 'B':
			t.LengthPrefixWidth, t.LengthPrefixEndian = 1, ast.LittleEndian
		case 'H':
			t.LengthPrefixWidth, t.LengthPrefixEndian = 2, ast.BigEndian
		case 'h':
			t.LengthPrefixWidth, t.LengthPrefixEndian = 2, ast.LittleEndian
		case 'L':
			t.LengthPrefixWidth, t.LengthPrefixEndian = 4, ast.BigEndian
		case 'l':
			t.LengthPrefixWidth, t.LengthPrefixEndian = 4, ast.LittleEndian
		case 'J':
			t.LengthIncludesPrefix = true
		default:
			return t, l, fmt.Errorf("unknown pstring modifier %q", string(l[0]))
		}
		l = l[1:]
	}
	return t, l, nil
}

func parseRegexModifiers(t ast.TypeKind, l string) (ast.TypeKind, string, error) {
	if n, rest, ok := parseCount(l); ok {
		t.MaxSearchBytes = n
		l = rest
	}
	for len(l) > 0 && l[0] == '/' {
		l = l[1:]
	}
	for len(l) > 0 && !isSpace(l[0]) {
		switch l[0] {
		case 'c':
			t.CaseFold = true
		case 's', 'l':
			// per-line / multiline search hints, not modeled separately.
		default:
			return t, l, fmt.Errorf("unknown regex modifier %q", string(l[0]))
		}
		l = l[1:]
	}
	return t, l, nil
}

func parseSearchModifiers(t ast.TypeKind, l string) (ast.TypeKind, string, error) {
	if n, rest, ok := parseCount(l); ok {
		t.MaxSearchBytes = n
		l = rest
	}
	for len(l) > 0 && l[0] == '/' {
		l = l[1:]
	}
	for len(l) > 0 && !isSpace(l[0]) {
		switch l[0] {
		case 'c':
			t.CaseFold = true
		case 'W':
			t.CompactWhitespace = true
		case 'w':
			t.OptionalWhitespace = true
		case 'T':
			t.Trim = true
		case 'b', 't':
			// hints, not modeled.
		default:
			return t, l, fmt.Errorf("unknown search modifier %q", string(l[0]))
		}
		l = l[1:]
	}
	return t, l, nil
}

// compileValuePattern compiles a regex/search value string at parse time:
// a bad pattern is a ParseError on that rule, never an evaluation-time
// failure.
func compileValuePattern(t *ast.TypeKind, literal string) error {
	pattern := literal
	if t.Category == ast.CategoryRegex && t.CaseFold {
		pattern = "(?i)" + literal
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %w", literal, err)
	}
	t.Pattern = literal
	t.Regexp = re
	return nil
}
