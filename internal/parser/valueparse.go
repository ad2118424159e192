package parser

import (
	"fmt"
	"strconv"

	"github.com/shirou/filemagic/internal/ast"
)

// parseMaskNumber reads a mask literal the same way parseSignedNumber does
// but always treats it as unsigned.
func parseMaskNumber(l string) (uint64, string, bool) {
	n, rest, ok := parseSignedNumber(l)
	if !ok {
		return 0, l, false
	}
	return uint64(n), rest, true
}

// parseOperatorAndValue consumes the relation/mask prefix and comparand
// from the front of l, per spec.md §4.3's operator grammar.
func parseOperatorAndValue(t *ast.TypeKind, l string) (ast.Operator, ast.Value, string, error) {
	if len(l) == 0 {
		return ast.Operator{}, ast.Value{}, l, fmt.Errorf("expected a test value")
	}

	switch l[0] {
	case 'x':
		if len(l) == 1 || isSpace(l[1]) {
			return ast.Operator{Kind: ast.OpAlways}, ast.Value{Kind: ast.ValueDontCare}, l[1:], nil
		}
	case '&', '^', '~':
		maskChar := l[0]
		mask, rest, ok := parseMaskNumber(l[1:])
		if !ok {
			return ast.Operator{}, ast.Value{}, l, fmt.Errorf("expected a mask value after %q", string(maskChar))
		}
		l = rest
		op := ast.Operator{Mask: mask, HasMask: true}
		switch maskChar {
		case '&':
			op.Kind = ast.OpBitAnd
		case '^':
			op.Kind = ast.OpBitXor
		case '~':
			op.Kind = ast.OpBitClear
		}
		if len(l) > 0 {
			switch l[0] {
			case '=', '!', '<', '>':
				op.Relation = l[0]
				op.HasRelation = true
				val, rest2, err := parseValueLiteral(t, l[1:])
				if err != nil {
					return ast.Operator{}, ast.Value{}, l, err
				}
				return op, val, rest2, nil
			}
		}
		return op, ast.Value{Kind: ast.ValueDontCare}, l, nil
	case '=':
		val, rest, err := parseValueLiteral(t, l[1:])
		return ast.Operator{Kind: ast.OpEqual}, val, rest, err
	case '!':
		val, rest, err := parseValueLiteral(t, l[1:])
		return ast.Operator{Kind: ast.OpNotEqual}, val, rest, err
	case '<':
		val, rest, err := parseValueLiteral(t, l[1:])
		return ast.Operator{Kind: ast.OpLess}, val, rest, err
	case '>':
		val, rest, err := parseValueLiteral(t, l[1:])
		return ast.Operator{Kind: ast.OpGreater}, val, rest, err
	}

	// No operator prefix: default to equality.
	val, rest, err := parseValueLiteral(t, l)
	return ast.Operator{Kind: ast.OpEqual}, val, rest, err
}

func parseValueLiteral(t *ast.TypeKind, l string) (ast.Value, string, error) {
	switch t.Category {
	case ast.CategoryInteger:
		n, rest, ok := parseSignedNumber(l)
		if !ok {
			return ast.Value{}, l, fmt.Errorf("expected an integer value at %q", firstToken(l))
		}
		kind := ast.ValueUnsigned
		if t.Signed {
			kind = ast.ValueSigned
			// Bring the literal into the type's signed domain, so 0x89504e47
			// on a 4-byte signed type equals the sign-extended read.
			if t.Width > 0 && t.Width < 8 {
				shift := uint(64 - 8*t.Width)
				n = n << shift >> shift
			}
		}
		return ast.Value{Kind: kind, Unsigned: uint64(n), Signed: n}, rest, nil

	case ast.CategoryFloat:
		field, rest := takeField(l)
		f, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return ast.Value{}, l, fmt.Errorf("expected a float value at %q", field)
		}
		return ast.Value{Kind: ast.ValueFloat, Float: f}, rest, nil

	case ast.CategoryString, ast.CategoryPascalString:
		lit, rest := scanLiteral(l)
		return ast.Value{Kind: ast.ValueText, Text: string(unescape(lit))}, rest, nil

	case ast.CategoryRegex, ast.CategorySearch:
		lit, rest := scanLiteral(l)
		if err := compileValuePattern(t, string(lit)); err != nil {
			return ast.Value{}, l, err
		}
		return ast.Value{Kind: ast.ValuePattern, Pattern: t.Regexp, Text: string(unescape(lit))}, rest, nil

	case ast.CategoryUse:
		lit, rest := scanLiteral(l)
		name := string(lit)
		if len(name) > 0 && name[0] == '^' {
			name = name[1:]
		}
		t.UseName = name
		return ast.Value{Kind: ast.ValueText, Text: name}, rest, nil

	default: // Default, Clear: no comparand
		_, rest := takeField(l)
		return ast.Value{Kind: ast.ValueDontCare}, rest, nil
	}
}

// scanLiteral reads a whitespace-delimited literal honoring backslash
// escapes (so "\ " does not end the literal).
func scanLiteral(l string) (string, string) {
	i := 0
	for i < len(l) {
		if l[i] == '\\' && i+1 < len(l) {
			i += 2
			continue
		}
		if isSpace(l[i]) {
			break
		}
		i++
	}
	return l[:i], l[i:]
}
