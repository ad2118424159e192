package parser

import (
	"fmt"

	"github.com/shirou/filemagic/internal/ast"
)

// indirectSizeChars maps the size letter in an indirect offset's "(...)"
// form to a width/endian pair: lowercase is little-endian, uppercase big.
var indirectSizeChars = map[byte]struct {
	width  int
	endian ast.Endian
}{
	'b': {1, ast.LittleEndian}, 'B': {1, ast.BigEndian},
	's': {2, ast.LittleEndian}, 'S': {2, ast.BigEndian},
	'l': {4, ast.LittleEndian}, 'L': {4, ast.BigEndian},
	'q': {8, ast.LittleEndian}, 'Q': {8, ast.BigEndian},
}

// parseOffset consumes an offset expression from the front of line and
// returns the resulting OffsetSpec plus the unconsumed remainder.
func parseOffset(line string) (ast.OffsetSpec, string, error) {
	relative := false
	if len(line) > 0 && line[0] == '&' {
		relative = true
		line = line[1:]
	}

	if len(line) > 0 && line[0] == '(' {
		spec, rest, err := parseIndirectOffset(line, relative)
		return spec, rest, err
	}

	n, rest, ok := parseSignedNumber(line)
	if !ok {
		return ast.OffsetSpec{}, line, fmt.Errorf("expected an offset, found %q", firstToken(line))
	}
	if relative {
		return ast.Relative(n), rest, nil
	}
	return ast.Absolute(n), rest, nil
}

// parseIndirectOffset parses "(base[.sizechar][op adjust])". A leading '&'
// immediately after '(' marks the base itself as relative to the previous
// match's end, matching the teacher's INDIROFFADD handling and wizardry's
// IsRelative.
func parseIndirectOffset(line string, outerRelative bool) (ast.OffsetSpec, string, error) {
	if len(line) == 0 || line[0] != '(' {
		return ast.OffsetSpec{}, line, fmt.Errorf("expected '('")
	}
	l := line[1:]

	baseRelative := outerRelative
	if len(l) > 0 && l[0] == '&' {
		baseRelative = true
		l = l[1:]
	}

	n, rest, ok := parseSignedNumber(l)
	if !ok {
		return ast.OffsetSpec{}, line, fmt.Errorf("expected a base offset inside '(...)'")
	}
	l = rest

	var base ast.OffsetSpec
	if baseRelative {
		base = ast.Relative(n)
	} else {
		base = ast.Absolute(n)
	}

	ptrType := ast.TypeKind{Category: ast.CategoryInteger, Width: 4, Signed: false, Endian: ast.NativeEndian}
	if len(l) > 0 && l[0] == '.' && len(l) > 1 {
		if sz, ok := indirectSizeChars[l[1]]; ok {
			ptrType.Width = sz.width
			ptrType.Endian = sz.endian
			l = l[2:]
		} else {
			return ast.OffsetSpec{}, line, fmt.Errorf("unknown indirect size specifier %q", string(l[1]))
		}
	}

	adjustOp := ast.AdjustNone
	var adjust int64
	if len(l) > 0 {
		switch l[0] {
		case '+', '-', '*', '/', '&', '|', '^':
			adjustOp = ast.AdjustOp(l[0])
			v, rest2, ok := parseSignedNumber(l[1:])
			if !ok {
				return ast.OffsetSpec{}, line, fmt.Errorf("expected a number after indirect adjustment operator")
			}
			adjust = v
			l = rest2
		}
	}

	if len(l) == 0 || l[0] != ')' {
		return ast.OffsetSpec{}, line, fmt.Errorf("unterminated indirect offset, expected ')'")
	}
	l = l[1:]

	return ast.OffsetSpec{
		Kind: ast.OffsetIndirect,
		Indirect: &ast.IndirectOffset{
			Base:     base,
			PtrType:  ptrType,
			AdjustOp: adjustOp,
			Adjust:   adjust,
		},
	}, l, nil
}

func firstToken(s string) string {
	f, _ := takeField(s)
	if f == "" {
		return "<empty>"
	}
	return f
}
