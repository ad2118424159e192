package eval

import (
	"github.com/shirou/filemagic/internal/ast"
)

// testRule decodes and compares the field at pos per rule's type and
// operator. decoded is whatever the message renderer needs to substitute
// %-placeholders (an int64, float64, or string).
func (c *context) testRule(rule *ast.Rule, pos int64) (matched bool, consumed int64, decoded interface{}, err error) {
	if pos < 0 || pos >= int64(c.buf.Len()) {
		return false, 0, nil, &ResolveError{Reason: "offset out of bounds"}
	}

	switch rule.Type.Category {
	case ast.CategoryInteger:
		n, rerr := c.buf.ReadInt(int(pos), rule.Type)
		if rerr != nil {
			return false, 0, nil, rerr
		}
		return compareInt(rule.Operator, rule.Type, n, rule.Value), int64(rule.Type.Width), n, nil

	case ast.CategoryFloat:
		f, rerr := c.buf.ReadFloat(int(pos), rule.Type)
		if rerr != nil {
			return false, 0, nil, rerr
		}
		return compareFloat(rule.Operator, f, rule.Value), int64(rule.Type.Width), f, nil

	case ast.CategoryString, ast.CategoryPascalString:
		ok, n, text, rerr := matchStringRule(c.buf, pos, rule.Type, rule.Operator, rule.Value)
		if rerr != nil {
			return false, 0, nil, rerr
		}
		return ok, n, text, nil

	case ast.CategoryRegex:
		ok, n, text, rerr := matchRegexRule(c.buf, pos, rule.Type, rule.Operator)
		if rerr != nil {
			return false, 0, nil, rerr
		}
		return ok, n, text, nil

	case ast.CategorySearch:
		ok, n, text, rerr := matchSearchRule(c.buf, pos, rule.Type, rule.Operator, rule.Value)
		if rerr != nil {
			return false, 0, nil, rerr
		}
		return ok, n, text, nil

	default:
		return false, 0, nil, &DecodeError{Reason: "rule has no decodable type"}
	}
}
