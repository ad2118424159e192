package eval

import (
	"math"

	"github.com/shirou/filemagic/internal/ast"
)

// floatEpsilon bounds equality comparisons between decoded IEEE-754 floats
// and a literal value, the way the teacher's detector/helper.go tolerates
// binary rounding noise.
const floatEpsilon = 1e-9

func compareRelation(rel byte, a, b uint64) bool {
	switch rel {
	case '=':
		return a == b
	case '!':
		return a != b
	case '<':
		return a < b
	case '>':
		return a > b
	default:
		return a == b
	}
}

// compareInt evaluates a numeric rule's operator against a decoded integer,
// per spec.md §4.4.2. Bit* operators compare a masked reading against an
// explicit comparand when one followed the mask in the source
// (`belong&0x0f =0x0a`), or against the operator's own default target when
// none did (`byte &0x0f`).
func compareInt(op ast.Operator, t ast.TypeKind, decoded int64, val ast.Value) bool {
	u := uint64(decoded)
	switch op.Kind {
	case ast.OpAlways:
		return true
	case ast.OpEqual:
		if t.Signed {
			return decoded == val.Signed
		}
		return u == val.Unsigned
	case ast.OpNotEqual:
		if t.Signed {
			return decoded != val.Signed
		}
		return u != val.Unsigned
	case ast.OpGreater:
		if t.Signed {
			return decoded > val.Signed
		}
		return u > val.Unsigned
	case ast.OpLess:
		if t.Signed {
			return decoded < val.Signed
		}
		return u < val.Unsigned
	case ast.OpBitAnd:
		return bitCompare(u&op.Mask, op, val, op.Mask)
	case ast.OpBitOr:
		return bitCompare(u|op.Mask, op, val, op.Mask)
	case ast.OpBitXor:
		return bitCompare(u^op.Mask, op, val, 0)
	case ast.OpBitClear:
		return bitCompare(u&op.Mask, op, val, 0)
	default:
		return false
	}
}

func bitCompare(masked uint64, op ast.Operator, val ast.Value, defaultTarget uint64) bool {
	target := defaultTarget
	rel := byte('=')
	if op.HasRelation {
		rel = op.Relation
		if val.Kind != ast.ValueDontCare {
			if val.Kind == ast.ValueSigned {
				target = uint64(val.Signed)
			} else {
				target = val.Unsigned
			}
		}
	}
	return compareRelation(rel, masked, target)
}

func compareFloat(op ast.Operator, decoded float64, val ast.Value) bool {
	switch op.Kind {
	case ast.OpAlways:
		return true
	case ast.OpEqual:
		return math.Abs(decoded-val.Float) < floatEpsilon
	case ast.OpNotEqual:
		return math.Abs(decoded-val.Float) >= floatEpsilon
	case ast.OpGreater:
		return decoded > val.Float
	case ast.OpLess:
		return decoded < val.Float
	default:
		return false
	}
}
