package eval

import (
	"github.com/shirou/filemagic/internal/ast"
)

// resolveOffset turns spec into a concrete, possibly out-of-range, buffer
// position. pageOffset shifts the Absolute, FromEnd and Indirect variants
// (it is non-zero only while evaluating a spliced "use" subtree); prevEnd
// is the previous sibling's match end, used unshifted by Relative offsets.
func (c *context) resolveOffset(spec ast.OffsetSpec, pageOffset, prevEnd int64) (int64, error) {
	switch spec.Kind {
	case ast.OffsetAbsolute:
		v := spec.Value
		if v < 0 {
			v = int64(c.buf.Len()) + v
		}
		return pageOffset + v, nil

	case ast.OffsetFromEnd:
		return pageOffset + int64(c.buf.Len()) + spec.Value, nil

	case ast.OffsetRelative:
		return prevEnd + spec.Value, nil

	case ast.OffsetIndirect:
		if spec.Indirect == nil {
			return 0, &ResolveError{Reason: "indirect offset missing descriptor"}
		}
		basePos, err := c.resolveOffset(spec.Indirect.Base, pageOffset, prevEnd)
		if err != nil {
			return 0, err
		}
		if basePos < 0 || basePos >= int64(c.buf.Len()) {
			return 0, &ResolveError{Reason: "indirect pointer base out of bounds"}
		}
		ptr, err := c.buf.ReadUint(int(basePos), spec.Indirect.PtrType.Width, spec.Indirect.PtrType.Endian)
		if err != nil {
			return 0, &ResolveError{Reason: err.Error()}
		}
		adjusted := spec.Indirect.AdjustOp.Apply(int64(ptr), spec.Indirect.Adjust)
		return pageOffset + adjusted, nil

	default:
		return 0, &ResolveError{Reason: "unknown offset kind"}
	}
}
