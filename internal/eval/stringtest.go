package eval

import (
	"bytes"
	"strings"

	"github.com/shirou/filemagic/internal/ast"
	"github.com/shirou/filemagic/internal/buffer"
)

const defaultSearchWindow = 8192

func normalizeForCompare(s string, t ast.TypeKind) string {
	if t.Trim {
		s = strings.TrimSpace(s)
	}
	if t.CaseFold {
		s = strings.ToLower(s)
	}
	if t.CompactWhitespace {
		s = collapseWhitespace(s, false)
	} else if t.OptionalWhitespace {
		s = collapseWhitespace(s, true)
	}
	return s
}

// collapseWhitespace folds runs of whitespace to a single space (drop
// removes them entirely instead), matching the W/w string modifiers.
func collapseWhitespace(s string, drop bool) string {
	var b strings.Builder
	inRun := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			inRun = true
			continue
		}
		if inRun {
			if !drop {
				b.WriteByte(' ')
			}
			inRun = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// matchStringRule implements the String/PascalString type family: read the
// bytes at pos, normalize per the type's flags, and compare against the
// rule's literal value.
func matchStringRule(buf *buffer.Buffer, pos int64, t ast.TypeKind, op ast.Operator, val ast.Value) (bool, int64, string, error) {
	if t.Category == ast.CategoryPascalString {
		return matchPascalString(buf, pos, t, op, val)
	}

	want := val.Text
	readLen := len(want)
	if t.MaxLen > readLen {
		readLen = t.MaxLen
	}
	if readLen == 0 {
		readLen = 1
	}

	raw, err := buf.Bytes(int(pos), readLen)
	if err != nil {
		// A short read at EOF is still a valid (non-)match: trim to what
		// is actually available.
		raw, err = shortBytes(buf, pos)
		if err != nil {
			return false, 0, "", err
		}
	}

	actual := normalizeForCompare(string(raw), t)
	expected := normalizeForCompare(want, t)
	matched := len(actual) >= len(expected) && actual[:len(expected)] == expected

	switch op.Kind {
	case ast.OpAlways:
		matched = true
	case ast.OpNotEqual:
		matched = !matched
	}

	if t.FullWord && matched {
		matched = wordBoundaryOK(buf, pos, int64(len(expected)))
	}

	return matched, int64(len(expected)), string(raw), nil
}

func shortBytes(buf *buffer.Buffer, pos int64) ([]byte, error) {
	remaining := buf.Len() - int(pos)
	if remaining <= 0 {
		return nil, &ResolveError{Reason: "position at or past end of buffer"}
	}
	return buf.Bytes(int(pos), remaining)
}

func wordBoundaryOK(buf *buffer.Buffer, pos, length int64) bool {
	before, err := buf.Bytes(int(pos)-1, 1)
	if err == nil && isWordChar(before[0]) {
		return false
	}
	after, err := buf.Bytes(int(pos+length), 1)
	if err == nil && isWordChar(after[0]) {
		return false
	}
	return true
}

func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}

func matchPascalString(buf *buffer.Buffer, pos int64, t ast.TypeKind, op ast.Operator, val ast.Value) (bool, int64, string, error) {
	prefixLen, err := buf.ReadUint(int(pos), t.LengthPrefixWidth, t.LengthPrefixEndian)
	if err != nil {
		return false, 0, "", err
	}
	strOff := pos + int64(t.LengthPrefixWidth)
	n := int64(prefixLen)
	if t.LengthIncludesPrefix {
		n -= int64(t.LengthPrefixWidth)
	}
	if n < 0 {
		n = 0
	}
	raw, err := buf.Bytes(int(strOff), int(n))
	if err != nil {
		raw, err = shortBytes(buf, strOff)
		if err != nil {
			return false, 0, "", err
		}
	}

	actual := normalizeForCompare(string(raw), t)
	expected := normalizeForCompare(val.Text, t)
	matched := actual == expected
	if op.Kind == ast.OpNotEqual {
		matched = !matched
	} else if op.Kind == ast.OpAlways {
		matched = true
	}
	return matched, int64(t.LengthPrefixWidth) + n, string(raw), nil
}

// matchRegexRule scans a bounded window starting at pos for t.Regexp.
func matchRegexRule(buf *buffer.Buffer, pos int64, t ast.TypeKind, op ast.Operator) (bool, int64, string, error) {
	window := t.MaxSearchBytes
	if window <= 0 {
		window = defaultSearchWindow
	}
	data, err := readWindow(buf, pos, window)
	if err != nil {
		return false, 0, "", err
	}
	if t.Regexp == nil {
		return false, 0, "", &DecodeError{Reason: "regex type with no compiled pattern"}
	}
	loc := t.Regexp.FindIndex(data)
	matched := loc != nil
	if op.Kind == ast.OpNotEqual {
		matched = !matched
	}
	if loc == nil {
		return matched, 0, "", nil
	}
	return matched, int64(loc[1]), string(data[loc[0]:loc[1]]), nil
}

// matchSearchRule scans for a literal substring anywhere in a bounded
// window starting at pos.
func matchSearchRule(buf *buffer.Buffer, pos int64, t ast.TypeKind, op ast.Operator, val ast.Value) (bool, int64, string, error) {
	window := t.MaxSearchBytes
	if window <= 0 {
		window = defaultSearchWindow
	}
	data, err := readWindow(buf, pos, window)
	if err != nil {
		return false, 0, "", err
	}
	needle := []byte(val.Text)
	hay := data
	if t.CaseFold {
		hay = []byte(strings.ToLower(string(data)))
		needle = []byte(strings.ToLower(val.Text))
	}
	idx := bytes.Index(hay, needle)
	matched := idx >= 0
	if op.Kind == ast.OpNotEqual {
		matched = !matched
	}
	if idx < 0 {
		return matched, 0, "", nil
	}
	return matched, int64(idx + len(needle)), string(data[idx : idx+len(needle)]), nil
}

func readWindow(buf *buffer.Buffer, pos int64, window int) ([]byte, error) {
	remaining := buf.Len() - int(pos)
	if remaining <= 0 {
		return nil, &ResolveError{Reason: "position at or past end of buffer"}
	}
	if window > remaining {
		window = remaining
	}
	return buf.Bytes(int(pos), window)
}
