package eval

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shirou/filemagic/internal/ast"
)

var placeholderPattern = regexp.MustCompile(`%[-+ 0#]*[0-9]*(?:\.[0-9]+)?[a-zA-Z]`)

// renderMessage substitutes every %-placeholder in rule.Message with
// decoded, formatted per the placeholder's conversion verb. Unsupported
// verbs fall back to a plain decimal/string rendering rather than erroring:
// a cosmetic mismatch in a description is not a rule failure.
func renderMessage(rule *ast.Rule, decoded interface{}) string {
	decoded = applyDateRendering(rule.Type, decoded)

	if !placeholderPattern.MatchString(rule.Message) {
		return rule.Message
	}

	return placeholderPattern.ReplaceAllStringFunc(rule.Message, func(spec string) string {
		verb := spec[len(spec)-1]
		switch v := decoded.(type) {
		case int64:
			switch verb {
			case 'u':
				return fmt.Sprintf(spec[:len(spec)-1]+"d", uint64(v))
			case 'c':
				if v >= 0 && v < 0x110000 {
					return string(rune(v))
				}
				return ""
			case 'x', 'X', 'o', 'd':
				return fmt.Sprintf(spec, v)
			default:
				return fmt.Sprintf("%d", v)
			}
		case float64:
			switch verb {
			case 'f', 'g', 'e', 'E', 'G':
				return fmt.Sprintf(spec, v)
			default:
				return fmt.Sprintf("%g", v)
			}
		case string:
			return v
		default:
			return spec
		}
	})
}

func applyDateRendering(t ast.TypeKind, decoded interface{}) interface{} {
	if t.Date == ast.DateNone {
		return decoded
	}
	n, ok := decoded.(int64)
	if !ok {
		return decoded
	}
	switch t.Date {
	case ast.DateUnixUTC:
		return time.Unix(n, 0).UTC().Format("Mon Jan  2 15:04:05 2006")
	case ast.DateUnixLocal:
		return time.Unix(n, 0).Local().Format("Mon Jan  2 15:04:05 2006")
	case ast.DateDOSDate:
		return formatDOSDate(uint16(n))
	case ast.DateDOSTime:
		return formatDOSTime(uint16(n))
	default:
		return decoded
	}
}

// formatDOSDate decodes a packed FAT date field: bits 15-9 year-1980,
// 8-5 month, 4-0 day.
func formatDOSDate(v uint16) string {
	year := 1980 + int(v>>9)
	month := int((v >> 5) & 0xF)
	day := int(v & 0x1F)
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// formatDOSTime decodes a packed FAT time field: bits 15-11 hour, 10-5
// minute, 4-0 seconds/2.
func formatDOSTime(v uint16) string {
	hour := int(v >> 11)
	minute := int((v >> 5) & 0x3F)
	second := int(v&0x1F) * 2
	return fmt.Sprintf("%02d:%02d:%02d", hour, minute, second)
}
