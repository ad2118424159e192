package eval

import (
	"log/slog"
	"strings"
	"time"

	"github.com/shirou/filemagic/internal/ast"
	"github.com/shirou/filemagic/internal/buffer"
)

// context holds every piece of mutable state threaded through one
// Evaluate call. It is never shared across goroutines.
type context struct {
	db     *ast.Database
	buf    *buffer.Buffer
	cfg    Config
	logger *slog.Logger

	diags    []Diagnostic
	depth    int
	deadline time.Time
}

func (c *context) overDeadline() bool {
	return !c.deadline.IsZero() && time.Now().After(c.deadline)
}

func (c *context) addDiag(rule *ast.Rule, msg string) {
	c.diags = append(c.diags, Diagnostic{Rule: rule, Message: msg})
	c.logger.Debug("rule diagnostic", "file", rule.File, "line", rule.Line, "message", msg)
}

// addLimitDiag records a diagnostic built from a LimitExceeded error, the
// way a configured safety bound (recursion depth, evaluation timeout) is
// reported per spec.md §6.4's error taxonomy.
func (c *context) addLimitDiag(rule *ast.Rule, reason string) {
	c.addDiag(rule, (&LimitExceeded{Reason: reason}).Error())
}

// appendFragment writes frag preceded by a separating space unless noSpace
// is set. The space is written even into an empty builder, so a child
// group's message carries its own leading separator (or none, for a "\b"
// message) and the parent appends it verbatim; Evaluate strips the leading
// space from each top-level description.
func appendFragment(sb *strings.Builder, frag string, noSpace bool) {
	if frag == "" {
		return
	}
	if !noSpace {
		sb.WriteByte(' ')
	}
	sb.WriteString(frag)
}

// evalSiblings evaluates one ordered group of rules that share a parent
// (or the top-level rule list), implementing spec.md §4.4's hierarchical
// walk: Default fires iff no earlier sibling matched, clear resets that
// state, use splices a named rule's subtree in, and every other rule
// resolves its offset, decodes, compares, and — on success — recurses into
// its own children before the loop continues to the next sibling.
func (c *context) evalSiblings(siblings []*ast.Rule, pageOffset, prevEnd int64, stopAtFirst bool) (bool, string, int64) {
	matchedAny := false
	curPrevEnd := prevEnd
	var sb strings.Builder

	for _, rule := range siblings {
		if c.overDeadline() {
			c.addLimitDiag(rule, "evaluation timeout")
			break
		}

		switch rule.Type.Category {
		case ast.CategoryClear:
			matchedAny = false
			continue

		case ast.CategoryDefault:
			if matchedAny {
				continue
			}
			matchedAny = true
			appendFragment(&sb, renderMessage(rule, nil), rule.NoSpace)
			if len(rule.Children) > 0 {
				_, childMsg, childEnd := c.evalSiblings(rule.Children, pageOffset, curPrevEnd, false)
				sb.WriteString(childMsg)
				curPrevEnd = childEnd
			}
			if stopAtFirst {
				return true, sb.String(), curPrevEnd
			}

		case ast.CategoryUse:
			target, ok := c.db.Named(rule.Type.UseName)
			if !ok {
				c.addDiag(rule, "use: unknown name \""+rule.Type.UseName+"\"")
				continue
			}
			if c.depth >= c.cfg.MaxRecursionDepth {
				c.addLimitDiag(rule, "use: max recursion depth exceeded")
				continue
			}
			pos, err := c.resolveOffset(rule.Offset, pageOffset, curPrevEnd)
			if err != nil {
				c.addDiag(rule, err.Error())
				continue
			}
			c.depth++
			ok2, childMsg, childEnd := c.evalSiblings(target.Children, pos, pos, false)
			c.depth--
			if !ok2 {
				continue
			}
			matchedAny = true
			appendFragment(&sb, renderMessage(rule, nil), rule.NoSpace)
			sb.WriteString(childMsg)
			curPrevEnd = childEnd
			if stopAtFirst {
				return true, sb.String(), curPrevEnd
			}

		default:
			pos, err := c.resolveOffset(rule.Offset, pageOffset, curPrevEnd)
			if err != nil {
				c.addDiag(rule, err.Error())
				continue
			}
			ok, consumed, decoded, err := c.testRule(rule, pos)
			if err != nil {
				c.addDiag(rule, err.Error())
				continue
			}
			if !ok {
				continue
			}
			matchedAny = true
			appendFragment(&sb, renderMessage(rule, decoded), rule.NoSpace)
			matchEnd := pos + consumed
			curPrevEnd = matchEnd
			if len(rule.Children) > 0 {
				_, childMsg, childEnd := c.evalSiblings(rule.Children, pageOffset, matchEnd, false)
				sb.WriteString(childMsg)
				curPrevEnd = childEnd
			}
			if stopAtFirst {
				return true, sb.String(), curPrevEnd
			}
		}
	}

	return matchedAny, sb.String(), curPrevEnd
}
