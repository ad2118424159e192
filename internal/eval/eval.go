// Package eval walks a parsed rule Database against a Buffer, implementing
// the resolve/test/walk algorithm of spec.md §4.4.
package eval

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shirou/filemagic/internal/ast"
	"github.com/shirou/filemagic/internal/buffer"
)

// Evaluate walks every top-level rule in db against buf in source order.
// By default it stops at the first top-level rule that matches
// (cfg.KeepGoing runs every one, the way file(1)'s -k does), and a
// top-level "default" rule matches iff no earlier top-level rule did.
func Evaluate(db *ast.Database, buf *buffer.Buffer, cfg Config, logger *slog.Logger) Result {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &context{db: db, buf: buf, cfg: cfg, logger: logger}
	if cfg.Timeout > 0 {
		c.deadline = time.Now().Add(cfg.Timeout)
	}

	var results []MatchResult
	matchedAny := false

	for _, rule := range db.Rules {
		if c.overDeadline() {
			c.addLimitDiag(rule, "evaluation timeout")
			break
		}

		if rule.Type.Category == ast.CategoryClear {
			matchedAny = false
			continue
		}
		if rule.Type.Category == ast.CategoryDefault {
			if matchedAny {
				continue
			}
			matchedAny = true
			results = append(results, MatchResult{
				Description: renderMessage(rule, nil),
				MIMEType:    rule.MIMEType,
				Rule:        rule,
			})
			if !cfg.KeepGoing {
				break
			}
			continue
		}

		ok, msg, _ := c.evalSiblings([]*ast.Rule{rule}, 0, 0, false)
		if !ok {
			continue
		}
		matchedAny = true
		results = append(results, MatchResult{
			Description: strings.TrimPrefix(msg, " "),
			MIMEType:    rule.MIMEType,
			Rule:        rule,
		})
		if !cfg.KeepGoing {
			break
		}
	}

	return Result{Matches: results, Diagnostics: c.diags}
}
