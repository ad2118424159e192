package eval_test

import (
	"testing"

	"github.com/shirou/filemagic/internal/buffer"
	"github.com/shirou/filemagic/internal/eval"
	"github.com/shirou/filemagic/internal/parser"
)

func evaluate(t *testing.T, src string, data []byte) eval.Result {
	t.Helper()
	db, diags := parser.LoadRules(src)
	if len(diags) != 0 {
		t.Fatalf("LoadRules() diagnostics: %v", diags)
	}
	return eval.Evaluate(db, buffer.FromSlice(data), eval.DefaultConfig(), nil)
}

func TestEvaluateSimpleStringMatch(t *testing.T) {
	res := evaluate(t, "0\tstring\t%PDF-\tPDF document\n", []byte("%PDF-1.4"))
	if len(res.Matches) != 1 {
		t.Fatalf("Matches has %d entries, want 1", len(res.Matches))
	}
	if res.Matches[0].Description != "PDF document" {
		t.Errorf("Description = %q, want %q", res.Matches[0].Description, "PDF document")
	}
}

func TestEvaluateNoMatchReturnsNoResults(t *testing.T) {
	res := evaluate(t, "0\tstring\t%PDF-\tPDF document\n", []byte("not a pdf"))
	if len(res.Matches) != 0 {
		t.Fatalf("Matches has %d entries, want 0", len(res.Matches))
	}
	if res.Description() != "data" {
		t.Errorf("Description() = %q, want %q", res.Description(), "data")
	}
}

func TestEvaluateHierarchicalMessageConcatenation(t *testing.T) {
	src := `
0	string	\x7fELF	ELF
>4	byte	2	\b 64-bit
>4	byte	1	\b 32-bit
`
	res := evaluate(t, src, append([]byte("\x7fELF"), 2))
	if len(res.Matches) != 1 {
		t.Fatalf("Matches has %d entries, want 1", len(res.Matches))
	}
	if want := "ELF 64-bit"; res.Matches[0].Description != want {
		t.Errorf("Description = %q, want %q", res.Matches[0].Description, want)
	}
}

func TestEvaluateDefaultFiresOnlyWhenNoEarlierMatch(t *testing.T) {
	src := `
0	string	AAA	first
0	default	x	fallback
`
	matched := evaluate(t, src, []byte("AAA"))
	if matched.Matches[0].Description != "first" {
		t.Errorf("Description = %q, want %q", matched.Matches[0].Description, "first")
	}

	unmatched := evaluate(t, src, []byte("zzz"))
	if len(unmatched.Matches) != 1 || unmatched.Matches[0].Description != "fallback" {
		t.Errorf("expected the default rule to fire, got %+v", unmatched.Matches)
	}
}

func TestEvaluateIndirectOffset(t *testing.T) {
	// At offset 0, a little-endian long points to offset 8, where the
	// literal "HIT" lives.
	src := "0\tlelong\tx\tpointer\n>(0.l)\tstring\tHIT\tfound at indirect offset\n"
	data := make([]byte, 11)
	data[0] = 8
	copy(data[8:], "HIT")
	res := evaluate(t, src, data)
	if len(res.Matches) != 1 {
		t.Fatalf("Matches has %d entries, want 1", len(res.Matches))
	}
	if want := "pointer found at indirect offset"; res.Matches[0].Description != want {
		t.Errorf("Description = %q, want %q", res.Matches[0].Description, want)
	}
}

func TestEvaluateBitmaskOperator(t *testing.T) {
	src := "0\tbyte\t&0x0f\tlow nibble set\n"
	matched := evaluate(t, src, []byte{0x0F})
	if len(matched.Matches) != 1 {
		t.Fatalf("expected a match when every masked bit is set")
	}

	unmatched := evaluate(t, src, []byte{0x00})
	if len(unmatched.Matches) != 0 {
		t.Fatalf("expected no match when the masked bits are zero, got %+v", unmatched.Matches)
	}
}

func TestEvaluateBitmaskWithExplicitRelation(t *testing.T) {
	src := "0\tbyte\t&0x0f=0x0a\tnibble is 0x0a\n"
	matched := evaluate(t, src, []byte{0xFA})
	if len(matched.Matches) != 1 {
		t.Fatalf("expected a match: masked nibble 0x0a should equal 0x0a")
	}

	unmatched := evaluate(t, src, []byte{0xF5})
	if len(unmatched.Matches) != 0 {
		t.Fatalf("expected no match: masked nibble 0x05 should not equal 0x0a")
	}
}

func TestEvaluateOutOfBoundsProducesDiagnosticNotCrash(t *testing.T) {
	res := evaluate(t, "100\tbyte\tx\tunreachable\n", []byte("short"))
	if len(res.Matches) != 0 {
		t.Fatalf("expected no matches for an out-of-bounds offset")
	}
	if len(res.Diagnostics) == 0 {
		t.Error("expected a diagnostic for the out-of-bounds read")
	}
}

func TestEvaluateKeepGoingRunsAllTopLevelRules(t *testing.T) {
	src := "0\tstring\tAAA\tfirst\n0\tbyte\tx\tsecond\n"
	cfg := eval.DefaultConfig()
	cfg.KeepGoing = true

	db, diags := parser.LoadRules(src)
	if len(diags) != 0 {
		t.Fatalf("LoadRules() diagnostics: %v", diags)
	}
	res := eval.Evaluate(db, buffer.FromSlice([]byte("AAA")), cfg, nil)
	if len(res.Matches) != 2 {
		t.Fatalf("Matches has %d entries, want 2 with KeepGoing set", len(res.Matches))
	}
}

func TestEvaluateUseRuleSplicesNamedSubtree(t *testing.T) {
	src := `
0	name	header	unused
>0	string	OK	validated

0	use	header	prefix
`
	res := evaluate(t, src, []byte("OK"))
	if len(res.Matches) != 1 {
		t.Fatalf("Matches has %d entries, want 1", len(res.Matches))
	}
	if want := "prefix validated"; res.Matches[0].Description != want {
		t.Errorf("Description = %q, want %q", res.Matches[0].Description, want)
	}
}
