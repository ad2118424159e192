package eval

import (
	"regexp"
	"testing"

	"github.com/shirou/filemagic/internal/ast"
	"github.com/shirou/filemagic/internal/buffer"
)

func TestMatchStringRulePrefix(t *testing.T) {
	buf := buffer.FromSlice([]byte("%PDF-1.4"))
	t1 := ast.TypeKind{Category: ast.CategoryString}
	op := ast.Operator{Kind: ast.OpEqual}
	val := ast.Value{Kind: ast.ValueText, Text: "%PDF-"}

	ok, n, _, err := matchStringRule(buf, 0, t1, op, val)
	if err != nil {
		t.Fatalf("matchStringRule error: %v", err)
	}
	if !ok {
		t.Error("expected a prefix match")
	}
	if n != int64(len("%PDF-")) {
		t.Errorf("consumed = %d, want %d", n, len("%PDF-"))
	}
}

func TestMatchStringRuleCaseFold(t *testing.T) {
	buf := buffer.FromSlice([]byte("HELLO world"))
	tk := ast.TypeKind{Category: ast.CategoryString, CaseFold: true}
	op := ast.Operator{Kind: ast.OpEqual}
	val := ast.Value{Kind: ast.ValueText, Text: "hello"}

	ok, _, _, err := matchStringRule(buf, 0, tk, op, val)
	if err != nil {
		t.Fatalf("matchStringRule error: %v", err)
	}
	if !ok {
		t.Error("expected a case-insensitive match")
	}
}

func TestMatchStringRuleFullWordBoundary(t *testing.T) {
	tk := ast.TypeKind{Category: ast.CategoryString, FullWord: true}
	op := ast.Operator{Kind: ast.OpEqual}
	val := ast.Value{Kind: ast.ValueText, Text: "cat"}

	bufOK := buffer.FromSlice([]byte("a cat sat"))
	ok, _, _, err := matchStringRule(bufOK, 2, tk, op, val)
	if err != nil {
		t.Fatalf("matchStringRule error: %v", err)
	}
	if !ok {
		t.Error("expected a match: \"cat\" is surrounded by word boundaries")
	}

	bufBad := buffer.FromSlice([]byte("a category"))
	ok2, _, _, err := matchStringRule(bufBad, 2, tk, op, val)
	if err != nil {
		t.Fatalf("matchStringRule error: %v", err)
	}
	if ok2 {
		t.Error("expected no match: \"cat\" in \"category\" is not a full word")
	}
}

func TestMatchPascalString(t *testing.T) {
	// length-prefixed (1 byte, big-endian by convention) string "hi".
	buf := buffer.FromSlice([]byte{2, 'h', 'i'})
	tk := ast.TypeKind{Category: ast.CategoryPascalString, LengthPrefixWidth: 1, LengthPrefixEndian: ast.BigEndian}
	op := ast.Operator{Kind: ast.OpEqual}
	val := ast.Value{Kind: ast.ValueText, Text: "hi"}

	ok, n, text, err := matchPascalString(buf, 0, tk, op, val)
	if err != nil {
		t.Fatalf("matchPascalString error: %v", err)
	}
	if !ok {
		t.Error("expected a match")
	}
	if n != 3 {
		t.Errorf("consumed = %d, want 3", n)
	}
	if text != "hi" {
		t.Errorf("text = %q, want %q", text, "hi")
	}
}

func TestMatchSearchRule(t *testing.T) {
	buf := buffer.FromSlice([]byte("prefix junk NEEDLE more junk"))
	tk := ast.TypeKind{Category: ast.CategorySearch, MaxSearchBytes: 100}
	op := ast.Operator{Kind: ast.OpEqual}
	val := ast.Value{Kind: ast.ValueText, Text: "NEEDLE"}

	ok, _, _, err := matchSearchRule(buf, 0, tk, op, val)
	if err != nil {
		t.Fatalf("matchSearchRule error: %v", err)
	}
	if !ok {
		t.Error("expected to find the needle within the search window")
	}
}

func TestMatchRegexRule(t *testing.T) {
	buf := buffer.FromSlice([]byte("version: 12.4.1 stable"))
	tk := ast.TypeKind{
		Category:       ast.CategoryRegex,
		MaxSearchBytes: 100,
		Regexp:         regexp.MustCompile(`[0-9]+\.[0-9]+\.[0-9]+`),
	}
	op := ast.Operator{Kind: ast.OpEqual}

	ok, _, text, err := matchRegexRule(buf, 0, tk, op)
	if err != nil {
		t.Fatalf("matchRegexRule error: %v", err)
	}
	if !ok {
		t.Error("expected the version pattern to match")
	}
	if text != "12.4.1" {
		t.Errorf("text = %q, want %q", text, "12.4.1")
	}
}
