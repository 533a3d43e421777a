package grammars

import (
	"testing"

	"github.com/odvcencio/tsglr"
)

func parseDemo(t *testing.T, src string) *tsglr.Tree {
	t.Helper()
	lang := Demo()
	p := tsglr.NewParser(lang)
	ts := NewDemoTokenSource([]byte(src), lang)
	tree := p.ParseWithTokenSource([]byte(src), nil, ts)
	if tree.RootNode() == nil {
		t.Fatalf("parse of %q produced no root", src)
	}
	return tree
}

func TestParseSingleNumber(t *testing.T) {
	tree := parseDemo(t, "42")
	defer tree.Release()
	root := tree.RootNode()
	if root.HasError() {
		t.Fatalf("unexpected error cost %d parsing %q", root.ErrorCost(), "42")
	}
}

func TestParseBinaryAddition(t *testing.T) {
	tree := parseDemo(t, "1 + 2")
	defer tree.Release()
	root := tree.RootNode()
	if root.HasError() {
		t.Fatalf("unexpected error cost %d parsing %q", root.ErrorCost(), "1 + 2")
	}
	if root.Symbol() != SymExpr {
		t.Fatalf("root symbol = %d, want SymExpr", root.Symbol())
	}
	if root.ChildCount() != 3 {
		t.Fatalf("root child count = %d, want 3", root.ChildCount())
	}
}

func TestParseParenthesizedExpression(t *testing.T) {
	tree := parseDemo(t, "(1 + 2) * 3")
	defer tree.Release()
	root := tree.RootNode()
	if root.HasError() {
		t.Fatalf("unexpected error cost %d parsing %q", root.ErrorCost(), "(1 + 2) * 3")
	}
}

func TestParseLeadingUnaryMinus(t *testing.T) {
	tree := parseDemo(t, "-x")
	defer tree.Release()
	root := tree.RootNode()
	if root.HasError() {
		t.Fatalf("unexpected error cost %d parsing %q", root.ErrorCost(), "-x")
	}
	if root.ChildCount() != 2 {
		t.Fatalf("root child count = %d, want 2 (unary minus)", root.ChildCount())
	}
}

func TestParseInfixMinusPrefersBinary(t *testing.T) {
	tree := parseDemo(t, "a - b")
	defer tree.Release()
	root := tree.RootNode()
	if root.HasError() {
		t.Fatalf("unexpected error cost %d parsing %q", root.ErrorCost(), "a - b")
	}
	if root.ChildCount() != 3 {
		t.Fatalf("root child count = %d, want 3 (binary minus over a and b)", root.ChildCount())
	}
}

func TestParseStringLiteralWithEscape(t *testing.T) {
	tree := parseDemo(t, `"a\"b"`)
	defer tree.Release()
	root := tree.RootNode()
	if root.HasError() {
		t.Fatalf("unexpected error cost %d parsing string literal", root.ErrorCost())
	}
}

func TestParseLineCommentIsExtra(t *testing.T) {
	tree := parseDemo(t, "1 + 2 // trailing comment\n")
	defer tree.Release()
	root := tree.RootNode()
	if root.HasError() {
		t.Fatalf("unexpected error cost %d parsing with comment", root.ErrorCost())
	}
}

func TestParseUnexpectedTokenRecovers(t *testing.T) {
	tree := parseDemo(t, "1 + @ + 2")
	defer tree.Release()
	root := tree.RootNode()
	if !root.HasError() {
		t.Fatal("expected recovery to leave a nonzero error cost")
	}
	if root.EndByte() != 9 {
		t.Fatalf("tree did not cover full input: end byte = %d, want 9", root.EndByte())
	}
}

func TestParseEmptyInputHalts(t *testing.T) {
	lang := Demo()
	p := tsglr.NewParser(lang)
	ts := NewDemoTokenSource([]byte(""), lang)
	tree := p.ParseWithTokenSource([]byte(""), nil, ts)
	defer tree.Release()
	if tree.RootNode() == nil {
		t.Fatal("expected a synthetic root for empty input")
	}
}

func TestHaltOnErrorStopsAtFirstFailure(t *testing.T) {
	lang := Demo()
	p := tsglr.NewParser(lang)
	tree := p.Parse([]byte("1 + )"), nil, true)
	defer tree.Release()
	root := tree.RootNode()
	if root == nil || !root.HasError() {
		t.Fatal("expected a halted, error-covered tree")
	}
}
