package grammars

import (
	"strings"
	"testing"

	"github.com/odvcencio/tsglr"
	"github.com/odvcencio/tsglr/edit"
)

// TestIncrementalReparseReusesUntouchedOperand exercises spec §8's
// "idempotence of re-parse" / "round-trip with edits" properties end to
// end: parse once, edit a single operand in place, re-parse with the
// previous tree and a fresh token source over the new source, and
// check both that the result is correct and that the reuse cursor
// (component C) actually accepted a candidate rather than relexing
// everything.
func TestIncrementalReparseReusesUntouchedOperand(t *testing.T) {
	lang := Demo()
	src1 := []byte("1 + 22")
	p := tsglr.NewParser(lang)
	tree1 := p.ParseWithTokenSource(src1, nil, NewDemoTokenSource(src1, lang))
	if tree1.RootNode() == nil || tree1.RootNode().HasError() {
		t.Fatalf("initial parse of %q failed", src1)
	}

	// "22" -> "333" grows the right operand by one byte; the left
	// operand ("1") and the "+" sit entirely before the edit and never
	// change shape, so they are exactly the kind of untouched prefix
	// the reuse cursor should hand straight back.
	e := edit.Edit{StartByte: 4, OldEndByte: 6, NewEndByte: 7}
	edit.Apply(tree1, e)

	src2 := []byte("1 + 333")
	reuseHits := 0
	p.SetLogger(func(logType tsglr.LogType, message string) {
		if logType == tsglr.LogTypeParse && strings.HasPrefix(message, "reuse symbol") {
			reuseHits++
		}
	})
	tree2 := p.ParseWithTokenSource(src2, tree1, NewDemoTokenSource(src2, lang))
	defer tree2.Release()

	root := tree2.RootNode()
	if root == nil || root.HasError() {
		t.Fatalf("re-parse of %q produced an error tree", src2)
	}
	if root.EndByte() != uint32(len(src2)) {
		t.Fatalf("re-parsed tree covers [0,%d), want [0,%d)", root.EndByte(), len(src2))
	}
	if reuseHits == 0 {
		t.Fatal("expected the reuse cursor to accept at least one candidate from the previous tree")
	}

	tree1.Release()
}

// TestIncrementalReparseIdempotentWithoutEdits checks that handing the
// same tree back as `previous` with no edits recorded reproduces an
// equivalent, error-free parse rather than corrupting state across
// calls (spec §8's idempotence-of-re-parse property, the degenerate
// no-edit case).
func TestIncrementalReparseIdempotentWithoutEdits(t *testing.T) {
	lang := Demo()
	src := []byte("(1 + 2) * x")
	p := tsglr.NewParser(lang)
	tree1 := p.ParseWithTokenSource(src, nil, NewDemoTokenSource(src, lang))
	if tree1.RootNode() == nil || tree1.RootNode().HasError() {
		t.Fatalf("initial parse of %q failed", src)
	}

	tree2 := p.ParseWithTokenSource(src, tree1, NewDemoTokenSource(src, lang))
	defer tree2.Release()
	defer tree1.Release()

	root := tree2.RootNode()
	if root == nil || root.HasError() {
		t.Fatalf("idempotent re-parse of %q produced an error tree", src)
	}
	if root.EndByte() != uint32(len(src)) {
		t.Fatalf("re-parsed tree covers [0,%d), want [0,%d)", root.EndByte(), len(src))
	}
}
