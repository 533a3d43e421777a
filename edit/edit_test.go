package edit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/odvcencio/tsglr"
	"github.com/odvcencio/tsglr/grammars"
)

func TestApplyShiftsAndDirtiesNodes(t *testing.T) {
	lang := grammars.Demo()
	src := []byte("1 + 2")
	p := tsglr.NewParser(lang)
	ts := grammars.NewDemoTokenSource(src, lang)
	tree := p.ParseWithTokenSource(src, nil, ts)
	defer tree.Release()

	root := tree.RootNode()
	if root == nil {
		t.Fatal("expected a root node")
	}
	rhs := root.Child(root.ChildCount() - 1)
	before := rhs.StartByte()

	e := Edit{StartByte: 0, OldEndByte: 1, NewEndByte: 3}
	Apply(tree, e)

	if got := rhs.StartByte(); got != before+2 {
		t.Fatalf("rhs start byte after edit = %d, want %d", got, before+2)
	}

	lhs := root.Child(0)
	if !lhs.IsDirty() {
		t.Fatal("expected the edited leaf to be marked dirty")
	}

	edits := tree.Edits()
	if diff := cmp.Diff([]Edit{e}, edits); diff != "" {
		t.Fatalf("tree.Edits() mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyOnEmptyInputTreeRecordsEdit(t *testing.T) {
	lang := grammars.Demo()
	p := tsglr.NewParser(lang)
	src := []byte("")
	tree := p.ParseWithTokenSource(src, nil, grammars.NewDemoTokenSource(src, lang))
	defer tree.Release()

	e := Edit{StartByte: 0, OldEndByte: 0, NewEndByte: 1}
	Apply(tree, e)

	if len(tree.Edits()) != 1 {
		t.Fatalf("tree.Edits() = %v, want 1 recorded edit", tree.Edits())
	}
}
