package tsglr

import (
	"testing"

	"github.com/odvcencio/tsglr/grammars"
)

// TestPoolDrainsAfterRelease exercises spec §8's refcount-soundness
// invariant: once every Tree produced by a parse is released, the
// arena backing it holds no live nodes.
func TestPoolDrainsAfterRelease(t *testing.T) {
	lang := grammars.Demo()
	src := []byte("(1 + 2) * -x")
	p := NewParser(lang)
	tree := p.ParseWithTokenSource(src, nil, grammars.NewDemoTokenSource(src, lang))

	if tree.RootNode() == nil {
		t.Fatal("expected a root node")
	}
	if live := p.pool.liveCount(); live == 0 {
		t.Fatal("expected live nodes before release")
	}

	tree.Release()

	if live := p.pool.liveCount(); live != 0 {
		t.Fatalf("pool.liveCount() = %d after release, want 0", live)
	}
}

// TestPoolDrainsAfterRecovery checks the same invariant holds when a
// parse goes through error recovery, which allocates and discards
// extra error-wrapper nodes along the way.
func TestPoolDrainsAfterRecovery(t *testing.T) {
	lang := grammars.Demo()
	src := []byte("1 + @ + 2")
	p := NewParser(lang)
	tree := p.ParseWithTokenSource(src, nil, grammars.NewDemoTokenSource(src, lang))

	if tree.RootNode() == nil || !tree.RootNode().HasError() {
		t.Fatal("expected a recovered, error-covered tree")
	}

	tree.Release()

	if live := p.pool.liveCount(); live != 0 {
		t.Fatalf("pool.liveCount() = %d after release, want 0", live)
	}
}
