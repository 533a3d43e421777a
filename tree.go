package tsglr

// Edit records one text replacement applied between an old tree and
// the new source it will be reused against (spec §3 edit application).
// The tsglr core never mutates a Node in place for an edit; it only
// consults these ranges while walking the old tree through a
// reuseCursor. Byte-shifting the surviving nodes is the caller's job
// (see the separate edit package), because it is pure bookkeeping that
// does not need access to the core's refcounts.
type Edit struct {
	StartByte  uint32
	OldEndByte uint32
	NewEndByte uint32
	StartPoint Point
	OldEndPoint Point
	NewEndPoint Point
}

// Tree is a finished parse result: the accepted root subtree plus the
// source it was parsed from and the edits (if any) recorded on it since
// that parse. The parser never changes a Tree after returning it; the
// edit package shifts and dirties its nodes and records edits, and a
// later incremental parse only reads it through a reuseCursor.
type Tree struct {
	source []byte
	root   *Node
	edits  []Edit
	pool   *nodeArena
}

func newTree(source []byte, root *Node, edits []Edit, pool *nodeArena) *Tree {
	return &Tree{source: source, root: root, edits: edits, pool: pool}
}

// RootNode returns the tree's root, or nil once Release has been
// called. A parse always produces a root, even for empty input.
func (t *Tree) RootNode() *Node { return t.root }

// Edits returns the edit ranges recorded on this tree through
// RecordEdit since it was parsed; a freshly parsed tree has none.
func (t *Tree) Edits() []Edit { return t.edits }

// RecordEdit appends e to the tree's edit list, for the edit package to
// call once it has shifted and dirtied the affected nodes. A later
// incremental Parse reads this list back through Edits to compute the
// reuse cursor's minEditAt.
func (t *Tree) RecordEdit(e Edit) { t.edits = append(t.edits, e) }

// Source returns the exact byte slice this tree was parsed from.
func (t *Tree) Source() []byte { return t.source }

// Release drops the tree's reference to its root, returning slots to
// the pool once nothing else retains them. A Tree handed back by Parse
// already owns one reference; callers done with a tree (including one
// passed as `previous` to a later incremental Parse) must call Release
// exactly once.
func (t *Tree) Release() {
	if t.root != nil {
		release(t.root)
		t.root = nil
	}
}

// finalizeTree walks the accepted root in post-order exactly once (Design
// Note 1), filling in context.parent/indexInParent/offset and
// correcting startByte/endByte for every node reachable from root.
// Before this runs, only padding/size (not absolute position) are
// trustworthy on interior nodes built mid-parse, since a node can be
// shared as a child of more than one competing parent while versions
// are still live; only the version that survives to acceptance gets
// its context filled in.
func finalizeTree(root *Node) {
	if root == nil {
		return
	}
	var walk func(n *Node, parent *Node, index int, offset Extent)
	walk = func(n *Node, parent *Node, index int, offset Extent) {
		// A node's padding is its first child's padding, so the first
		// child starts at the node's own offset.
		childOffset := offset
		for i, c := range n.children {
			walk(c, n, i, childOffset)
			childOffset = childOffset.Add(extentOf(c))
		}
		n.context = nodeContext{parent: parent, indexInParent: index, offset: offset, valid: true}
		n.startByte = offset.Add(n.padding).Bytes
		n.endByte = n.startByte + n.size.Bytes
	}
	walk(root, nil, 0, Extent{})
}
