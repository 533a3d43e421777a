// Package edit is the non-core "apply one text edit to a previous
// tree" pre-pass spec.md §1/§6 name as external to the parser core: it
// shifts surviving node extents and marks the nodes an edit actually
// touched dirty, so a later incremental Parse's reuse cursor can tell
// which subtrees are still trustworthy. The tsglr package never
// imports this one; only the reverse holds.
package edit

import "github.com/odvcencio/tsglr"

// Edit is an alias for the core's edit-range primitive: one text
// replacement between the source a tree was parsed from and the new
// source an incremental parse will run against.
type Edit = tsglr.Edit

// Apply walks tree's root once, shifting the cached byte position of
// every node that starts at or after e.OldEndByte by the edit's length
// delta, and marking dirty every node whose byte range intersects
// [e.StartByte, e.OldEndByte). If tree has no root (a released tree)
// it only records e. Row/column tracking is left to the caller; this
// core only ever consults byte offsets during incremental reuse
// (cursor.go's atByte), so Apply does not attempt to shift Points.
//
// Apply mutates Node fields directly rather than going through
// retain/release: a tree handed to Apply is assumed not to be shared
// with any other live Tree (the normal incremental-parsing usage is
// edit the most recent Tree, then pass it as Parse's `previous`).
func Apply(tree *tsglr.Tree, e Edit) {
	root := tree.RootNode()
	if root != nil {
		delta := int64(e.NewEndByte) - int64(e.OldEndByte)
		walk(root, e, delta)
	}
	tree.RecordEdit(e)
}

func walk(n *tsglr.Node, e Edit, byteDelta int64) {
	start, end := n.StartByte(), n.EndByte()

	if start < e.OldEndByte && end > e.StartByte {
		n.MarkDirty()
	} else if start >= e.OldEndByte {
		n.ShiftBytes(byteDelta)
	}

	for i := 0; i < n.ChildCount(); i++ {
		walk(n.Child(i), e, byteDelta)
	}
}
