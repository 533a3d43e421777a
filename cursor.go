package tsglr

// reuseFrame is one entry of the cursor's explicit DFS stack: a node
// plus whether any strict ancestor on the path to it was marked dirty
// by the edit pre-pass (so a byte-identical but ancestor-dirtied
// region is not reused past the edit boundary).
type reuseFrame struct {
	node       *Node
	underDirty bool
}

// reuseCursor walks a previous tree in byte order (component C),
// exposing advance/pop/breakdown/pop_leaf (spec §4.C) to the lexer
// adapter during incremental parse. Grounded on incremental.go's
// reuseCursor/reuseFrame, extended with the spec's explicit breakdown
// and pop_leaf operations that the teacher folds into advance.
type reuseCursor struct {
	sourceLen uint32
	minEditAt uint32
	hasEdits  bool

	stack []reuseFrame
	// current is the node the cursor logically sits "at"; nil once
	// exhausted.
	current *Node
}

func newReuseCursor(previous *Tree, newSourceLen uint32) *reuseCursor {
	if previous == nil || previous.root == nil {
		return nil
	}
	c := &reuseCursor{sourceLen: newSourceLen}
	edits := previous.Edits()
	if len(edits) > 0 {
		c.hasEdits = true
		c.minEditAt = edits[0].StartByte
		for _, e := range edits[1:] {
			if e.StartByte < c.minEditAt {
				c.minEditAt = e.StartByte
			}
		}
	}
	c.stack = []reuseFrame{{node: previous.root}}
	c.current = c.advance()
	return c
}

// advance moves to the next node in pre-order that is a legal reuse
// candidate in principle (not dirty, not an error, within bounds);
// filtering by state/lookahead happens in the driver.
func (c *reuseCursor) advance() *Node {
	for len(c.stack) > 0 {
		last := len(c.stack) - 1
		frame := c.stack[last]
		c.stack = c.stack[:last]
		cur := frame.node
		if cur == nil {
			continue
		}

		childUnderDirty := frame.underDirty || cur.dirty

		for i := len(cur.children) - 1; i >= 0; i-- {
			c.stack = append(c.stack, reuseFrame{node: cur.children[i], underDirty: childUnderDirty})
		}

		if frame.underDirty && c.hasEdits && cur.endByte > c.minEditAt {
			// Under a dirty ancestor and reaching past the earliest
			// edit's start: not offered, so nothing is reused across the
			// edit boundary. Nodes under a dirty ancestor that end at or
			// before that start remain candidates.
			continue
		}
		if cur.HasError() || cur.IsError() || cur.endByte <= cur.startByte || cur.endByte > c.sourceLen {
			continue
		}
		if cur.dirty {
			continue
		}
		c.current = cur
		return cur
	}
	c.current = nil
	return nil
}

// peek returns the current candidate without consuming it.
func (c *reuseCursor) peek() *Node { return c.current }

// pop consumes and returns the current candidate, advancing past it.
func (c *reuseCursor) pop() *Node {
	n := c.current
	c.advance()
	return n
}

// breakdown replaces the current position with its first child,
// descending one level (spec §4.C). It fails (returns false) if the
// current node is a leaf or the cursor is exhausted.
func (c *reuseCursor) breakdown() bool {
	cur := c.current
	if cur == nil || len(cur.children) == 0 {
		return false
	}
	underDirty := cur.dirty
	for i := len(cur.children) - 1; i >= 1; i-- {
		c.stack = append(c.stack, reuseFrame{node: cur.children[i], underDirty: underDirty})
	}
	c.stack = append(c.stack, reuseFrame{node: cur.children[0], underDirty: underDirty})
	c.advance()
	return true
}

// popLeaf skips the current leaf and advances (spec §4.C pop_leaf).
func (c *reuseCursor) popLeaf() {
	c.advance()
}

// atByte reports the byte offset the cursor is currently positioned
// at, i.e. the start of the current candidate.
func (c *reuseCursor) atByte() (uint32, bool) {
	if c.current == nil {
		return 0, false
	}
	return c.current.startByte, true
}
