package tsglr

// Node is the universal tree node (the spec calls it "Subtree"):
// immutable-after-finalize, refcounted, and allocated from a nodeArena
// slab so the hot path never touches the heap allocator directly.
//
// Grounded on arena.go's Node usage and spec §3: symbol/parse_state,
// alias, padding+size extents, child bookkeeping, the four error/
// precedence/cost accumulators, the fragile/extra/visible/named flag
// set, first_leaf, bytes_scanned, and the post-parse context.
type Node struct {
	symbol      Symbol
	parseState  StateID
	aliasSymbol Symbol
	aliasNamed  bool

	padding Extent
	size    Extent

	children          []*Node
	visibleChildCount uint32
	namedChildCount   uint32
	aliasSequence     AliasSequenceID

	// externalTokenState is set on a leaf produced by an external
	// scanner; unrecognizedChar is set on a leaf denoting one skipped
	// codepoint. childCount == 0 implies exactly one of these applies
	// (or neither, for an ordinary internal-lexer leaf).
	externalTokenState []byte
	hasUnrecognized     bool
	unrecognizedChar    rune

	refCount     int32
	dynPrecision int32
	errorCost    uint32

	visible      bool
	named        bool
	extra        bool
	fragileLeft  bool
	fragileRight bool
	dirty        bool // has_changes: set by the edit pre-pass, consulted during reuse
	hasExternal  bool

	firstLeafSymbol Symbol
	firstLeafMode   LexMode
	bytesScanned    uint32

	// startByte/endByte are derived (padding.Bytes+size.Bytes measured
	// from the root) but cached at creation time for O(1) comparisons
	// during incremental reuse; they are corrected by finalizeTree.
	startByte uint32
	endByte   uint32

	context nodeContext

	arena *nodeArena
	slab  *nodeSlab
	slot  int
}

// nodeContext is filled only after acceptance, by a single post-order
// walk (Design Note 1): a back-pointer avoids a true reference cycle
// during parsing, when a node may be a child of several competing
// parents at once.
type nodeContext struct {
	parent     *Node
	indexInParent int
	offset     Extent
	valid      bool
}

// totalBytes returns padding.Bytes + size.Bytes (invariant 1).
func (n *Node) totalBytes() uint32 { return n.padding.Bytes + n.size.Bytes }

// Symbol returns the grammar symbol this occurrence is known as (after
// aliasing, if any).
func (n *Node) Symbol() Symbol {
	if n.aliasSymbol != 0 {
		return n.aliasSymbol
	}
	return n.symbol
}

// GrammarSymbol returns the unaliased grammar symbol.
func (n *Node) GrammarSymbol() Symbol { return n.symbol }

func (n *Node) ChildCount() int   { return len(n.children) }
func (n *Node) Child(i int) *Node { return n.children[i] }
func (n *Node) StartByte() uint32 { return n.startByte }
func (n *Node) EndByte() uint32   { return n.endByte }
func (n *Node) StartPoint() Point { return n.padding.Point }
func (n *Node) EndPoint() Point   { return n.padding.Add(n.size).Point }
func (n *Node) IsNamed() bool     { return n.named }
func (n *Node) IsVisible() bool   { return n.visible }
func (n *Node) IsExtra() bool     { return n.extra }
func (n *Node) IsDirty() bool     { return n.dirty }
func (n *Node) IsError() bool     { return n.symbol == SymbolError || n.symbol == SymbolErrorNode }
func (n *Node) HasError() bool    { return n.errorCost > 0 }
func (n *Node) ErrorCost() uint32 { return n.errorCost }

// Parent and ChildIndex are valid only after a tree has been returned
// from Parse (which runs finalizeTree).
func (n *Node) Parent() *Node   { return n.context.parent }
func (n *Node) ChildIndex() int { return n.context.indexInParent }

// MarkDirty flags n as touched by an edit. It exists for the separate
// edit package (spec §4.M): the reuse cursor (component C) never
// offers a dirty node as a reuse candidate.
func (n *Node) MarkDirty() { n.dirty = true }

// ShiftBytes adjusts n's cached absolute byte position by delta,
// for the edit package to call on every node positioned at or after
// an edit's old end once the edit's length has changed the source.
func (n *Node) ShiftBytes(delta int64) {
	n.startByte = uint32(int64(n.startByte) + delta)
	n.endByte = uint32(int64(n.endByte) + delta)
}

// symbolMetadataFor fills visible/named/extra from the language's
// symbol tables for symbol sym.
func symbolMetadataFor(lang *Language, sym Symbol) (visible, named bool) {
	if lang == nil || int(sym) >= len(lang.Visible) {
		return sym >= FirstUserSymbol, sym >= FirstUserSymbol
	}
	return lang.Visible[sym], lang.Named[sym]
}

// makeLeaf allocates a leaf node from padding/size for a lexed token
// (spec §4.B make_leaf).
func makeLeaf(pool *nodeArena, lang *Language, symbol Symbol, padding, size Extent, mode LexMode) *Node {
	n := pool.allocNode()
	n.arena = pool
	n.symbol = symbol
	n.parseState = StateIDNone
	n.padding = padding
	n.size = size
	n.refCount = 1
	n.visible, n.named = symbolMetadataFor(lang, symbol)
	n.extra = isExtraSymbol(lang, symbol)
	n.firstLeafSymbol = symbol
	n.firstLeafMode = mode
	if symbol == SymbolError {
		n.errorCost = 0
	}
	n.startByte = padding.Bytes
	n.endByte = padding.Bytes + size.Bytes
	return n
}

func isExtraSymbol(lang *Language, symbol Symbol) bool {
	if lang == nil {
		return false
	}
	for _, s := range lang.ExtraSymbols {
		if s == symbol {
			return true
		}
	}
	return false
}

// makeErrorLeaf builds an error leaf spanning [firstErrorChar, ...),
// spec §4.B make_error.
func makeErrorLeaf(pool *nodeArena, padding, size Extent, firstErrorChar rune) *Node {
	n := pool.allocNode()
	n.arena = pool
	n.symbol = SymbolError
	n.parseState = StateIDNone
	n.padding = padding
	n.size = size
	n.refCount = 1
	n.visible = true
	n.named = true
	n.hasUnrecognized = true
	n.unrecognizedChar = firstErrorChar
	n.errorCost = errorCostPerSkippedChar * size.Chars
	if size.Chars == 0 {
		n.errorCost = errorCostPerSkippedChar
	}
	n.firstLeafSymbol = SymbolError
	n.startByte = padding.Bytes
	n.endByte = padding.Bytes + size.Bytes
	return n
}

// makeNode aggregates children into an interior node (spec §4.B
// make_node): size/extent/error-cost/dynamic-precedence are summed,
// visible/named child counts and first_leaf are derived from language
// metadata, and fragile_left/right propagate from the outer children.
func makeNode(pool *nodeArena, lang *Language, symbol Symbol, children []*Node, aliasSeq AliasSequenceID) *Node {
	n := pool.allocNode()
	n.arena = pool
	n.symbol = symbol
	n.parseState = StateIDNone
	n.children = children
	n.aliasSequence = aliasSeq
	n.refCount = 1
	n.visible, n.named = symbolMetadataFor(lang, symbol)

	var firstNonExtra *Node
	for _, c := range children {
		if c.visible {
			n.visibleChildCount++
		}
		if c.named {
			n.namedChildCount++
		}
		n.dynPrecision += c.dynamicPrecision()
		n.errorCost += c.errorCost
		if firstNonExtra == nil && !c.extra {
			firstNonExtra = c
		}
	}

	if len(children) > 0 {
		n.padding = children[0].padding
		n.size = sumChildExtents(children)
		n.startByte = children[0].startByte
		n.endByte = children[len(children)-1].endByte
	}

	if firstNonExtra != nil {
		n.firstLeafSymbol = firstNonExtra.firstLeafSymbol
		n.firstLeafMode = firstNonExtra.firstLeafMode
		n.fragileLeft = firstNonExtra.fragileLeft
	} else {
		n.firstLeafSymbol = symbol
		if len(children) > 0 {
			n.fragileLeft = children[0].fragileLeft
		}
	}
	if len(children) > 0 {
		last := children[len(children)-1]
		n.fragileRight = last.fragileRight
	}
	if n.fragileLeft || n.fragileRight {
		n.parseState = StateIDNone
	}
	return n
}

// dynamicPrecision is the accessor make_node uses to sum precedence
// across descendants (spec §3: dynamic_precedence, summed recursively).
func (n *Node) dynamicPrecision() int32 { return n.dynPrecision }

// DynamicPrecedence exposes the accumulated dynamic precedence.
func (n *Node) DynamicPrecedence() int32 { return n.dynPrecision }

func extentOf(n *Node) Extent { return n.padding.Add(n.size) }

func sumChildExtents(children []*Node) Extent {
	var total Extent
	for _, c := range children {
		total = total.Add(extentOf(c))
	}
	// Subtract the leading padding, which belongs to the parent's
	// padding, not its size.
	return Extent{
		Bytes: total.Bytes - children[0].padding.Bytes,
		Chars: total.Chars - children[0].padding.Chars,
		Point: subPoint(total.Point, children[0].padding.Point),
	}
}

func subPoint(a, b Point) Point {
	if a.Row > b.Row {
		return Point{Row: a.Row - b.Row, Column: a.Column}
	}
	return Point{Row: 0, Column: a.Column - b.Column}
}

// makeErrorNode wraps children skipped during recovery in an ERROR
// interior node (spec §4.B make_error_node).
func makeErrorNode(pool *nodeArena, children []*Node) *Node {
	n := makeNode(pool, nil, SymbolErrorNode, children, 0)
	n.visible = true
	n.named = true
	n.errorCost += errorCostPerSkippedTree
	return n
}

// makeCopy performs the copy-on-write duplication Design Note 2
// requires before a subtree observed at refCount>1 may be mutated:
// children are retained (ref bumped), everything else is a shallow
// copy.
func makeCopy(pool *nodeArena, n *Node) *Node {
	cp := pool.allocNode()
	slab, slot, arena := cp.slab, cp.slot, cp.arena
	*cp = *n
	cp.slab, cp.slot, cp.arena = slab, slot, arena
	cp.refCount = 1
	cp.context = nodeContext{}
	for _, c := range cp.children {
		retain(c)
	}
	return cp
}

// replaceChildren gives a node a new, owned children slice, copying
// first if the node is shared (invariant 5).
func replaceChildren(pool *nodeArena, n *Node, children []*Node) *Node {
	target := n
	if n.refCount > 1 {
		target = makeCopy(pool, n)
		release(n)
	}
	for _, c := range target.children {
		release(c)
	}
	target.children = children
	return target
}

// retain/release implement the refcount lifecycle (spec §3 Lifecycle):
// retain bumps the count; release decrements, and at zero recursively
// releases children before returning the node to its arena.
func retain(n *Node) *Node {
	if n == nil {
		return nil
	}
	n.refCount++
	return n
}

func release(n *Node) {
	if n == nil {
		return
	}
	n.refCount--
	if n.refCount > 0 {
		return
	}
	for _, c := range n.children {
		release(c)
	}
	arena, slab, slot := n.arena, n.slab, n.slot
	*n = Node{}
	if arena != nil {
		arena.free(slab, slot)
	}
}

// compare is the deterministic total order spec §4.B requires to break
// ties between otherwise-indistinguishable parses: symbol, then child
// count, then each child recursively.
func compare(a, b *Node) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	if a.Symbol() != b.Symbol() {
		return int(a.Symbol()) - int(b.Symbol())
	}
	if len(a.children) != len(b.children) {
		return len(a.children) - len(b.children)
	}
	for i := range a.children {
		if c := compare(a.children[i], b.children[i]); c != 0 {
			return c
		}
	}
	return 0
}

// eq is structural equality modulo identity.
func eq(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Symbol() != b.Symbol() || len(a.children) != len(b.children) {
		return false
	}
	if a.totalBytes() != b.totalBytes() {
		return false
	}
	for i := range a.children {
		if !eq(a.children[i], b.children[i]) {
			return false
		}
	}
	return true
}

// selectTree is the deterministic tie-break spec §4.B/§4.H describe:
// smaller error cost wins, then larger dynamic precedence, then the
// total order compare() imposes, with a kept on equality.
func selectTree(a, b *Node) *Node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.errorCost != b.errorCost {
		if a.errorCost < b.errorCost {
			return a
		}
		return b
	}
	if a.dynPrecision != b.dynPrecision {
		if a.dynPrecision > b.dynPrecision {
			return a
		}
		return b
	}
	if compare(b, a) < 0 {
		return b
	}
	return a
}

// externalTokenStateEq compares the opaque blobs two external leaves
// carry; both nil counts as equal.
func externalTokenStateEq(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
