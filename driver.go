package tsglr

import "unicode/utf8"

// Normative recovery-cost constants (spec §4.H). Values follow the
// shape tree-sitter's own recovery cost model uses: a small per-skipped
// -tree constant, a larger per-character constant, and a much larger
// per-line constant, so that skipping whole lines is strongly
// disfavored relative to skipping a handful of characters.
const (
	maxVersionCount = 6

	errorCostPerSkippedTree uint32 = 1
	errorCostPerSkippedChar uint32 = 3
	errorCostPerSkippedLine uint32 = 30
	// errorCostPerRecoveryGap penalizes an ERROR_STATE discontinuity
	// itself, independent of how many characters it skipped, so two
	// versions with otherwise-equal skip cost still prefer the one that
	// needed fewer recovery attempts.
	errorCostPerRecoveryGap uint32 = 1

	maxCostDifference = 16 * errorCostPerSkippedTree
)

// Parser drives a single parse (component H): round-robins over live
// stack versions, asking the lexer adapter for lookahead, consulting
// the language table, and mutating the graph-structured stack until
// one version accepts or every version is exhausted.
//
// Grounded on glr.go's Parser (the single struct bundling all mutable
// parse state, reset at the top of each call rather than recreated)
// but restructured around ParseStack's DAG instead of glr.go's
// flat-slice-of-stacks model, and extended with the summary-based
// recovery spec §4.H requires that the teacher's parity harness never
// implemented.
type Parser struct {
	lang *Language

	pool  *nodeArena
	stack *ParseStack
	lexer *lexerAdapter
	reuse *reuseCursor

	source      []byte
	haltOnError bool

	// lastExternalState approximates "the external scanner state last
	// produced" at the single shared granularity of the whole parse
	// rather than per version; see DESIGN.md for why this is an
	// accepted simplification for this core's scale.
	lastExternalState []byte

	finished     *Node
	finishedCost uint32
	hasFinished  bool

	logger LogFunc
}

// NewParser builds a Parser bound to lang. One Parser may run many
// parses sequentially (never concurrently; spec §5).
func NewParser(lang *Language) *Parser {
	return &Parser{lang: lang}
}

// SetLogger installs the optional trace callback (spec §6/§4.L).
func (p *Parser) SetLogger(fn LogFunc) { p.logger = fn }

// Parse runs a fresh or incremental parse of input, reusing previous's
// subtrees where the reuse cursor and language table agree it is safe.
// previous may be nil for a fresh parse. If haltOnError is set, any
// version that would otherwise enter error recovery is halted
// immediately instead, so the result is the cheapest synthetic
// error-covered wrapper rather than the product of a full recovery
// search (spec §6).
func (p *Parser) Parse(input []byte, previous *Tree, haltOnError bool) *Tree {
	return p.parse(input, previous, nil, haltOnError)
}

// ParseWithTokenSource parses input using ts as the internal lex
// function instead of lang.LexFn (tests and the grammars package use
// this to supply a hand-written tokenizer). previous carries over a
// prior parse's tree for incremental reuse (component C), exactly like
// Parse's previous argument; pass nil for a fresh parse.
func (p *Parser) ParseWithTokenSource(input []byte, previous *Tree, ts TokenSource) *Tree {
	return p.parse(input, previous, ts, false)
}

func (p *Parser) parse(input []byte, previous *Tree, ts TokenSource, haltOnError bool) *Tree {
	p.source = input
	p.pool = newNodeArena()
	p.stack = newParseStack(InitialState)
	p.lexer = newLexerAdapter(input, p.lang, p.pool, ts)
	p.reuse = nil
	if previous != nil {
		p.reuse = newReuseCursor(previous, uint32(len(input)))
	}
	p.haltOnError = haltOnError
	p.lastExternalState = nil
	p.finished = nil
	p.hasFinished = false

	root := p.run()
	p.lexer.close()
	return newTree(input, root, nil, p.pool)
}

func (p *Parser) run() *Node {
	maxRounds := 64 + 8*len(p.source)
	rounds := 0
	for p.stack.versionCount() > 0 {
		if p.driverRound() {
			break
		}
		rounds++
		if rounds > maxRounds {
			p.log(LogTypeParse, "round limit exceeded, forcing halt")
			p.haltParse()
			break
		}
	}
	if !p.hasFinished {
		p.haltParse()
	}
	finalizeTree(p.finished)
	return p.finished
}

// driverRound executes one round-robin pass over all live versions,
// then condenses the stack; it reports whether the parse is complete
// (accepted, or no live version remains that could still progress).
func (p *Parser) driverRound() bool {
	n := p.stack.versionCount()
	for vi := 0; vi < n; vi++ {
		if p.stack.isDead(vi) || p.stack.isHalted(vi) {
			continue
		}
		ver := p.stack.versions[vi]
		pos := p.stack.topPosition(vi)
		if p.stack.versionCount() > 1 && ver.sawTurn && ver.lastTurnAt == pos {
			continue
		}
		ver.lastTurnAt = pos
		ver.sawTurn = true
		p.step(vi)
	}
	if p.condenseStack() {
		return true
	}
	if p.stack.versionCount() == 0 {
		return true
	}
	for i := range p.stack.versions {
		if !p.stack.isDead(i) && !p.stack.isHalted(i) {
			return false
		}
	}
	return true
}

// step executes one driver turn for version v (spec §4.H main loop
// steps 1-6).
func (p *Parser) step(v int) {
	if p.stack.isDead(v) || p.stack.isHalted(v) {
		return
	}
	state := p.stack.topState(v)
	position := p.stack.topPosition(v)

	look := p.getLookahead(v, state, position)
	entry := p.lang.Actions(state, look.Symbol())

	if len(entry.Actions) == 0 {
		if state == ErrorState {
			p.shiftErrorState(v, look)
			release(look)
			return
		}
		p.handleError(v, look)
		release(look)
		return
	}

	shifted := false
	settled := false // accept or recover fired
	lastReduced := -1
	reduceCount := 0

	for _, action := range entry.Actions {
		switch action.Type {
		case ParseActionShift:
			if shifted {
				continue
			}
			newLook, act, ok := p.breakdownForShift(v, look, action)
			if newLook != look {
				release(look)
				look = newLook
			}
			if ok {
				target := act.State
				if act.Extra {
					target = p.stack.topState(v)
				}
				p.stack.push(v, look, false, act.Extra, target)
				shifted = true
			}
		case ParseActionReduce:
			// Every reduce pops from its own copy of v, so one reduction
			// never sees another's pops. A copy whose head did not move
			// had too few links to pop and is dropped.
			nv := p.stack.copyVersion(v)
			r := p.reduce(nv, action)
			if p.stack.canMerge(nv, v) {
				p.stack.removeVersion(nv)
				continue
			}
			lastReduced = r
			reduceCount++
		case ParseActionAccept:
			p.accept(v, look)
			settled = true
		case ParseActionRecover:
			p.recover(v, look)
			settled = true
		}
	}

	release(look)

	if settled || shifted {
		return
	}
	if reduceCount > 0 {
		if lastReduced != v && lastReduced >= 0 && !p.stack.isDead(lastReduced) {
			p.stack.renumberVersion(lastReduced, v)
		}
		p.step(v)
		return
	}

	look2 := p.getLookahead(v, state, position)
	p.handleError(v, look2)
	release(look2)
}

// breakdownForShift implements the "break-down of interior lookahead"
// rule: if the chosen shift's subtree is interior and its stored
// parse_state disagrees with the state we are shifting from, descend
// to its first leaf and recompute the action from that leaf's symbol.
func (p *Parser) breakdownForShift(v int, look *Node, action ParseAction) (*Node, ParseAction, bool) {
	cur := p.stack.topState(v)
	if look.ChildCount() == 0 || look.parseState == StateIDNone || look.parseState == cur {
		return look, action, true
	}
	leaf := look
	for leaf.ChildCount() > 0 {
		child := retain(leaf.Child(0))
		release(leaf)
		leaf = child
	}
	newEntry := p.lang.Actions(cur, leaf.Symbol())
	for _, a := range newEntry.Actions {
		if a.Type == ParseActionShift {
			return leaf, a, true
		}
	}
	return leaf, action, false
}

// reduce pops action.ChildCount links from v, builds a parent subtree
// per revealed slice, and pushes each (spec §4.H Reduce). It returns
// the last version touched, which step() renumbers back to v when no
// other action claimed v this turn.
func (p *Parser) reduce(v int, action ParseAction) int {
	slices := p.stack.popCount(v, int(action.ChildCount))
	last := v
	ambiguous := len(slices) > 1

	for i, sl := range slices {
		trees := sl.Trees
		var extras []*Node
		for len(trees) > 0 && trees[len(trees)-1].extra {
			extras = append([]*Node{trees[len(trees)-1]}, extras...)
			trees = trees[:len(trees)-1]
		}

		parent := makeNode(p.pool, p.lang, action.Symbol, trees, action.AliasSequence)
		parent.dynPrecision += action.DynPrecedence
		if action.Fragile || ambiguous {
			parent.fragileLeft = true
			parent.fragileRight = true
			parent.parseState = StateIDNone
		}

		baseState := p.stack.topState(sl.Version)
		nextState, ok := p.lang.NextState(baseState, action.Symbol)
		if !ok {
			nextState = baseState
		}

		if !ambiguous {
			p.stack.pushAmbiguous(sl.Version, parent, nextState)
		} else {
			p.stack.push(sl.Version, parent, true, false, nextState)
		}
		release(parent)

		for _, ex := range extras {
			p.stack.push(sl.Version, ex, false, true, p.stack.topState(sl.Version))
			release(ex)
		}

		last = sl.Version
		_ = i
	}
	return last
}

// accept implements spec §4.H Accept: the lookahead (end-of-input) is
// pushed as extra, the whole spine is popped, and the surviving
// non-extra tree becomes a candidate finished tree.
func (p *Parser) accept(v int, look *Node) {
	tmp := retain(look)
	marked := markExtra(p.pool, tmp)
	p.stack.push(v, marked, false, true, p.stack.topState(v))
	release(marked)

	trees := p.stack.popAll(v)
	var root *Node
	for _, t := range trees {
		if root == nil && !t.extra {
			root = t
			continue
		}
		release(t)
	}
	if root == nil {
		root = makeErrorNode(p.pool, nil)
	}
	p.finishVersion(v, root)
}

func (p *Parser) finishVersion(v int, root *Node) {
	if !p.hasFinished || selectTree(p.finished, root) == root {
		if p.hasFinished {
			release(p.finished)
		}
		p.finished = root
		p.finishedCost = root.errorCost
		p.hasFinished = true
		p.log(LogTypeParse, "accepted tree with cost %d", p.finishedCost)
	} else {
		release(root)
	}
	p.stack.halt(v)
}

// shiftErrorState implements step 5: in ERROR_STATE with no matching
// action, shift the lookahead unconditionally, accumulating its chars
// as skip cost.
func (p *Parser) shiftErrorState(v int, look *Node) {
	tmp := retain(look)
	cost := errorCostPerSkippedChar
	if look.size.Chars > 0 {
		cost = errorCostPerSkippedChar * look.size.Chars
	}
	marked := markSkipped(p.pool, tmp, cost)
	p.stack.push(v, marked, false, true, ErrorState)
	release(marked)
}

// handleError implements spec §4.H handle_error.
func (p *Parser) handleError(v int, look *Node) {
	_ = look
	if p.haltOnError {
		p.stack.halt(v)
		return
	}
	if p.betterVersionExists(v) {
		p.stack.halt(v)
		return
	}
	p.log(LogTypeParse, "error at %d, entering recovery", p.stack.topPosition(v))
	created := p.doPotentialReductions(v)
	p.stack.push(v, nil, false, false, ErrorState)
	for _, nv := range created {
		if nv == v || p.stack.isDead(nv) {
			continue
		}
		p.stack.forceMerge(v, nv)
	}
}

type reductionKey struct {
	symbol        Symbol
	childCount    uint16
	dynPrecedence int32
	aliasSeq      AliasSequenceID
}

// doPotentialReductions enumerates every reduction the current state
// allows regardless of lookahead symbol, deduplicated, and executes
// each with fragile=true on its own forked version (spec §4.H).
func (p *Parser) doPotentialReductions(v int) []int {
	state := p.stack.topState(v)
	seen := make(map[reductionKey]bool)
	var created []int
	for sym := Symbol(0); int(sym) < p.lang.SymbolCount; sym++ {
		entry := p.lang.Actions(state, sym)
		for _, a := range entry.Actions {
			if a.Type != ParseActionReduce || a.Extra || a.ChildCount == 0 {
				continue
			}
			key := reductionKey{a.Symbol, a.ChildCount, a.DynPrecedence, a.AliasSequence}
			if seen[key] {
				continue
			}
			seen[key] = true
			nv := p.stack.copyVersion(v)
			fragile := a
			fragile.Fragile = true
			created = append(created, p.reduce(nv, fragile))
		}
	}
	return created
}

type recoveryCandidate struct {
	depth int
	state StateID
	cost  uint32
}

// recover scans v's recorded summary for a resumable state and, if one
// beats every other live version's cost, pops back to it and wraps the
// skipped material in an ERROR node (spec §4.H recover).
func (p *Parser) recover(v int, look *Node) {
	summary := p.stack.getSummary(v)
	curPos := p.stack.topPosition(v)

	var best *recoveryCandidate
	for _, s := range summary {
		entry := p.lang.Actions(s.state, look.Symbol())
		if len(entry.Actions) == 0 {
			continue
		}
		delta := extentOfRange(p.source, minu32(s.position, curPos), curPos)
		cost := uint32(s.depth)*errorCostPerSkippedTree +
			delta.Chars*errorCostPerSkippedChar +
			delta.Point.Row*errorCostPerSkippedLine
		if best == nil || cost < best.cost {
			best = &recoveryCandidate{depth: s.depth, state: s.state, cost: cost}
		}
	}

	if best != nil && !p.betterCostExists(v, best.cost) {
		p.applyRecovery(v, best)
		return
	}

	if look.Symbol() == SymbolEnd {
		root := makeErrorNode(p.pool, []*Node{retain(look)})
		p.finishVersion(v, root)
		return
	}

	p.shiftErrorState(v, look)
}

func (p *Parser) applyRecovery(v int, best *recoveryCandidate) {
	slices := p.stack.popCount(v, best.depth)
	sl := slices[0]
	trailer, _ := p.stack.popError(sl.Version)

	all := append(trailer, sl.Trees...)
	var extras []*Node
	for len(all) > 0 && all[len(all)-1].extra {
		extras = append([]*Node{all[len(all)-1]}, extras...)
		all = all[:len(all)-1]
	}

	errNode := makeErrorNode(p.pool, all)
	marked := markExtra(p.pool, errNode)
	p.stack.push(sl.Version, marked, false, true, best.state)
	release(marked)

	for _, ex := range extras {
		p.stack.push(sl.Version, ex, false, true, p.stack.topState(sl.Version))
		release(ex)
	}

	for i := 1; i < len(slices); i++ {
		p.stack.removeVersion(slices[i].Version)
	}
	p.log(LogTypeParse, "recovered at %d into state %d", p.stack.topPosition(sl.Version), best.state)
}

func (p *Parser) betterCostExists(v int, cost uint32) bool {
	for i := range p.stack.versions {
		if i == v || p.stack.isDead(i) || p.stack.isHalted(i) {
			continue
		}
		if p.stack.errorCost(i) < cost {
			return true
		}
	}
	return false
}

// cmpVerdict mirrors spec §4.H compare_versions's five outcomes.
type cmpVerdict int

const (
	cmpNone cmpVerdict = iota
	cmpTakeA
	cmpPreferA
	cmpTakeB
	cmpPreferB
)

func compareVersions(costA uint32, inErrA bool, pushA int, costB uint32, inErrB bool, pushB int) cmpVerdict {
	if inErrA != inErrB {
		if !inErrA {
			if costA < costB {
				return cmpTakeA
			}
			return cmpPreferA
		}
		if costB < costA {
			return cmpTakeB
		}
		return cmpPreferB
	}
	if costA == costB {
		return cmpNone
	}
	if costA < costB {
		if uint64(costB-costA)*uint64(1+pushA) > uint64(maxCostDifference) {
			return cmpTakeA
		}
		return cmpPreferA
	}
	if uint64(costA-costB)*uint64(1+pushB) > uint64(maxCostDifference) {
		return cmpTakeB
	}
	return cmpPreferB
}

// betterVersionExists reports whether some other live version (or the
// already-finished tree) dominates v under compare_versions.
func (p *Parser) betterVersionExists(v int) bool {
	costV := p.stack.errorCost(v)
	inErrV := p.stack.topState(v) == ErrorState
	pushV := p.stack.pushCount(v)
	for i := range p.stack.versions {
		if i == v || p.stack.isDead(i) || p.stack.isHalted(i) {
			continue
		}
		costI := p.stack.errorCost(i)
		inErrI := p.stack.topState(i) == ErrorState
		pushI := p.stack.pushCount(i)
		switch compareVersions(costI, inErrI, pushI, costV, inErrV, pushV) {
		case cmpTakeA, cmpPreferA:
			return true
		}
	}
	return p.hasFinished && p.finishedCost <= costV
}

// condenseStack implements spec §4.H condense_stack, returning
// should_halt.
func (p *Parser) condenseStack() bool {
	for i := range p.stack.versions {
		ver := p.stack.versions[i]
		if ver != nil && !ver.dead && ver.halted {
			p.stack.removeVersion(i)
		}
	}

	for i := 0; i < len(p.stack.versions); i++ {
		if p.stack.isDead(i) {
			continue
		}
		for j := 0; j < i; j++ {
			if p.stack.isDead(j) || p.stack.isDead(i) {
				continue
			}
			costI, inErrI, pushI := p.stack.errorCost(i), p.stack.topState(i) == ErrorState, p.stack.pushCount(i)
			costJ, inErrJ, pushJ := p.stack.errorCost(j), p.stack.topState(j) == ErrorState, p.stack.pushCount(j)
			switch compareVersions(costJ, inErrJ, pushJ, costI, inErrI, pushI) {
			case cmpTakeA:
				p.stack.removeVersion(i)
			case cmpTakeB:
				p.stack.removeVersion(j)
			case cmpPreferA:
				if p.stack.canMerge(j, i) {
					p.stack.removeVersion(i)
				}
			case cmpPreferB:
				if p.stack.canMerge(j, i) {
					p.stack.removeVersion(j)
				} else {
					p.stack.swapVersions(i, j)
				}
			case cmpNone:
				if p.stack.canMerge(i, j) {
					p.stack.forceMerge(j, i)
				}
			}
		}
	}

	p.stack.compact()
	for len(p.stack.versions) > maxVersionCount {
		p.stack.removeVersion(len(p.stack.versions) - 1)
	}
	p.stack.compact()

	if len(p.stack.versions) == 0 {
		return true
	}

	allError := true
	minLiveCost := uint32(0)
	haveLive := false
	for i := range p.stack.versions {
		if p.stack.isDead(i) {
			continue
		}
		if p.stack.topState(i) != ErrorState {
			allError = false
		}
		cost := p.stack.errorCost(i)
		if !haveLive || cost < minLiveCost {
			minLiveCost = cost
			haveLive = true
		}
	}
	if allError {
		return true
	}
	if p.hasFinished && haveLive && p.finishedCost < minLiveCost {
		return true
	}
	return false
}

// haltParse implements spec §4.H halt_parse: the lexer gives up, the
// trees already on the first live version's stack and a single error
// leaf over the remaining bytes are wrapped in one ERROR node, and the
// parse accepts a tree that still covers the full input.
func (p *Parser) haltParse() {
	v := p.firstLiveVersion()
	pos := uint32(0)
	if v >= 0 {
		pos = p.stack.topPosition(v)
	}
	n := uint32(len(p.source))

	var skipped []*Node
	if v >= 0 {
		skipped = p.stack.popAll(v)
	}
	if pos < n {
		padding := Extent{}
		size := extentOfRange(p.source, pos, n)
		skipped = append(skipped, makeErrorLeaf(p.pool, padding, size, 0))
	}
	errNode := makeErrorNode(p.pool, skipped)

	eofTok := Token{Symbol: SymbolEnd, StartByte: n, EndByte: n}
	eofLeaf := p.tokenToLeaf(eofTok, n, LexMode{})
	eofLeaf.extra = true

	root := makeNode(p.pool, p.lang, SymbolErrorNode, []*Node{errNode, eofLeaf}, 0)
	root.visible = true
	root.named = true
	if p.hasFinished {
		release(p.finished)
	}
	p.finished = root
	p.finishedCost = root.errorCost
	p.hasFinished = true
}

func (p *Parser) firstLiveVersion() int {
	for i := range p.stack.versions {
		if !p.stack.isDead(i) {
			return i
		}
	}
	return -1
}

// getLookahead implements spec §4.H get_lookahead: try the reuse
// cursor, then the token cache, then the lexer.
func (p *Parser) getLookahead(v int, state StateID, position uint32) *Node {
	mode := p.lang.LexMode(state)

	if p.reuse != nil {
		for {
			cand := p.reuse.peek()
			if cand == nil {
				break
			}
			atByte, ok := p.reuse.atByte()
			if !ok || atByte != position {
				break
			}
			if p.reusable(cand, state) {
				p.reuse.pop()
				// A reused subtree skips lexing for the bytes it covers
				// entirely; keep a stateful TokenSource's own cursor in
				// sync by pre-fetching the token right after it and
				// caching it at that query position, rather than
				// leaving the TokenSource to redundantly re-scan bytes
				// the reused subtree already covered.
				end := position + cand.totalBytes()
				if tok, ok := p.lexer.skipTo(end); ok {
					leaf := p.tokenToLeaf(tok, end, mode)
					if tok.External {
						p.lastExternalState = tok.ExternalState
					}
					p.lexer.cache.put(end, p.lastExternalState, tok, leaf)
					release(leaf)
				}
				p.log(LogTypeParse, "reuse symbol %d at byte %d", cand.Symbol(), position)
				return retain(cand)
			}
			if !p.reuse.breakdown() {
				p.reuse.popLeaf()
				break
			}
		}
	}

	if tok, leaf, ok := p.lexer.cache.get(position, p.lastExternalState); ok {
		_ = tok
		return retain(leaf)
	}

	tok := p.lexer.lex(position, mode, p.lastExternalState, false)
	leaf := p.tokenToLeaf(tok, position, mode)
	if tok.External {
		p.lastExternalState = tok.ExternalState
	}
	p.lexer.cache.put(position, p.lastExternalState, tok, leaf)
	p.log(LogTypeLex, "lexed symbol %d [%d,%d)", leaf.Symbol(), tok.StartByte, tok.EndByte)
	return leaf
}

// reusable implements get_lookahead's rejection rules for a candidate
// drawn from the previous tree.
func (p *Parser) reusable(cand *Node, state StateID) bool {
	if cand.dirty {
		return false
	}
	if cand.IsError() {
		return false
	}
	if cand.fragileLeft || cand.fragileRight {
		return false
	}
	entry := p.lang.Actions(state, cand.Symbol())
	if !entry.Reusable {
		return false
	}
	if entry.DependsOnLookahead && (cand.ChildCount() == 0 || cand.HasError()) {
		return false
	}
	return true
}

// tokenToLeaf wraps a Token produced by the lexer adapter into a leaf
// Node with correct padding/size measured against the version's top
// position (spec §4.E).
func (p *Parser) tokenToLeaf(tok Token, position uint32, mode LexMode) *Node {
	padding := extentOfRange(p.source, position, tok.StartByte)
	size := extentOfRange(p.source, tok.StartByte, tok.EndByte)

	var leaf *Node
	if tok.Symbol == SymbolError {
		var ch rune
		if len(tok.Text) > 0 {
			ch, _ = utf8.DecodeRuneInString(tok.Text)
		}
		leaf = makeErrorLeaf(p.pool, padding, size, ch)
	} else {
		leaf = makeLeaf(p.pool, p.lang, tok.Symbol, padding, size, mode)
	}
	leaf.bytesScanned = tok.BytesScanned
	if tok.External {
		leaf.hasExternal = true
		leaf.externalTokenState = tok.ExternalState
	}
	return leaf
}

// markExtra/markSkipped copy-on-write a node before flipping its extra
// flag or adding skip cost, honoring invariant 5 (never mutate a
// subtree already observed at ref_count > 1).
func markExtra(pool *nodeArena, n *Node) *Node {
	target := n
	if n.refCount > 1 {
		target = makeCopy(pool, n)
		release(n)
	}
	target.extra = true
	return target
}

func markSkipped(pool *nodeArena, n *Node, extraCost uint32) *Node {
	target := markExtra(pool, n)
	target.errorCost += extraCost
	return target
}

func extentOfRange(source []byte, from, to uint32) Extent {
	var e Extent
	if to <= from || int(to) > len(source) {
		if to <= from {
			return e
		}
		to = uint32(len(source))
	}
	for i := from; i < to; {
		r, size := utf8.DecodeRune(source[i:])
		if size == 0 {
			break
		}
		e.Bytes += uint32(size)
		e.Chars++
		if r == '\n' {
			e.Point.Row++
			e.Point.Column = 0
		} else {
			e.Point.Column += uint32(size)
		}
		i += uint32(size)
	}
	return e
}

func minu32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
