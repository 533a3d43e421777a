// Package grammars supplies a small demo language for exercising the
// tsglr core end to end: a token source built the way the teacher's
// generic lexer built its per-language scanners (a byte-oriented
// sourceCursor with advanceByte/advanceRune/peekByte/point helpers,
// longest-match literal lookup, identifier/number/string scanning),
// and a hand-assembled Language table covering shift, reduce, accept,
// a genuine reduce/reduce ambiguity over unary vs binary minus, and
// error recovery.
package grammars

import "github.com/odvcencio/tsglr"

// Demo grammar symbols.
const (
	TokNumber tsglr.Symbol = tsglr.FirstUserSymbol + iota
	TokIdent
	TokString
	TokPlus
	TokMinus
	TokStar
	TokSlash
	TokLParen
	TokRParen
	TokComment // extra: line comments never reach the grammar

	SymProgram
	SymExpr

	symbolCount
)

// Demo grammar states. Each terminal gets its own post-shift state so
// the following reduce knows which production to apply; each binary
// operator gets its own post-operand state so the resulting reduce
// knows its child count and operator. stMinusExpr is shared by leading
// ('-x') and infix ('a-x') minus: the automaton cannot tell, from the
// state alone, whether a left operand preceded the '-', so both
// unary_expr and binary_expr register a reduce action there. That
// reduce/reduce conflict is exactly the ambiguity spec §4.K asks the
// demo grammar to exercise; select_tree/dynamic precedence resolve it.
const (
	stStart tsglr.StateID = iota
	stAfterOperand
	stAfterPlus
	stAfterStar
	stAfterSlash
	stAfterLParen
	stHaveNumber
	stHaveIdent
	stHaveString
	stBinRHSPlus
	stBinRHSStar
	stBinRHSSlash
	stMinusExpr
	stParenExpr
	stAfterRParen

	stateCount
)

const (
	aliasUnaryMinus tsglr.AliasSequenceID = iota + 1
	aliasBinaryMinus
)

// followSet is every terminal that can legally follow a complete expr:
// the four binary operators, ')', and end-of-input.
func followSet() []tsglr.Symbol {
	return []tsglr.Symbol{TokPlus, TokMinus, TokStar, TokSlash, TokRParen, tsglr.SymbolEnd}
}

// Demo builds the Language table described above.
func Demo() *tsglr.Language {
	lang := tsglr.NewLanguage(int(stateCount), int(TokComment)+1, int(symbolCount))

	lang.SymbolNames = make([]string, symbolCount)
	lang.Visible = make([]bool, symbolCount)
	lang.Named = make([]bool, symbolCount)
	names := map[tsglr.Symbol]string{
		TokNumber: "number", TokIdent: "identifier", TokString: "string",
		TokPlus: "+", TokMinus: "-", TokStar: "*", TokSlash: "/",
		TokLParen: "(", TokRParen: ")", TokComment: "comment",
		SymProgram: "program", SymExpr: "expr",
	}
	for sym, name := range names {
		lang.SymbolNames[sym] = name
		lang.Named[sym] = sym == TokNumber || sym == TokIdent || sym == TokString || sym == SymProgram || sym == SymExpr
		lang.Visible[sym] = lang.Named[sym] || (sym >= TokPlus && sym <= TokRParen)
	}
	lang.ExtraSymbols = []tsglr.Symbol{TokComment}
	lang.AliasSequences = make([][]tsglr.AliasEntry, aliasBinaryMinus+1)
	lang.AliasSequences[aliasUnaryMinus] = []tsglr.AliasEntry{{Index: 0, Symbol: SymExpr, Named: true}}
	lang.AliasSequences[aliasBinaryMinus] = []tsglr.AliasEntry{{Index: 1, Symbol: SymExpr, Named: true}}

	lang.LexModes = make([]tsglr.LexMode, stateCount)

	// A comment shifts as an extra in every state, leaving the state
	// unchanged.
	for st := stStart; st < stateCount; st++ {
		lang.SetActions(st, TokComment, tsglr.ActionEntry{Actions: []tsglr.ParseAction{{Type: tsglr.ParseActionShift, Extra: true}}})
	}

	operandStart := func(from tsglr.StateID) {
		lang.SetActions(from, TokNumber, tsglr.ActionEntry{Actions: []tsglr.ParseAction{{Type: tsglr.ParseActionShift, State: stHaveNumber}}, Reusable: true})
		lang.SetActions(from, TokIdent, tsglr.ActionEntry{Actions: []tsglr.ParseAction{{Type: tsglr.ParseActionShift, State: stHaveIdent}}, Reusable: true})
		lang.SetActions(from, TokString, tsglr.ActionEntry{Actions: []tsglr.ParseAction{{Type: tsglr.ParseActionShift, State: stHaveString}}, Reusable: true})
		lang.SetActions(from, TokMinus, tsglr.ActionEntry{Actions: []tsglr.ParseAction{{Type: tsglr.ParseActionShift, State: stMinusExpr}}, Reusable: true})
		lang.SetActions(from, TokLParen, tsglr.ActionEntry{Actions: []tsglr.ParseAction{{Type: tsglr.ParseActionShift, State: stAfterLParen}}, Reusable: true})
	}
	operandStart(stStart)
	operandStart(stAfterPlus)
	// stMinusExpr also shifts a leading '-' into the SAME state a
	// reduce later lands on, since a run of unary minuses ("--x") never
	// needs to reduce the inner ones before the outer one does.
	operandStart(stMinusExpr)
	operandStart(stAfterStar)
	operandStart(stAfterSlash)
	operandStart(stAfterLParen)

	// State after a complete operand at the top level: continue with an
	// operator, or accept at end of input.
	lang.SetActions(stAfterOperand, TokPlus, tsglr.ActionEntry{Actions: []tsglr.ParseAction{{Type: tsglr.ParseActionShift, State: stAfterPlus}}, Reusable: true})
	lang.SetActions(stAfterOperand, TokMinus, tsglr.ActionEntry{Actions: []tsglr.ParseAction{{Type: tsglr.ParseActionShift, State: stMinusExpr}}, Reusable: true})
	lang.SetActions(stAfterOperand, TokStar, tsglr.ActionEntry{Actions: []tsglr.ParseAction{{Type: tsglr.ParseActionShift, State: stAfterStar}}, Reusable: true})
	lang.SetActions(stAfterOperand, TokSlash, tsglr.ActionEntry{Actions: []tsglr.ParseAction{{Type: tsglr.ParseActionShift, State: stAfterSlash}}, Reusable: true})
	lang.SetActions(stAfterOperand, tsglr.SymbolEnd, tsglr.ActionEntry{Actions: []tsglr.ParseAction{{Type: tsglr.ParseActionAccept}}})

	// Inside parentheses a complete operand continues with an operator
	// or closes with ')'.
	lang.SetActions(stParenExpr, TokPlus, tsglr.ActionEntry{Actions: []tsglr.ParseAction{{Type: tsglr.ParseActionShift, State: stAfterPlus}}, Reusable: true})
	lang.SetActions(stParenExpr, TokMinus, tsglr.ActionEntry{Actions: []tsglr.ParseAction{{Type: tsglr.ParseActionShift, State: stMinusExpr}}, Reusable: true})
	lang.SetActions(stParenExpr, TokStar, tsglr.ActionEntry{Actions: []tsglr.ParseAction{{Type: tsglr.ParseActionShift, State: stAfterStar}}, Reusable: true})
	lang.SetActions(stParenExpr, TokSlash, tsglr.ActionEntry{Actions: []tsglr.ParseAction{{Type: tsglr.ParseActionShift, State: stAfterSlash}}, Reusable: true})
	lang.SetActions(stParenExpr, TokRParen,tsglr.ActionEntry{Actions: []tsglr.ParseAction{{Type: tsglr.ParseActionShift, State: stAfterRParen}}, Reusable: true})

	leafReduce := func(state tsglr.StateID, childCount uint16) {
		entry := tsglr.ActionEntry{
			Actions:  []tsglr.ParseAction{{Type: tsglr.ParseActionReduce, Symbol: SymExpr, ChildCount: childCount}},
			Reusable: true,
		}
		for _, sym := range followSet() {
			lang.SetActions(state, sym, entry)
		}
	}
	leafReduce(stHaveNumber, 1)
	leafReduce(stHaveIdent, 1)
	leafReduce(stHaveString, 1)
	leafReduce(stBinRHSPlus, 3)
	leafReduce(stBinRHSStar, 3)
	leafReduce(stBinRHSSlash, 3)

	// The paren-close reduce: '(' expr ')' -> expr, childCount 3.
	parenEntry := tsglr.ActionEntry{Actions: []tsglr.ParseAction{{Type: tsglr.ParseActionReduce, Symbol: SymExpr, ChildCount: 3}}}
	for _, sym := range followSet() {
		lang.SetActions(stAfterRParen, sym, parenEntry)
	}

	// The ambiguous minus state: unary_expr (childCount 2, higher
	// dyn_precedence) competes with binary_expr (childCount 3). When
	// only one interpretation has enough stack depth to succeed, the
	// other silently pops nothing (ParseStack.popFrom on too few links
	// returns no slices) and the driver drops its forked version.
	minusEntry := tsglr.ActionEntry{Actions: []tsglr.ParseAction{
		{Type: tsglr.ParseActionReduce, Symbol: SymExpr, ChildCount: 2, DynPrecedence: 3, AliasSequence: aliasUnaryMinus},
		{Type: tsglr.ParseActionReduce, Symbol: SymExpr, ChildCount: 3, DynPrecedence: 1, AliasSequence: aliasBinaryMinus},
	}}
	for _, sym := range followSet() {
		lang.SetActions(stMinusExpr, sym, minusEntry)
	}

	// Synchronizing tokens recover at ErrorState rather than being
	// skipped one codepoint at a time; an operator or end-of-input is a
	// plausible place to resume.
	recoverEntry := tsglr.ActionEntry{Actions: []tsglr.ParseAction{{Type: tsglr.ParseActionRecover}}}
	for _, sym := range followSet() {
		lang.SetActions(tsglr.ErrorState, sym, recoverEntry)
	}

	// goto_ table: which state a reduced expr lands in, keyed by the
	// state it was reduced FROM (the predecessor revealed by popping).
	lang.SetGoto(stStart, SymExpr, stAfterOperand)
	lang.SetGoto(stAfterPlus, SymExpr, stBinRHSPlus)
	lang.SetGoto(stMinusExpr, SymExpr, stMinusExpr)
	lang.SetGoto(stAfterStar, SymExpr, stBinRHSStar)
	lang.SetGoto(stAfterSlash, SymExpr, stBinRHSSlash)
	lang.SetGoto(stAfterLParen, SymExpr, stParenExpr)

	return lang
}

// sourceCursor tracks byte offset and (row, column) through src,
// adapted from the teacher's generic_lexer.go sourceCursor shape.
type sourceCursor struct {
	src    []byte
	offset int
	row    uint32
	col    uint32
}

func newSourceCursor(src []byte) sourceCursor { return sourceCursor{src: src} }

func (c *sourceCursor) eof() bool { return c.offset >= len(c.src) }

func (c *sourceCursor) peekByte() byte {
	if c.eof() {
		return 0
	}
	return c.src[c.offset]
}

func (c *sourceCursor) advanceByte() {
	if c.eof() {
		return
	}
	if c.src[c.offset] == '\n' {
		c.row++
		c.col = 0
	} else {
		c.col++
	}
	c.offset++
}

func (c *sourceCursor) advanceRune() {
	if c.eof() {
		return
	}
	b := c.src[c.offset]
	n := 1
	switch {
	case b&0x80 == 0:
		n = 1
	case b&0xE0 == 0xC0:
		n = 2
	case b&0xF0 == 0xE0:
		n = 3
	case b&0xF8 == 0xF0:
		n = 4
	}
	for i := 0; i < n; i++ {
		c.advanceByte()
	}
}

func (c *sourceCursor) point() tsglr.Point { return tsglr.Point{Row: c.row, Column: c.col} }

func (c *sourceCursor) skipWhitespace() {
	for !c.eof() {
		switch c.peekByte() {
		case ' ', '\t', '\r', '\n':
			c.advanceByte()
		default:
			return
		}
	}
}

func isASCIIDigit(b byte) bool { return b >= '0' && b <= '9' }
func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
func isIdentPart(b byte) bool { return isIdentStart(b) || isASCIIDigit(b) }

// DemoTokenSource is the "internal lex function" role (component E) for
// the demo grammar: it implements tsglr.TokenSource and
// tsglr.ByteSkippableTokenSource directly, rather than going through
// Language.LexFn/ExternalLexer, matching how a caller-supplied
// TokenSource is used in this core's test suite.
type DemoTokenSource struct {
	src  []byte
	cur  sourceCursor
	done bool
}

// NewDemoTokenSource builds a token source over src. lang is accepted
// for symmetry with the teacher's constructor shape but unused: the
// demo grammar's symbol ids are fixed constants, not looked up by name.
func NewDemoTokenSource(src []byte, lang *tsglr.Language) *DemoTokenSource {
	_ = lang
	return &DemoTokenSource{src: src, cur: newSourceCursor(src)}
}

func (ts *DemoTokenSource) Next() tsglr.Token {
	if ts.done {
		return ts.eofToken()
	}
	for {
		ts.cur.skipWhitespace()
		if ts.cur.eof() {
			ts.done = true
			return ts.eofToken()
		}
		if ts.matchAt("//") {
			return ts.lineComment()
		}
		b := ts.cur.peekByte()
		switch {
		case isASCIIDigit(b):
			return ts.number()
		case isIdentStart(b):
			return ts.identifier()
		case b == '"':
			return ts.string()
		}
		if tok, ok := ts.literal(); ok {
			return tok
		}
		return ts.errorByte()
	}
}

// SkipToByte fast-forwards past offset, used by the reuse cursor when a
// whole previous subtree is accepted unchanged.
func (ts *DemoTokenSource) SkipToByte(offset uint32) tsglr.Token {
	target := int(offset)
	if target > len(ts.src) {
		target = len(ts.src)
	}
	if target < ts.cur.offset {
		ts.cur = newSourceCursor(ts.src)
	}
	for ts.cur.offset < target {
		ts.cur.advanceByte()
	}
	ts.done = false
	return ts.Next()
}

func (ts *DemoTokenSource) matchAt(lit string) bool {
	if ts.cur.offset+len(lit) > len(ts.src) {
		return false
	}
	return string(ts.src[ts.cur.offset:ts.cur.offset+len(lit)]) == lit
}

func (ts *DemoTokenSource) lineComment() tsglr.Token {
	start, startPt := ts.cur.offset, ts.cur.point()
	for !ts.cur.eof() && ts.cur.peekByte() != '\n' {
		ts.cur.advanceByte()
	}
	return ts.token(TokComment, start, startPt)
}

func (ts *DemoTokenSource) number() tsglr.Token {
	start, startPt := ts.cur.offset, ts.cur.point()
	for !ts.cur.eof() && isASCIIDigit(ts.cur.peekByte()) {
		ts.cur.advanceByte()
	}
	if !ts.cur.eof() && ts.cur.peekByte() == '.' {
		ts.cur.advanceByte()
		for !ts.cur.eof() && isASCIIDigit(ts.cur.peekByte()) {
			ts.cur.advanceByte()
		}
	}
	return ts.token(TokNumber, start, startPt)
}

func (ts *DemoTokenSource) identifier() tsglr.Token {
	start, startPt := ts.cur.offset, ts.cur.point()
	for !ts.cur.eof() && isIdentPart(ts.cur.peekByte()) {
		ts.cur.advanceByte()
	}
	return ts.token(TokIdent, start, startPt)
}

// string scans a double-quoted literal with backslash escapes; the
// whole quoted run (including quotes and escapes) is one STRING token,
// matching stringSym-only handling in the teacher's scanWholeString.
func (ts *DemoTokenSource) string() tsglr.Token {
	start, startPt := ts.cur.offset, ts.cur.point()
	ts.cur.advanceByte()
	for !ts.cur.eof() {
		switch ts.cur.peekByte() {
		case '\\':
			ts.cur.advanceByte()
			if !ts.cur.eof() {
				ts.cur.advanceRune()
			}
		case '"':
			ts.cur.advanceByte()
			return ts.token(TokString, start, startPt)
		default:
			ts.cur.advanceRune()
		}
	}
	return ts.token(TokString, start, startPt)
}

var literals = []struct {
	text string
	sym  tsglr.Symbol
}{
	{"+", TokPlus}, {"-", TokMinus}, {"*", TokStar}, {"/", TokSlash},
	{"(", TokLParen}, {")", TokRParen},
}

func (ts *DemoTokenSource) literal() (tsglr.Token, bool) {
	for _, lit := range literals {
		if ts.matchAt(lit.text) {
			start, startPt := ts.cur.offset, ts.cur.point()
			for i := 0; i < len(lit.text); i++ {
				ts.cur.advanceByte()
			}
			return ts.token(lit.sym, start, startPt), true
		}
	}
	return tsglr.Token{}, false
}

func (ts *DemoTokenSource) errorByte() tsglr.Token {
	start, startPt := ts.cur.offset, ts.cur.point()
	ts.cur.advanceRune()
	return ts.token(tsglr.SymbolError, start, startPt)
}

func (ts *DemoTokenSource) token(sym tsglr.Symbol, start int, startPt tsglr.Point) tsglr.Token {
	return tsglr.Token{
		Symbol:     sym,
		StartByte:  uint32(start),
		EndByte:    uint32(ts.cur.offset),
		StartPoint: startPt,
		EndPoint:   ts.cur.point(),
		Text:       string(ts.src[start:ts.cur.offset]),
	}
}

func (ts *DemoTokenSource) eofToken() tsglr.Token {
	n := uint32(len(ts.src))
	pt := ts.cur.point()
	return tsglr.Token{Symbol: tsglr.SymbolEnd, StartByte: n, EndByte: n, StartPoint: pt, EndPoint: pt}
}

// SymbolName is a small convenience the package's tests use for
// readable failure messages.
func SymbolName(lang *tsglr.Language, sym tsglr.Symbol) string {
	if lang == nil || int(sym) >= len(lang.SymbolNames) {
		return "?"
	}
	name := lang.SymbolNames[sym]
	if name == "" {
		return "?"
	}
	return name
}
