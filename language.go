package tsglr

import "fmt"

// ExternalScanner is the optional record of callbacks an external
// scanner supplies (spec §6). All methods are invoked on the parser's
// single thread; Create/Destroy own the opaque payload returned by
// Create, and Serialize/Deserialize round-trip it around every use so
// the scanner never observes hidden state across a stack rewind.
type ExternalScanner interface {
	Create() any
	Destroy(payload any)
	Scan(payload any, lexer *ExternalLexer, validSymbols []bool) bool
	Serialize(payload any, buf []byte) int
	Deserialize(payload any, buf []byte)
	// SymbolCount reports how many external token slots validSymbols
	// indexes; ExternalSymbol maps slot i to this language's Symbol.
	SymbolCount() int
	ExternalSymbol(slot int) Symbol
}

// Language is the read-only accessor (spec §4.F/§6) over a parse
// table: states, actions, lex modes, and symbol metadata. Built
// programmatically via NewLanguage rather than deserialized from a
// binary blob, since table generation is out of scope (SPEC_FULL §4.I).
type Language struct {
	StateCount  int
	TokenCount  int
	SymbolCount int

	actions map[actionKey]ActionEntry
	goto_   map[actionKey]StateID

	LexModes []LexMode
	LexFn    func(lexer *ExternalLexer, lexState uint16) bool

	External ExternalScanner
	// ExternalEnabled maps an external lex state to the bitvector of
	// externally-producible symbols valid in it; nil means "no
	// external tokens enabled in this state".
	ExternalEnabled map[uint16][]bool

	SymbolNames    []string
	Visible        []bool
	Named          []bool
	AliasSequences [][]AliasEntry
	ExtraSymbols   []Symbol
}

// AliasEntry names the alias applied to one position of a reduction's
// children when AliasSequenceID selects this sequence.
type AliasEntry struct {
	Index  int
	Symbol Symbol
	Named  bool
}

type actionKey struct {
	state  StateID
	symbol Symbol
}

// NewLanguage builds a Language from the tables a grammar-specific
// package (e.g. this module's grammars package) assembles in Go.
func NewLanguage(stateCount, tokenCount, symbolCount int) *Language {
	return &Language{
		StateCount:  stateCount,
		TokenCount:  tokenCount,
		SymbolCount: symbolCount,
		actions:     make(map[actionKey]ActionEntry),
		goto_:       make(map[actionKey]StateID),
	}
}

// SetActions registers the action list for (state, symbol).
func (l *Language) SetActions(state StateID, symbol Symbol, entry ActionEntry) {
	l.actions[actionKey{state, symbol}] = entry
}

// SetGoto registers next_state(state, symbol) for a nonterminal goto.
func (l *Language) SetGoto(state StateID, symbol Symbol, next StateID) {
	l.goto_[actionKey{state, symbol}] = next
}

// Actions returns the action entry for (state, symbol), or the zero
// entry if none exists.
func (l *Language) Actions(state StateID, symbol Symbol) ActionEntry {
	return l.actions[actionKey{state, symbol}]
}

// NextState implements next_state(state, symbol) for both shift
// (terminal) and goto (nonterminal) transitions.
func (l *Language) NextState(state StateID, symbol Symbol) (StateID, bool) {
	if next, ok := l.goto_[actionKey{state, symbol}]; ok {
		return next, true
	}
	entry := l.Actions(state, symbol)
	for _, a := range entry.Actions {
		if a.Type == ParseActionShift {
			return a.State, true
		}
	}
	return 0, false
}

// LexMode returns the lex mode for state, or the zero mode if state is
// out of range.
func (l *Language) LexMode(state StateID) LexMode {
	if int(state) < len(l.LexModes) {
		return l.LexModes[state]
	}
	return LexMode{}
}

// EnabledExternalTokens returns the bitvector of external-token slots
// valid in externalLexState, or nil if none are enabled.
func (l *Language) EnabledExternalTokens(externalLexState uint16) []bool {
	return l.ExternalEnabled[externalLexState]
}

// SymbolByName does a linear scan over SymbolNames (tables in this
// package are small; an index is not justified, spec §4.I).
func (l *Language) SymbolByName(name string) (Symbol, bool) {
	for i, n := range l.SymbolNames {
		if n == name {
			return Symbol(i), true
		}
	}
	return 0, false
}

// Validate does a light sanity check used by tests and by callers
// assembling a Language by hand.
func (l *Language) Validate() error {
	if l.StateCount <= 0 {
		return fmt.Errorf("tsglr: language has no states")
	}
	if l.SymbolCount <= 0 {
		return fmt.Errorf("tsglr: language has no symbols")
	}
	return nil
}
