// Package tsglr implements the core of an incremental GLR parser runtime:
// a graph-structured parse stack, a driver that interleaves lexing, action
// lookup, shift/reduce/error-recovery and version condensation, and a
// subtree model with reference counting and slab allocation.
//
// The package consumes a language description (a parse table with
// conflict actions) and an input; it does not generate parse tables,
// does not implement a query language over finished trees, and does not
// normalize Unicode input. Those are external collaborators.
package tsglr

// Symbol is a grammar symbol id: a terminal, nonterminal, or one of the
// small set of builtin symbols (end-of-input, error leaf, ...).
type Symbol uint16

// StateID is an index into the language's LR action/goto tables.
type StateID uint16

// FieldID names a grammar field (a labeled child position); 0 means "no
// field".
type FieldID uint16

// AliasSequenceID indexes into the language's alias_sequences table; 0
// means "no alias sequence" (children keep their own names).
type AliasSequenceID uint16

const (
	// SymbolEnd is the builtin end-of-input terminal.
	SymbolEnd Symbol = 0
	// SymbolError is the builtin error-leaf symbol used by make_error.
	SymbolError Symbol = 1
	// SymbolErrorNode is the builtin symbol naming an ERROR interior node.
	SymbolErrorNode Symbol = 2
	// FirstUserSymbol is the first symbol id a language table may assign
	// to a real grammar terminal or nonterminal.
	FirstUserSymbol Symbol = 3
)

const (
	// StateIDNone marks a subtree as "fragile" / not created under a
	// specific state (spec invariant: fragile_left||fragile_right implies
	// parse_state == NONE).
	StateIDNone StateID = 0xFFFF
	// InitialState is the LR state a fresh parse (and a fresh GLR stack
	// version) begins in.
	InitialState StateID = 0
	// ErrorState is the sentinel "currently recovering" state. Every
	// token shifts in this state; shifting in it costs error budget.
	ErrorState StateID = 0xFFFE
)

// Point is a zero-based (row, column) source position; column is a byte
// offset within the row unless the caller's language counts differently.
type Point struct {
	Row    uint32
	Column uint32
}

// Extent is the (bytes, chars, row/column) triple the spec uses for both
// padding and size. Chars counts Unicode scalar values, not bytes.
type Extent struct {
	Bytes uint32
	Chars uint32
	Point Point
}

// Add returns the extent reached by concatenating a then b.
func (a Extent) Add(b Extent) Extent {
	out := Extent{Bytes: a.Bytes + b.Bytes, Chars: a.Chars + b.Chars}
	if b.Point.Row > 0 {
		out.Point = Point{Row: a.Point.Row + b.Point.Row, Column: b.Point.Column}
	} else {
		out.Point = Point{Row: a.Point.Row, Column: a.Point.Column + b.Point.Column}
	}
	return out
}

// Token is what the lexer adapter (component E) hands back to the
// driver before it is wrapped into a leaf Node: a symbol plus the byte
// and point range it occupies, with enough text to let tests and the
// external-scanner VM observe exactly what was scanned.
type Token struct {
	Symbol     Symbol
	StartByte  uint32
	EndByte    uint32
	StartPoint Point
	EndPoint   Point
	// Text is the scanned lexeme. It is not part of the core data model
	// (Subtrees never retain it) but is convenient for token sources and
	// tests to inspect.
	Text string
	// External is set when this token was produced by an external
	// scanner; ExternalState then holds its serialized scanner state.
	External      bool
	ExternalState []byte
	// BytesScanned is how far the lexer advanced while producing this
	// token, which may exceed EndByte-StartByte when the scanner peeked
	// past the token (spec §4.E).
	BytesScanned uint32
}

// ParseActionType tags the variant of a ParseAction (spec §6).
type ParseActionType uint8

const (
	ParseActionShift ParseActionType = iota
	ParseActionReduce
	ParseActionAccept
	ParseActionRecover
)

// ParseAction is one entry in a (state, symbol) action list. Depending
// on Type, only a subset of the remaining fields is meaningful:
//   - Shift: State, Extra
//   - Reduce: Symbol, ChildCount, DynPrecedence, AliasSequence, Fragile, Extra
//   - Accept, Recover: no further fields
type ParseAction struct {
	Type ParseActionType

	// Shift
	State StateID
	Extra bool

	// Reduce
	Symbol        Symbol
	ChildCount    uint16
	DynPrecedence int32
	AliasSequence AliasSequenceID
	Fragile       bool
}

// ActionEntry is the language table's answer for one (state, symbol)
// pair: a possibly-ambiguous list of actions, plus the two bits the
// driver and the reuse cursor need without re-deriving them from the
// action list (spec §4.F).
type ActionEntry struct {
	Actions            []ParseAction
	DependsOnLookahead bool
	Reusable           bool
}

// LexMode names which internal lex state and external lex state a
// given LR state lexes with (spec §4.F / §6).
type LexMode struct {
	LexState         uint16
	ExternalLexState uint16
}
