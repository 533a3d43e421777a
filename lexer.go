package tsglr

import (
	"io"
	"unicode/utf8"

	"github.com/ianlewis/runeio"
)

// lexEOF is the sentinel ExternalLexer.Lookahead returns once the
// cursor has reached the end of input.
const lexEOF rune = -1

// ExternalLexer is the narrow vtable an external scanner or the
// generated internal lex function is driven through (spec §6): only
// advance, result-symbol assignment, and position bookkeeping are
// exposed; grammar code never sees the driver's internals.
//
// Grounded on external_vm.go's ExternalVMScanner.Scan call shape
// (Lookahead/Advance/MarkEnd/SetResultSymbol), made concrete here
// since the teacher's retrieval did not include the file defining it.
type ExternalLexer struct {
	src []byte

	startOffset uint32
	startPoint  Point
	offset      uint32
	point       Point

	endOffset uint32
	endPoint  Point

	resultSymbol Symbol
	hasResult    bool

	// maxOffset tracks the furthest byte index touched, even past what
	// MarkEnd recorded, to compute bytes_scanned (spec §4.E).
	maxOffset uint32
}

func newExternalLexer(src []byte, startOffset uint32, startRow, startCol uint32) *ExternalLexer {
	p := Point{Row: startRow, Column: startCol}
	return &ExternalLexer{
		src:         src,
		startOffset: startOffset,
		startPoint:  p,
		offset:      startOffset,
		point:       p,
		maxOffset:   startOffset,
	}
}

// Lookahead returns the rune at the current position, or lexEOF.
func (l *ExternalLexer) Lookahead() rune {
	if int(l.offset) >= len(l.src) {
		return lexEOF
	}
	r, _ := utf8.DecodeRune(l.src[l.offset:])
	return r
}

// Advance consumes the current lookahead rune. skip marks the rune as
// insignificant (whitespace between tokens); both cases move the
// cursor, matching tree-sitter's lexer.advance semantics closely
// enough for this core's purposes (the distinction only matters to
// callers that inspect padding, which the driver computes separately
// from the token's StartByte).
func (l *ExternalLexer) Advance(skip bool) {
	if int(l.offset) >= len(l.src) {
		return
	}
	r, size := utf8.DecodeRune(l.src[l.offset:])
	l.offset += uint32(size)
	if r == '\n' {
		l.point = Point{Row: l.point.Row + 1, Column: 0}
	} else {
		l.point.Column += uint32(size)
	}
	if l.offset > l.maxOffset {
		l.maxOffset = l.offset
	}
	_ = skip
}

// MarkEnd records the current position as the token's end.
func (l *ExternalLexer) MarkEnd() {
	l.endOffset = l.offset
	l.endPoint = l.point
}

// SetResultSymbol commits a successful scan.
func (l *ExternalLexer) SetResultSymbol(sym Symbol) {
	l.resultSymbol = sym
	l.hasResult = true
	if l.endOffset == 0 && l.endOffset < l.offset {
		l.MarkEnd()
	}
}

// token converts a successful scan into a Token.
func (l *ExternalLexer) token() (Token, bool) {
	if !l.hasResult {
		return Token{}, false
	}
	end := l.endOffset
	if end == 0 && l.offset > l.startOffset {
		end = l.offset
	}
	return Token{
		Symbol:       l.resultSymbol,
		StartByte:    l.startOffset,
		EndByte:      end,
		StartPoint:   l.startPoint,
		EndPoint:     l.endPoint,
		Text:         string(l.src[l.startOffset:end]),
		BytesScanned: l.maxOffset - l.startOffset,
	}, true
}

// TokenSource is the "internal lex function" role when a caller
// supplies a hand-written tokenizer instead of a Language.LexFn driven
// through ExternalLexer (spec §6 Input / §4.E).
type TokenSource interface {
	Next() Token
}

// ByteSkippableTokenSource lets the reuse cursor (component C) fast
// forward a TokenSource to a byte offset without relexing every
// intervening token, used when a previous subtree is reused wholesale.
type ByteSkippableTokenSource interface {
	TokenSource
	SkipToByte(offset uint32) Token
}

// lexerAdapter drives the internal lex function / external scanner and
// produces leaf subtrees (component E), consulting the reuse cursor
// and token cache first.
type lexerAdapter struct {
	source []byte
	lang   *Language
	pool   *nodeArena

	tokenSource TokenSource

	extPayload      any
	extScannerOwned bool

	cache tokenCache
}

func newLexerAdapter(source []byte, lang *Language, pool *nodeArena, ts TokenSource) *lexerAdapter {
	a := &lexerAdapter{source: source, lang: lang, pool: pool, tokenSource: ts}
	if lang != nil && lang.External != nil {
		a.extPayload = lang.External.Create()
		a.extScannerOwned = true
	}
	return a
}

func (a *lexerAdapter) close() {
	if a.extScannerOwned && a.lang.External != nil {
		a.lang.External.Destroy(a.extPayload)
	}
	a.cache.reset()
}

// lex implements spec §4.E: try external tokens first when enabled,
// else the internal lex function/token source; on failure switch to
// error-recovery lexing, skipping one codepoint at a time.
func (a *lexerAdapter) lex(pos uint32, mode LexMode, lastExternalState []byte, errorMode bool) Token {
	if tok, ok := a.tryExternal(pos, mode, lastExternalState, errorMode); ok {
		return tok
	}

	if tok, ok := a.tryInternal(pos, mode); ok {
		return tok
	}

	if !errorMode {
		return a.lex(pos, LexMode{LexState: mode.LexState, ExternalLexState: mode.ExternalLexState}, lastExternalState, true)
	}
	return a.errorRecoveryToken(pos)
}

func (a *lexerAdapter) tryExternal(pos uint32, mode LexMode, lastExternalState []byte, errorMode bool) (Token, bool) {
	if a.lang == nil || a.lang.External == nil {
		return Token{}, false
	}
	valid := a.lang.EnabledExternalTokens(mode.ExternalLexState)
	if valid == nil {
		return Token{}, false
	}
	if len(lastExternalState) > 0 {
		a.lang.External.Deserialize(a.extPayload, lastExternalState)
	} else {
		a.lang.External.Deserialize(a.extPayload, nil)
	}

	lexer := newExternalLexer(a.source, pos, 0, 0)
	if !a.lang.External.Scan(a.extPayload, lexer, valid) {
		return Token{}, false
	}
	tok, ok := lexer.token()
	if !ok {
		return Token{}, false
	}
	if !errorMode && tok.EndByte == tok.StartByte {
		return Token{}, false
	}
	buf := make([]byte, 64)
	n := a.lang.External.Serialize(a.extPayload, buf)
	tok.External = true
	tok.ExternalState = append([]byte(nil), buf[:n]...)
	return tok, true
}

func (a *lexerAdapter) tryInternal(pos uint32, mode LexMode) (Token, bool) {
	if a.lang != nil && a.lang.LexFn != nil {
		lexer := newExternalLexer(a.source, pos, 0, 0)
		if a.lang.LexFn(lexer, mode.LexState) {
			if tok, ok := lexer.token(); ok {
				return tok, true
			}
		}
		return Token{}, false
	}
	if a.tokenSource == nil {
		return Token{}, false
	}
	tok := a.tokenSource.Next()
	if tok.StartByte < pos {
		// The token source returned something that starts before where
		// we already consumed up to; it is out of sync with pos, not
		// just reporting ordinary skipped padding ahead of pos.
		return Token{}, false
	}
	return tok, true
}

// skipTo fast-forwards a stateful TokenSource to byte offset and
// returns the next token it produces from there, used when the
// reusable-node cursor (component C) accepts a whole previous subtree
// and the lexer must resume lexing only after it instead of re-scanning
// bytes the reused subtree already covered. Reports false when there is
// no persistent TokenSource to resynchronize: a LexFn- or external-
// scanner-driven language always lexes at an explicit position already,
// so skipping ahead is meaningless for it.
func (a *lexerAdapter) skipTo(offset uint32) (Token, bool) {
	if a.tokenSource == nil {
		return Token{}, false
	}
	if skipper, ok := a.tokenSource.(ByteSkippableTokenSource); ok {
		return skipper.SkipToByte(offset), true
	}
	var tok Token
	for {
		tok = a.tokenSource.Next()
		if tok.Symbol == SymbolEnd || tok.StartByte >= offset {
			return tok, true
		}
	}
}

// errorRecoveryToken returns an error token covering the one codepoint
// at pos (spec §4.E point 4); it does not merge consecutive skipped
// codepoints into one range. On EOF it produces the error-leaf builtin
// spanning zero bytes.
func (a *lexerAdapter) errorRecoveryToken(pos uint32) Token {
	if int(pos) >= len(a.source) {
		return Token{Symbol: SymbolError, StartByte: pos, EndByte: pos}
	}
	r := runeio.NewReader(sliceReader{a.source[pos:]})
	ch, size, err := r.ReadRune()
	if err != nil {
		return Token{Symbol: SymbolError, StartByte: pos, EndByte: pos + 1}
	}
	return Token{Symbol: SymbolError, StartByte: pos, EndByte: pos + uint32(size), Text: string(ch)}
}

// sliceReader adapts a []byte into an io.Reader for runeio, used only
// by the error-recovery codepoint skip above.
type sliceReader struct{ b []byte }

func (s sliceReader) Read(p []byte) (int, error) {
	if len(s.b) == 0 {
		return 0, io.EOF
	}
	n := copy(p, s.b)
	return n, nil
}
