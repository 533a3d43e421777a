package tsglr

import "testing"

func TestExternalVMScannerEmitsSingleToken(t *testing.T) {
	scanner := MustNewExternalVMScanner(ExternalVMProgram{
		Symbols: []Symbol{Symbol(2)},
		Code: []ExternalVMInstr{
			VMRequireValid(0, 5),
			VMIfRuneEq('#', 5),
			VMAdvance(false),
			VMMarkEnd(),
			VMEmit(Symbol(2)),
			VMFail(),
		},
	})

	if got := scanner.SymbolCount(); got != 1 {
		t.Fatalf("SymbolCount() = %d, want 1", got)
	}
	if got := scanner.ExternalSymbol(0); got != Symbol(2) {
		t.Fatalf("ExternalSymbol(0) = %d, want %d", got, Symbol(2))
	}

	payload := scanner.Create()
	lexer := newExternalLexer([]byte("#"), 0, 0, 0)

	if !scanner.Scan(payload, lexer, []bool{true}) {
		t.Fatal("expected scan success")
	}
	tok, ok := lexer.token()
	if !ok {
		t.Fatal("expected token after scan")
	}
	if tok.Symbol != Symbol(2) {
		t.Fatalf("token symbol = %d, want %d", tok.Symbol, Symbol(2))
	}
	if tok.Text != "#" {
		t.Fatalf("token text = %q, want %q", tok.Text, "#")
	}
}

func TestExternalVMScannerGatesOnValidSymbolSlot(t *testing.T) {
	scanner := MustNewExternalVMScanner(ExternalVMProgram{
		Symbols: []Symbol{Symbol(2), Symbol(3)},
		Code: []ExternalVMInstr{
			VMRequireValid(1, 5),
			VMIfRuneEq('#', 5),
			VMAdvance(false),
			VMMarkEnd(),
			VMEmit(Symbol(3)),
			VMFail(),
		},
	})

	payload := scanner.Create()

	if scanner.Scan(payload, newExternalLexer([]byte("#"), 0, 0, 0), []bool{true, false}) {
		t.Fatal("expected scan failure when only the other slot is valid")
	}
	if !scanner.Scan(payload, newExternalLexer([]byte("#"), 0, 0, 0), []bool{false, true}) {
		t.Fatal("expected scan success once its own slot is valid")
	}
}

func TestExternalVMScannerStateRoundTripsAcrossCalls(t *testing.T) {
	scanner := MustNewExternalVMScanner(ExternalVMProgram{
		Symbols: []Symbol{Symbol(10), Symbol(11)},
		Code: []ExternalVMInstr{
			VMIfRuneEq('[', 5),
			VMAdvance(false),
			VMMarkEnd(),
			VMSetState(1),
			VMEmit(Symbol(10)),
			VMRequireStateEq(1, 10),
			VMIfRuneEq(']', 10),
			VMAdvance(false),
			VMMarkEnd(),
			VMEmit(Symbol(11)),
			VMFail(),
		},
	})

	openPayload := scanner.Create()
	openLexer := newExternalLexer([]byte("["), 0, 0, 0)
	if !scanner.Scan(openPayload, openLexer, nil) {
		t.Fatal("expected open-bracket scan to succeed")
	}
	if openToken, ok := openLexer.token(); !ok || openToken.Symbol != Symbol(10) {
		t.Fatalf("open token = %+v, ok=%v, want symbol %d", openToken, ok, Symbol(10))
	}

	buf := make([]byte, 8)
	if n := scanner.Serialize(openPayload, buf); n != 4 {
		t.Fatalf("Serialize wrote %d bytes, want 4", n)
	}

	closePayload := scanner.Create()
	scanner.Deserialize(closePayload, buf[:4])
	closeLexer := newExternalLexer([]byte("]"), 0, 0, 0)
	if !scanner.Scan(closePayload, closeLexer, nil) {
		t.Fatal("expected close-bracket scan to succeed once state is restored")
	}
	if closeToken, ok := closeLexer.token(); !ok || closeToken.Symbol != Symbol(11) {
		t.Fatalf("close token = %+v, ok=%v, want symbol %d", closeToken, ok, Symbol(11))
	}

	freshPayload := scanner.Create()
	if scanner.Scan(freshPayload, newExternalLexer([]byte("]"), 0, 0, 0), nil) {
		t.Fatal("expected close-bracket scan to fail against a fresh, never-opened state")
	}
}

func TestExternalVMScannerStepLimitFailsClosed(t *testing.T) {
	scanner := MustNewExternalVMScanner(ExternalVMProgram{
		Code:     []ExternalVMInstr{VMJump(0)},
		MaxSteps: 8,
	})

	if scanner.Scan(scanner.Create(), newExternalLexer([]byte("#"), 0, 0, 0), []bool{true}) {
		t.Fatal("expected an infinite-jump program to fail once MaxSteps is hit")
	}
}

func TestNewExternalVMScannerRejectsOutOfRangeJump(t *testing.T) {
	if _, err := NewExternalVMScanner(ExternalVMProgram{Code: []ExternalVMInstr{VMJump(1)}}); err == nil {
		t.Fatal("expected an out-of-range jump target to be rejected at construction")
	}
}
