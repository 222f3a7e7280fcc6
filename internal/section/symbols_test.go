package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sicxeasm/assembler/internal/ast"
	"github.com/sicxeasm/assembler/internal/diag"
)

func minimalProgram() *Section {
	s := New("COPY")
	s.AddInstruction(&ast.Instruction{Symbol: "COPY", Mnemonic: "START", Operand: "1000", Format: ast.FormatDirective})
	s.AddInstruction(&ast.Instruction{Mnemonic: "LDA", Operand: "ZERO", Format: ast.Format3})
	s.AddInstruction(&ast.Instruction{Symbol: "ZERO", Mnemonic: "WORD", Operand: "0", Format: ast.FormatDirective})
	s.AddInstruction(&ast.Instruction{Mnemonic: "END", Operand: "COPY", Format: ast.FormatDirective})
	return s
}

func TestPrepopulateSymbols(t *testing.T) {
	s := minimalProgram()
	s.prepopulateSymbols()

	assert.Contains(t, s.SymbolTable, "COPY")
	assert.Contains(t, s.SymbolTable, "ZERO")
	assert.False(t, s.SymbolTable["ZERO"].Resolved())
}

func TestPrepopulateSymbolsExtdefExtref(t *testing.T) {
	s := New("B")
	s.AddInstruction(&ast.Instruction{Mnemonic: "EXTDEF", Operand: "BUFFER,LENGTH"})
	s.AddInstruction(&ast.Instruction{Mnemonic: "EXTREF", Operand: "RDREC"})
	s.prepopulateSymbols()

	assert.Contains(t, s.ExtdefTable, "BUFFER")
	assert.Contains(t, s.ExtdefTable, "LENGTH")
	require.Contains(t, s.ExtrefTable, "RDREC")
	assert.True(t, s.ExtrefTable["RDREC"].IsExternal)
	assert.Equal(t, uint32(0), *s.ExtrefTable["RDREC"].Addr)
}

func TestResolveSymbolsMinimalProgram(t *testing.T) {
	s := minimalProgram()
	s.prepopulateSymbols()

	require.NoError(t, s.resolveSymbols())

	assert.Equal(t, uint32(0x1000), *s.SymbolTable["COPY"].Addr)
	assert.Equal(t, uint32(0x1003), *s.SymbolTable["ZERO"].Addr)
}

func TestResolveSymbolsForwardReference(t *testing.T) {
	// An unlabeled WORD references FORWARD before it is defined; the
	// walk still places FORWARD after START 0 and one 3-byte WORD.
	s := New("FWD")
	s.AddInstruction(&ast.Instruction{Symbol: "FWD", Mnemonic: "START", Operand: "0"})
	s.AddInstruction(&ast.Instruction{Mnemonic: "WORD", Operand: "FORWARD"})
	s.AddInstruction(&ast.Instruction{Symbol: "FORWARD", Mnemonic: "WORD", Operand: "0"})
	s.AddInstruction(&ast.Instruction{Mnemonic: "END", Operand: "FWD"})
	s.prepopulateSymbols()

	require.NoError(t, s.resolveSymbols())
	assert.Equal(t, uint32(3), *s.SymbolTable["FORWARD"].Addr)
}

func TestFinalizeExternsMissingDefinition(t *testing.T) {
	s := New("B")
	s.AddInstruction(&ast.Instruction{Mnemonic: "EXTDEF", Operand: "UNDEFINED"})
	s.prepopulateSymbols()

	err := s.finalizeExterns()
	require.Error(t, err)

	var derr *diag.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, diag.KindUndefinedExternalDefinition, derr.Kind)
}

func TestFinalizeExternsCopiesAddress(t *testing.T) {
	s := New("A")
	s.AddInstruction(&ast.Instruction{Symbol: "BUFFER", Mnemonic: "START", Operand: "1000"})
	s.AddInstruction(&ast.Instruction{Mnemonic: "EXTDEF", Operand: "BUFFER"})
	s.AddInstruction(&ast.Instruction{Mnemonic: "END"})
	s.prepopulateSymbols()
	require.NoError(t, s.resolveSymbols())
	require.NoError(t, s.finalizeExterns())

	assert.Equal(t, uint32(0x1000), *s.ExtdefTable["BUFFER"].Addr)
}
