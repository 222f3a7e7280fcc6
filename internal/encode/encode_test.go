package encode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sicxeasm/assembler/internal/ast"
)

// fakeState is a minimal in-memory SectionState for encoder tests,
// standing in for *section.Section without importing it (the encoder
// never does, to avoid the import cycle the design notes call out).
type fakeState struct {
	symbols map[string]uint32
	externs map[string]uint32
	base    uint32
	mods    []modCall
}

type modCall struct {
	location uint32
	length   uint8
	sign     byte
	ref      string
}

func newFakeState() *fakeState {
	return &fakeState{symbols: map[string]uint32{}, externs: map[string]uint32{}}
}

func (f *fakeState) LookupSymbolAddr(name string) (uint32, bool) {
	v, ok := f.symbols[name]
	return v, ok
}
func (f *fakeState) LookupExternalAddr(name string) (uint32, bool) {
	v, ok := f.externs[name]
	return v, ok
}
func (f *fakeState) BaseValue() uint32      { return f.base }
func (f *fakeState) SetBaseValue(v uint32)  { f.base = v }
func (f *fakeState) ModificationRecordExists(location uint32, reference string) bool {
	for _, m := range f.mods {
		if m.location == location && m.ref == reference {
			return true
		}
	}
	return false
}
func (f *fakeState) AddModificationRecord(location uint32, length uint8, sign byte, reference string) {
	f.mods = append(f.mods, modCall{location, length, sign, reference})
}

func TestGenerateRSUB(t *testing.T) {
	code, err := Generate(newFakeState(), &ast.Instruction{Mnemonic: "RSUB"})
	require.NoError(t, err)
	assert.Equal(t, "4F0000", code)
}

func TestGenerateByteChar(t *testing.T) {
	code, err := Generate(newFakeState(), &ast.Instruction{Mnemonic: "BYTE", Operand: "C'EOF'"})
	require.NoError(t, err)
	assert.Equal(t, "454F46", code)
}

func TestGenerateByteHex(t *testing.T) {
	code, err := Generate(newFakeState(), &ast.Instruction{Mnemonic: "BYTE", Operand: "X'1A'"})
	require.NoError(t, err)
	assert.Equal(t, "1A", code)
}

func TestGenerateWord(t *testing.T) {
	code, err := Generate(newFakeState(), &ast.Instruction{Mnemonic: "WORD", Operand: "6"})
	require.NoError(t, err)
	assert.Equal(t, "000006", code)
}

func TestGenerateFormat1(t *testing.T) {
	code, err := Generate(newFakeState(), &ast.Instruction{Mnemonic: "FIX", Format: ast.Format1})
	require.NoError(t, err)
	assert.Equal(t, "C4", code)
}

func TestGenerateFormat2DefaultsR2ToA(t *testing.T) {
	code, err := Generate(newFakeState(), &ast.Instruction{Mnemonic: "CLEAR", Operand: "X", Format: ast.Format2})
	require.NoError(t, err)
	assert.Equal(t, "B410", code)
}

func TestEncodeFormat3ImmediateConstantTruncates(t *testing.T) {
	// Preserves the observed 11-bit truncation for an overflowing
	// bare-decimal immediate operand (see design notes).
	instr := &ast.Instruction{
		Mnemonic: "LDA", Operand: "#4096", Format: ast.Format3,
		Location: &ast.Location{Address: 0}, Indexed: false,
	}
	code, err := encodeFormat3(newFakeState(), instr)
	require.NoError(t, err)
	assert.Equal(t, "010000", code)
	assert.False(t, instr.Location.IsRelative)
}

func TestEncodeFormat3PCRelative(t *testing.T) {
	state := newFakeState()
	state.symbols["ZERO"] = 3
	instr := &ast.Instruction{
		Mnemonic: "LDA", Operand: "ZERO", Format: ast.Format3,
		Location: &ast.Location{Address: 0},
	}
	code, err := encodeFormat3(state, instr)
	require.NoError(t, err)
	assert.Equal(t, "032000", code)
	assert.True(t, instr.Location.IsRelative)
}

func TestEncodeFormat3BaseRelativeFallback(t *testing.T) {
	state := newFakeState()
	state.base = 0
	state.symbols["BUFFER"] = 5000
	instr := &ast.Instruction{
		Mnemonic: "LDA", Operand: "BUFFER", Format: ast.Format3,
		Location: &ast.Location{Address: 0},
	}
	state.base = 3000
	code, err := encodeFormat3(state, instr)
	require.NoError(t, err)
	assert.Equal(t, "0347D0", code)
}

func TestEncodeFormat3OutOfRange(t *testing.T) {
	state := newFakeState()
	state.symbols["FAR"] = 1000000
	instr := &ast.Instruction{
		Mnemonic: "LDA", Operand: "FAR", Format: ast.Format3,
		Location: &ast.Location{Address: 0},
	}
	_, err := encodeFormat3(state, instr)
	assert.Error(t, err)
}

func TestEncodeFormat3Indexed(t *testing.T) {
	state := newFakeState()
	state.symbols["BUFFER"] = 10
	instr := &ast.Instruction{
		Mnemonic: "LDCH", Operand: "BUFFER,X", Format: ast.Format3,
		Location: &ast.Location{Address: 0},
	}
	code, err := encodeFormat3(state, instr)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Empty(t, state.mods)
}

func TestEncodeFormat4EmitsModificationRecord(t *testing.T) {
	state := newFakeState()
	state.externs["BUFFER"] = 0
	instr := &ast.Instruction{
		Mnemonic: "LDA", Operand: "BUFFER", Format: ast.Format4,
		Location: &ast.Location{Address: 100},
	}
	code, err := encodeFormat4(state, instr)
	require.NoError(t, err)
	assert.Len(t, code, 8)
	require.Len(t, state.mods, 1)
	assert.Equal(t, uint32(101), state.mods[0].location)
	assert.Equal(t, byte('+'), state.mods[0].sign)
	assert.Equal(t, "BUFFER", state.mods[0].ref)
}

func TestEncodeFormat4NoModificationRecordWhenIndirect(t *testing.T) {
	state := newFakeState()
	state.symbols["BUFFER"] = 10
	instr := &ast.Instruction{
		Mnemonic: "LDA", Operand: "@BUFFER", Format: ast.Format4,
		Location: &ast.Location{Address: 100},
	}
	_, err := encodeFormat4(state, instr)
	require.NoError(t, err)
	assert.Empty(t, state.mods)
}
