package encode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sicxeasm/assembler/internal/ast"
	"github.com/sicxeasm/assembler/internal/diag"
	"github.com/sicxeasm/assembler/internal/opcode"
)

// flags holds the six addressing-mode bits of a Format 3/4 instruction.
type flags struct {
	n, i, x, b, p, e int
}

// addressingPrefix reports the addressing mode implied by an operand's
// `#`/`@` prefix (stripped of any `,X` suffix first): immediate (#),
// indirect (@), or simple (neither).
func addressingPrefix(operand string) (n, i int) {
	operand = stripIndex(operand)
	switch {
	case strings.HasPrefix(operand, "#"):
		return 0, 1
	case strings.HasPrefix(operand, "@"):
		return 1, 0
	default:
		return 1, 1
	}
}

func encodeFormat3(state SectionState, instr *ast.Instruction) (string, error) {
	entry, ok := opcode.Lookup(instr.Mnemonic)
	if !ok {
		return "", fmt.Errorf("unknown opcode %q", instr.Mnemonic)
	}

	f := flags{}
	f.n, f.i = addressingPrefix(instr.Operand)
	if isIndexed(instr) {
		f.x = 1
	}

	operand := stripIndex(instr.Operand)
	bare := strings.TrimPrefix(strings.TrimPrefix(operand, "#"), "@")

	// Immediate literal constant: operand is a bare decimal number whose
	// value equals its own target-address lookup. Per the design notes,
	// this branch writes the raw value into the 11-bit field even when
	// it overflows — preserved exactly as observed in the source
	// assembler rather than "fixed", since intent is undocumented.
	if strings.HasPrefix(operand, "#") {
		if n, err := strconv.ParseInt(bare, 10, 64); err == nil {
			instr.Location.IsRelative = false
			disp := uint32(n) & 0x7FF
			code := assembleFormat3(entry.Obj, f, disp)
			return code, nil
		}
	}

	target := targetAddress(state, instr.Operand)
	isPrefixed := strings.HasPrefix(operand, "#") || strings.HasPrefix(operand, "@")

	pcDisp := int64(target) - int64(instr.Location.Address+3)
	if pcDisp >= -2048 && pcDisp <= 2047 {
		f.p, f.b = 1, 0
		instr.Location.IsRelative = !isPrefixed
		disp := uint32(pcDisp) & 0xFFF
		return assembleFormat3(entry.Obj, f, disp), nil
	}

	baseDisp := int64(target) - int64(state.BaseValue())
	if baseDisp >= 0 && baseDisp <= 4095 {
		f.b, f.p = 1, 0
		instr.Location.IsRelative = !isPrefixed
		return assembleFormat3(entry.Obj, f, uint32(baseDisp)), nil
	}

	return "", diag.NewError(instr.Pos, diag.KindDisplacementOutOfRange,
		fmt.Sprintf("displacement out of range for %s %s", instr.Mnemonic, instr.Operand))
}

// assembleFormat3 packs opcode(6) | n i x b p e | disp(12) into 6 hex
// digits.
func assembleFormat3(opcodeHex string, f flags, disp uint32) string {
	opByte, _ := strconv.ParseUint(opcodeHex, 16, 32)
	opBits := uint32(opByte) >> 2
	code := (opBits << 18) |
		(uint32(f.n) << 17) | (uint32(f.i) << 16) | (uint32(f.x) << 15) |
		(uint32(f.b) << 14) | (uint32(f.p) << 13) | (uint32(f.e) << 12) |
		(disp & 0xFFF)
	return fmt.Sprintf("%06X", code)
}

func encodeFormat4(state SectionState, instr *ast.Instruction) (string, error) {
	entry, ok := opcode.Lookup(instr.Mnemonic)
	if !ok {
		return "", fmt.Errorf("unknown opcode %q", instr.Mnemonic)
	}

	f := flags{e: 1}
	f.n, f.i = addressingPrefix(instr.Operand)
	if isIndexed(instr) {
		f.x = 1
	}

	address := targetAddress(state, instr.Operand)

	opByte, _ := strconv.ParseUint(entry.Obj, 16, 32)
	opBits := uint32(opByte) >> 2
	code := (opBits << 26) |
		(uint32(f.n) << 25) | (uint32(f.i) << 24) | (uint32(f.x) << 23) |
		(uint32(f.b) << 22) | (uint32(f.p) << 21) | (uint32(f.e) << 20) |
		(address & 0xFFFFF)

	if f.n == 1 && f.i == 1 {
		loc := instr.Location.Address + 1
		reference := stripIndex(instr.Operand)
		if !state.ModificationRecordExists(loc, reference) {
			state.AddModificationRecord(loc, 5, '+', reference)
		}
	}

	return fmt.Sprintf("%08X", code), nil
}
