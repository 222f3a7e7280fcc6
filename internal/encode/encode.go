// Package encode implements the object-code generator: turning one
// already-addressed instruction into its hex machine-code string and,
// where needed, a modification record. It never imports the section
// package — instead it is handed a SectionState collaborator, so the
// section/encoder relationship has no import cycle (see the design
// notes in DESIGN.md).
package encode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sicxeasm/assembler/internal/ast"
	"github.com/sicxeasm/assembler/internal/diag"
	"github.com/sicxeasm/assembler/internal/opcode"
)

// SectionState is the read/write surface the encoder needs from a
// Section, kept narrow on purpose: symbol/external lookups, the
// current base register value, and modification-record bookkeeping.
type SectionState interface {
	LookupSymbolAddr(name string) (uint32, bool)
	LookupExternalAddr(name string) (uint32, bool)
	BaseValue() uint32
	SetBaseValue(v uint32)
	ModificationRecordExists(location uint32, reference string) bool
	AddModificationRecord(location uint32, lengthNibbles uint8, sign byte, reference string)
}

// Generate produces the object-code hex string for instr, which must
// already have a resolved Location. BASE directives update state's
// base value and return an empty string (BASE emits no object code).
func Generate(state SectionState, instr *ast.Instruction) (string, error) {
	switch instr.Mnemonic {
	case "BASE":
		state.SetBaseValue(uint32(evaluateSimple(state, instr.Operand)))
		return "", nil

	case "RSUB":
		return "4F0000", nil

	case "BYTE":
		return encodeByte(instr.Operand, instr.Pos)

	case "WORD":
		return encodeWord(instr.Operand), nil
	}

	switch instr.Format {
	case ast.Format1:
		return encodeFormat1(instr)
	case ast.Format2:
		return encodeFormat2(instr)
	case ast.Format3:
		return encodeFormat3(state, instr)
	case ast.Format4:
		return encodeFormat4(state, instr)
	default:
		return "", nil
	}
}

// evaluateSimple resolves a bare symbol-or-constant operand (used for
// BASE), without modification-record side effects: BASE targets are
// always already-defined local symbols or literal constants.
func evaluateSimple(state SectionState, operand string) int64 {
	if n, err := strconv.ParseInt(operand, 10, 64); err == nil {
		return n
	}
	if addr, ok := state.LookupSymbolAddr(operand); ok {
		return int64(addr)
	}
	return 0
}

func encodeByte(operand string, pos diag.Position) (string, error) {
	upper := strings.ToUpper(operand)
	switch {
	case strings.HasPrefix(upper, "C'"):
		content := operand[2 : len(operand)-1]
		var sb strings.Builder
		for i := 0; i < len(content); i++ {
			fmt.Fprintf(&sb, "%02X", content[i])
		}
		return sb.String(), nil
	case strings.HasPrefix(upper, "X'"):
		return strings.ToUpper(operand[2 : len(operand)-1]), nil
	default:
		return "", diag.NewError(pos, diag.KindInvalidByteConstant, "invalid BYTE constant: "+operand)
	}
}

func encodeWord(operand string) string {
	n, err := strconv.ParseInt(operand, 10, 64)
	if err != nil {
		return "000000"
	}
	return fmt.Sprintf("%06X", uint32(n)&0xFFFFFF)
}

func encodeFormat1(instr *ast.Instruction) (string, error) {
	entry, ok := opcode.Lookup(instr.Mnemonic)
	if !ok {
		return "", fmt.Errorf("unknown opcode %q", instr.Mnemonic)
	}
	return entry.Obj, nil
}

func encodeFormat2(instr *ast.Instruction) (string, error) {
	entry, ok := opcode.Lookup(instr.Mnemonic)
	if !ok {
		return "", fmt.Errorf("unknown opcode %q", instr.Mnemonic)
	}
	parts := strings.Split(instr.Operand, ",")
	r1, ok := opcode.LookupRegister(strings.TrimSpace(parts[0]))
	if !ok {
		return "", fmt.Errorf("invalid register %q", parts[0])
	}
	r2name := "A"
	if len(parts) > 1 {
		r2name = strings.TrimSpace(parts[1])
	}
	r2, ok := opcode.LookupRegister(r2name)
	if !ok {
		return "", fmt.Errorf("invalid register %q", r2name)
	}
	return entry.Obj + r1 + r2, nil
}

// targetAddress resolves the symbol or numeric operand an instruction
// addresses, stripping any `#`/`@` prefix and `,X` suffix first.
func targetAddress(state SectionState, operand string) uint32 {
	operand = stripIndex(operand)
	operand = strings.TrimPrefix(operand, "#")
	operand = strings.TrimPrefix(operand, "@")

	if n, err := strconv.ParseUint(operand, 10, 32); err == nil {
		return uint32(n)
	}
	if addr, ok := state.LookupSymbolAddr(operand); ok {
		return addr
	}
	if addr, ok := state.LookupExternalAddr(operand); ok {
		return addr
	}
	return 0
}

func stripIndex(operand string) string {
	if idx := strings.Index(operand, ","); idx >= 0 {
		return operand[:idx]
	}
	return operand
}

func isIndexed(instr *ast.Instruction) bool {
	return strings.Contains(instr.Operand, ",") || instr.Indexed
}
