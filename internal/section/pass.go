package section

import (
	"strings"

	"github.com/sicxeasm/assembler/internal/ast"
	"github.com/sicxeasm/assembler/internal/encode"
)

// RunPass1 executes the whole of Pass 1: literal emission and
// program-block reordering (extended mode only), symbol
// pre-population, the fixed-point symbol-resolution walk, the final
// address-calculation walk, and external-definition finalization
// (extended mode only).
func (s *Section) RunPass1(extendedMode bool) error {
	if extendedMode {
		s.emitLiterals()
		s.reorderBlocks()
	}

	s.prepopulateSymbols()

	if err := s.resolveSymbols(); err != nil {
		return err
	}
	if err := s.calculateAddresses(); err != nil {
		return err
	}

	if extendedMode {
		if err := s.finalizeExterns(); err != nil {
			return err
		}
	}
	return nil
}

// RunPass2 generates object code for every addressed instruction, in
// the order Pass 1 left them. Directives that occupy no address
// (EQU, and anything Pass 1 never reached) are skipped.
func (s *Section) RunPass2() error {
	for _, instr := range s.Instructions {
		if instr.Location == nil {
			continue
		}
		prepareOperand(instr)

		code, err := encode.Generate(s, instr)
		if err != nil {
			return err
		}
		instr.ObjectCode = code
	}
	return nil
}

// prepareOperand determines indexed addressing once, up front, and
// records it on the instruction. This replaces the source assembler's
// mnemonic+operand-keyed lookup table for the same purpose (see design
// notes): the flag lives on the record it describes instead of a
// side table that can go stale across reordering.
func prepareOperand(instr *ast.Instruction) {
	if strings.HasSuffix(strings.ToUpper(instr.Operand), ",X") {
		instr.Indexed = true
	}
}
