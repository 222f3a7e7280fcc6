package section

import (
	"strings"

	"github.com/sicxeasm/assembler/internal/ast"
)

// emitLiterals implements §4.3 step 1: intern every `=...` operand in
// source order, and materialize the pool as synthetic BYTE instructions
// immediately before each LTORG/END.
func (s *Section) emitLiterals() {
	out := make([]*ast.Instruction, 0, len(s.Instructions))

	for _, instr := range s.Instructions {
		if instr.Mnemonic != "LTORG" && instr.Mnemonic != "END" && strings.HasPrefix(instr.Operand, "=") {
			instr.Operand = s.Literals.Add(instr.Operand)
		}

		if instr.Mnemonic == "LTORG" || instr.Mnemonic == "END" {
			out = append(out, s.materializeLiterals()...)
		}

		out = append(out, instr)
	}

	s.reindex(out)
	s.Instructions = out
}

// materializeLiterals drains the pending literal pool into synthetic
// BYTE instructions (symbol = literal name, operand = literal data) and
// archives the pool.
func (s *Section) materializeLiterals() []*ast.Instruction {
	pending := s.Literals.Pending()
	out := make([]*ast.Instruction, 0, len(pending))
	for _, lit := range pending {
		out = append(out, &ast.Instruction{
			Symbol:   lit.Name,
			Mnemonic: "BYTE",
			Operand:  lit.Data,
			Format:   ast.FormatDirective,
		})
	}
	s.Literals.Clear()
	return out
}

// reindex reassigns each instruction's stable ordering key to its new
// linear position, after an insertion or reorder changed the slice.
func (s *Section) reindex(instrs []*ast.Instruction) {
	for i, instr := range instrs {
		instr.Index = uint32(i)
	}
}
