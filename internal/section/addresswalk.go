package section

import (
	"strconv"

	"github.com/sicxeasm/assembler/internal/ast"
	"github.com/sicxeasm/assembler/internal/diag"
)

// calculateAddresses implements §4.4: a separate final walk, after
// symbol resolution has converged, that assigns every instruction its
// Location. WORD advances without re-running operand evaluation (its
// modification records were already emitted while resolving symbols);
// EQU is skipped entirely, since it names an address rather than
// occupying one.
func (s *Section) calculateAddresses() error {
	s.CurrentLocation = 0

	for _, instr := range s.Instructions {
		switch instr.Mnemonic {
		case "START":
			addr, err := strconv.ParseUint(instr.Operand, 16, 32)
			if err != nil {
				return diag.NewError(instr.Pos, diag.KindSyntax, "invalid START address: "+instr.Operand)
			}
			s.CurrentLocation = uint32(addr)
			instr.Location = &ast.Location{Address: s.CurrentLocation}

		case "CSECT":
			s.CurrentLocation = 0
			instr.Location = &ast.Location{Address: s.CurrentLocation}

		case "EQU":
			continue

		case "BASE":
			v := s.evaluateOperand(instr.Operand, instr.Mnemonic, s.CurrentLocation)
			if v != 0 {
				uv := uint32(v)
				s.BaseRegisterValue = &uv
			}
			instr.Location = &ast.Location{Address: s.CurrentLocation}

		case "ORG":
			v := s.evaluateOperand(instr.Operand, instr.Mnemonic, s.CurrentLocation)
			if v != 0 {
				s.CurrentLocation = uint32(v)
			}
			instr.Location = &ast.Location{Address: s.CurrentLocation}

		case "WORD":
			instr.Location = &ast.Location{Address: s.CurrentLocation}
			s.CurrentLocation += 3

		default:
			instr.Location = &ast.Location{Address: s.CurrentLocation}
			if err := s.advance(instr); err != nil {
				return err
			}
		}
	}
	return nil
}
