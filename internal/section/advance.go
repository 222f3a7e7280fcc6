package section

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sicxeasm/assembler/internal/ast"
	"github.com/sicxeasm/assembler/internal/diag"
)

// advance applies the location-counter effect of one instruction, per
// the mnemonic table in §4.3 step 4. It is shared by the symbol
// resolution walk and the address-calculation walk for every mnemonic
// except START, CSECT, BASE, ORG, WORD and EQU, which each walk
// special-cases on its own (see resolveStep and calculateAddresses).
func (s *Section) advance(instr *ast.Instruction) error {
	switch instr.Mnemonic {
	case "RESW":
		n, err := s.reservationCount(instr)
		if err != nil {
			return err
		}
		s.CurrentLocation += uint32(3 * n)

	case "RESB":
		n, err := s.reservationCount(instr)
		if err != nil {
			return err
		}
		s.CurrentLocation += uint32(n)

	case "BYTE":
		n, err := byteConstantLength(instr.Operand, instr.Pos)
		if err != nil {
			return err
		}
		s.CurrentLocation += uint32(n)

	case "RSUB":
		instr.Operand = "#0"
		s.CurrentLocation += 3

	default:
		if instr.Format > ast.FormatDirective {
			s.CurrentLocation += uint32(instr.Format)
		}
	}
	return nil
}

// reservationCount evaluates a RESW/RESB operand and rejects a
// negative count.
func (s *Section) reservationCount(instr *ast.Instruction) (int64, error) {
	n := s.evaluateOperand(instr.Operand, instr.Mnemonic, s.CurrentLocation)
	if n < 0 {
		return 0, diag.NewError(instr.Pos, diag.KindNegativeReservation,
			fmt.Sprintf("%s cannot reserve negative space: %d", instr.Mnemonic, n))
	}
	return n, nil
}

// byteConstantLength returns the byte length a BYTE operand advances
// the location counter by: the character count for C'...', or half the
// hex-digit count for X'...'.
func byteConstantLength(operand string, pos diag.Position) (int, error) {
	upper := strings.ToUpper(operand)
	switch {
	case strings.HasPrefix(upper, "C'") && strings.HasSuffix(operand, "'"):
		return len(operand[2 : len(operand)-1]), nil

	case strings.HasPrefix(upper, "X'") && strings.HasSuffix(operand, "'"):
		hexDigits := operand[2 : len(operand)-1]
		if len(hexDigits)%2 != 0 {
			return 0, diag.NewError(pos, diag.KindInvalidByteConstant,
				fmt.Sprintf("odd-length hex constant: %s", operand))
		}
		if _, err := strconv.ParseUint(hexDigits, 16, 64); hexDigits != "" && err != nil {
			return 0, diag.NewError(pos, diag.KindInvalidByteConstant,
				fmt.Sprintf("invalid hexadecimal value: %s", hexDigits))
		}
		return len(hexDigits) / 2, nil

	default:
		return 0, diag.NewError(pos, diag.KindInvalidByteConstant,
			fmt.Sprintf("invalid BYTE constant: %s", operand))
	}
}
