package section

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sicxeasm/assembler/internal/ast"
	"github.com/sicxeasm/assembler/internal/diag"
)

// prepopulateSymbols implements §4.3 step 3: every labeled instruction
// gets an unresolved entry in the symbol table, and EXTDEF/EXTREF
// operands (comma-separated name lists) populate their own tables.
func (s *Section) prepopulateSymbols() {
	for _, instr := range s.Instructions {
		if instr.Symbol != "" {
			if _, ok := s.SymbolTable[instr.Symbol]; !ok {
				s.SymbolTable[instr.Symbol] = &ast.Symbol{Name: instr.Symbol}
			}
		}

		switch instr.Mnemonic {
		case "EXTDEF":
			for _, name := range strings.Split(instr.Operand, ",") {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				s.ExtdefTable[name] = &ast.Symbol{Name: name}
			}

		case "EXTREF":
			for _, name := range strings.Split(instr.Operand, ",") {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				zero := uint32(0)
				s.ExtrefTable[name] = &ast.Symbol{Name: name, Addr: &zero, IsExternal: true}
			}
		}
	}
}

// setSymbolAddr resolves name (if non-empty) to addr, creating the
// table entry if symbol pre-population somehow missed it.
func (s *Section) setSymbolAddr(name string, addr uint32) {
	if name == "" {
		return
	}
	sym, ok := s.SymbolTable[name]
	if !ok {
		sym = &ast.Symbol{Name: name}
		s.SymbolTable[name] = sym
	}
	v := addr
	sym.Addr = &v
}

func (s *Section) countResolved() int {
	n := 0
	for _, sym := range s.SymbolTable {
		if sym.Resolved() {
			n++
		}
	}
	return n
}

func (s *Section) allResolved() bool {
	for _, sym := range s.SymbolTable {
		if !sym.Resolved() {
			return false
		}
	}
	return true
}

// resolveSymbols implements §4.3 step 4: the fixed-point walk that
// assigns every symbol_table entry an address. Per the design notes,
// the "repeat until resolved" loop is bounded by the number of symbols
// and fails if a full pass makes no further progress.
func (s *Section) resolveSymbols() error {
	maxIterations := len(s.SymbolTable) + 1

	for iter := 0; iter < maxIterations; iter++ {
		resolvedBefore := s.countResolved()
		s.CurrentLocation = 0

		for _, instr := range s.Instructions {
			if err := s.resolveStep(instr); err != nil {
				return err
			}
		}

		if s.allResolved() {
			return nil
		}
		if s.countResolved() == resolvedBefore {
			return diag.NewError(diag.Position{}, diag.KindMissingSymbol,
				fmt.Sprintf("section %s: symbol resolution made no progress with unresolved symbols remaining", s.Name))
		}
	}

	if !s.allResolved() {
		return diag.NewError(diag.Position{}, diag.KindMissingSymbol,
			fmt.Sprintf("section %s: could not resolve all symbols within %d iterations", s.Name, maxIterations))
	}
	return nil
}

// resolveStep applies one instruction's effect on current_location and
// the symbol table, per the §4.3 step 4 mnemonic table.
func (s *Section) resolveStep(instr *ast.Instruction) error {
	switch instr.Mnemonic {
	case "START":
		addr, err := strconv.ParseUint(instr.Operand, 16, 32)
		if err != nil {
			return diag.NewError(instr.Pos, diag.KindSyntax, "invalid START address: "+instr.Operand)
		}
		s.CurrentLocation = uint32(addr)
		s.setSymbolAddr(instr.Symbol, s.CurrentLocation)

	case "CSECT":
		s.CurrentLocation = 0
		s.setSymbolAddr(instr.Symbol, s.CurrentLocation)

	case "BASE":
		v := s.evaluateOperand(instr.Operand, instr.Mnemonic, s.CurrentLocation)
		if v != 0 {
			uv := uint32(v)
			s.BaseRegisterValue = &uv
		}

	case "ORG":
		v := s.evaluateOperand(instr.Operand, instr.Mnemonic, s.CurrentLocation)
		if v != 0 {
			s.CurrentLocation = uint32(v)
		}

	case "EQU":
		v := s.evaluateOperand(instr.Operand, instr.Mnemonic, s.CurrentLocation)
		s.setSymbolAddr(instr.Symbol, uint32(v))

	case "WORD":
		s.evaluateOperand(instr.Operand, instr.Mnemonic, s.CurrentLocation)
		s.setSymbolAddr(instr.Symbol, s.CurrentLocation)
		s.CurrentLocation += 3

	default:
		s.setSymbolAddr(instr.Symbol, s.CurrentLocation)
		if err := s.advance(instr); err != nil {
			return err
		}
	}
	return nil
}

// finalizeExterns implements §4.3 step 5: every EXTDEF name must have
// resolved in symbol_table, and its extdef_table address is copied
// from there.
func (s *Section) finalizeExterns() error {
	for name, sym := range s.ExtdefTable {
		defSym, ok := s.SymbolTable[name]
		if !ok || !defSym.Resolved() {
			return diag.NewError(diag.Position{}, diag.KindUndefinedExternalDefinition,
				fmt.Sprintf("EXTDEF %s is not defined in section %s", name, s.Name))
		}
		addr := *defSym.Addr
		sym.Addr = &addr
	}
	return nil
}
