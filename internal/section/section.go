// Package section implements the per-control-section two-pass engine:
// symbol resolution, address assignment, program-block reordering,
// literal-pool emission, and the modification-record bookkeeping that
// feeds the object-code generator and the object-file writer.
package section

import (
	"github.com/sicxeasm/assembler/internal/ast"
	"github.com/sicxeasm/assembler/internal/diag"
	"github.com/sicxeasm/assembler/internal/literal"
)

// Section is one control section's worth of assembler state. The
// preprocessor builds Sections by partitioning the source along
// START/CSECT boundaries; Pass1 and Pass2 then mutate them in place.
type Section struct {
	Name         string
	Instructions []*ast.Instruction

	SymbolTable map[string]*ast.Symbol
	ExtdefTable map[string]*ast.Symbol
	ExtrefTable map[string]*ast.Symbol

	ModificationRecords []*ast.ModificationRecord

	Literals *literal.Manager

	CurrentLocation   uint32
	BaseRegisterValue *uint32

	Warnings diag.List
}

// New creates an empty Section named name.
func New(name string) *Section {
	return &Section{
		Name:        name,
		SymbolTable: make(map[string]*ast.Symbol),
		ExtdefTable: make(map[string]*ast.Symbol),
		ExtrefTable: make(map[string]*ast.Symbol),
		Literals:    literal.NewManager(),
	}
}

// AddInstruction appends instr to the section's instruction sequence.
func (s *Section) AddInstruction(instr *ast.Instruction) {
	s.Instructions = append(s.Instructions, instr)
}

// HasEnd reports whether the section already contains an END
// instruction.
func (s *Section) HasEnd() bool {
	for _, instr := range s.Instructions {
		if instr.Mnemonic == "END" {
			return true
		}
	}
	return false
}

// addModificationRecord appends record unless an equivalent one (same
// location and reference) is already present.
func (s *Section) addModificationRecord(record *ast.ModificationRecord) {
	for _, existing := range s.ModificationRecords {
		if existing.Location == record.Location && existing.Reference == record.Reference {
			return
		}
	}
	s.ModificationRecords = append(s.ModificationRecords, record)
}
