package section

import "github.com/sicxeasm/assembler/internal/ast"

// The methods below satisfy encode.SectionState, letting Pass 2 hand
// the section itself to the encoder as a narrow read/write
// collaborator instead of the encoder holding a back-reference to the
// section (see the design notes on breaking that cycle).

// LookupSymbolAddr returns a resolved symbol's address.
func (s *Section) LookupSymbolAddr(name string) (uint32, bool) {
	sym, ok := s.SymbolTable[name]
	if !ok || !sym.Resolved() {
		return 0, false
	}
	return *sym.Addr, true
}

// LookupExternalAddr returns an EXTREF symbol's address (0 if unset).
func (s *Section) LookupExternalAddr(name string) (uint32, bool) {
	sym, ok := s.ExtrefTable[name]
	if !ok {
		return 0, false
	}
	if sym.Addr == nil {
		return 0, true
	}
	return *sym.Addr, true
}

// BaseValue returns the current BASE register value (0 if never set).
func (s *Section) BaseValue() uint32 {
	if s.BaseRegisterValue == nil {
		return 0
	}
	return *s.BaseRegisterValue
}

// SetBaseValue updates the BASE register value.
func (s *Section) SetBaseValue(v uint32) {
	s.BaseRegisterValue = &v
}

// ModificationRecordExists reports whether an equivalent record is
// already present.
func (s *Section) ModificationRecordExists(location uint32, reference string) bool {
	for _, r := range s.ModificationRecords {
		if r.Location == location && r.Reference == reference {
			return true
		}
	}
	return false
}

// AddModificationRecord appends a new modification record.
func (s *Section) AddModificationRecord(location uint32, lengthNibbles uint8, sign byte, reference string) {
	s.addModificationRecord(&ast.ModificationRecord{
		Location:      location,
		LengthNibbles: lengthNibbles,
		Sign:          sign,
		Reference:     reference,
	})
}
