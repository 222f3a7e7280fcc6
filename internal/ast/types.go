// Package ast holds the data model shared by the preprocessor, the
// section engine, the encoder, and the object-file writer: Location,
// Symbol, Instruction, Literal and ModificationRecord, as described in
// §3 of the specification.
package ast

import "github.com/sicxeasm/assembler/internal/diag"

// Location is a resolved address together with the addressing mode
// that produced it. IsRelative records whether the displacement used
// PC-relative or base-relative addressing; it exists purely for
// relocation reporting, never for emission.
type Location struct {
	Address    uint32
	IsRelative bool
}

// Symbol is a named location in one section's symbol table. Addr is
// nil until Pass 1 resolves it; an EXTREF entry gets Addr 0 when it is
// created.
type Symbol struct {
	Name       string
	Addr       *uint32
	IsExternal bool
}

// Resolved reports whether the symbol has an assigned address.
func (s *Symbol) Resolved() bool {
	return s.Addr != nil
}

// FormatType enumerates the SIC/XE instruction formats. FormatDirective
// marks directives that produce no instruction encoding of their own.
type FormatType int

const (
	FormatDirective FormatType = 0
	Format1         FormatType = 1
	Format2         FormatType = 2
	Format3         FormatType = 3
	Format4         FormatType = 4
)

// Instruction is one line of source, after preprocessing: a label, a
// mnemonic, and an operand, plus everything Pass 1/Pass 2 attach to it.
// Index is the stable ordering key used to restore insertion order
// after program-block reshuffling; it is not necessarily the slice
// position at any given moment.
type Instruction struct {
	Index      uint32
	Format     FormatType
	Symbol     string
	Mnemonic   string
	Operand    string
	ObjectCode string
	Location   *Location
	Pos        diag.Position

	// Indexed records whether ",X" indexing was determined for this
	// instruction's operand, decided once in Pass 2 and consulted by
	// the encoder. It replaces the source assembler's fragile
	// mnemonic+operand-keyed map (see design notes).
	Indexed bool
}

// ModificationRecord directs a linker/loader to patch a field of the
// object program at load time.
type ModificationRecord struct {
	Location      uint32
	LengthNibbles uint8
	Sign          byte // '+', '-', or 0 for unset
	Reference     string
}

// Literal is an interned `=C'...'`/`=X'...'` operand, materialized as a
// BYTE instruction at the next LTORG or END.
type Literal struct {
	Name      string
	Data      string
	UsedCount uint32
}
