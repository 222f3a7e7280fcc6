// Package objfile serializes an assembled Section into the canonical
// SIC/XE object-program record format (H/D/R/T/M/E), per §4.6.
package objfile

import (
	"fmt"
	"io"
	"sort"

	"github.com/sicxeasm/assembler/internal/ast"
	"github.com/sicxeasm/assembler/internal/section"
)

const textRecordMaxHexDigits = 60

// Write serializes sec to w, ending with a blank separator line.
func Write(w io.Writer, sec *section.Section) error {
	if len(sec.Instructions) == 0 {
		return nil
	}

	if err := writeHeader(w, sec); err != nil {
		return err
	}
	if err := writeExtdef(w, sec); err != nil {
		return err
	}
	if err := writeExtref(w, sec); err != nil {
		return err
	}
	if err := writeTextRecords(w, sec); err != nil {
		return err
	}
	if err := writeModificationRecords(w, sec); err != nil {
		return err
	}
	return writeEnd(w, sec)
}

func writeHeader(w io.Writer, sec *section.Section) error {
	first := sec.Instructions[0]
	last := sec.Instructions[len(sec.Instructions)-1]
	var start, end uint32
	if first.Location != nil {
		start = first.Location.Address
	}
	if last.Location != nil {
		end = last.Location.Address
	}
	name := first.Symbol
	if name == "" {
		name = sec.Name
	}
	_, err := fmt.Fprintf(w, "H%-6.6s%06X%06X\n", name, start, end-start)
	return err
}

func writeExtdef(w io.Writer, sec *section.Section) error {
	if len(sec.ExtdefTable) == 0 {
		return nil
	}
	names := sortedNames(sec.ExtdefTable)

	for i := 0; i < len(names); i += 5 {
		group := names[i:min(i+5, len(names))]
		if _, err := io.WriteString(w, "D"); err != nil {
			return err
		}
		for _, name := range group {
			sym := sec.ExtdefTable[name]
			if sym.Addr == nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "%-6.6s%06X", name, *sym.Addr); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func writeExtref(w io.Writer, sec *section.Section) error {
	if len(sec.ExtrefTable) == 0 {
		return nil
	}
	names := sortedNames(sec.ExtrefTable)

	for i := 0; i < len(names); i += 5 {
		group := names[i:min(i+5, len(names))]
		if _, err := io.WriteString(w, "R"); err != nil {
			return err
		}
		for _, name := range group {
			if _, err := fmt.Fprintf(w, "%-6.6s", name); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func writeTextRecords(w io.Writer, sec *section.Section) error {
	var curStart uint32
	var curText string

	flush := func() error {
		if curText == "" {
			return nil
		}
		_, err := fmt.Fprintf(w, "T%06X%02X%s\n", curStart, len(curText)/2, curText)
		curText = ""
		return err
	}

	for _, instr := range sec.Instructions {
		if instr.Mnemonic == "RESW" || instr.Mnemonic == "RESB" || instr.Mnemonic == "USE" {
			if err := flush(); err != nil {
				return err
			}
			continue
		}
		if instr.ObjectCode == "" {
			continue
		}

		if curText == "" {
			curStart = instr.Location.Address
		}
		if len(curText)+len(instr.ObjectCode) > textRecordMaxHexDigits {
			if err := flush(); err != nil {
				return err
			}
			curStart = instr.Location.Address
		}
		curText += instr.ObjectCode
	}
	return flush()
}

func writeModificationRecords(w io.Writer, sec *section.Section) error {
	records := make([]*ast.ModificationRecord, len(sec.ModificationRecords))
	copy(records, sec.ModificationRecords)
	sort.Slice(records, func(i, j int) bool { return records[i].Location < records[j].Location })

	for _, r := range records {
		sign := r.Sign
		if sign == 0 {
			sign = '+'
		}
		if _, err := fmt.Fprintf(w, "M%06X%02X%c%s\n", r.Location, r.LengthNibbles, sign, r.Reference); err != nil {
			return err
		}
	}
	return nil
}

func writeEnd(w io.Writer, sec *section.Section) error {
	if _, err := io.WriteString(w, "E"); err != nil {
		return err
	}
	last := sec.Instructions[len(sec.Instructions)-1]
	if last.Mnemonic == "END" && last.Operand != "" {
		sym, ok := sec.SymbolTable[last.Operand]
		if !ok || !sym.Resolved() {
			return fmt.Errorf("symbol %s not found in symbol table", last.Operand)
		}
		if _, err := fmt.Fprintf(w, "%06X", *sym.Addr); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n\n")
	return err
}

func sortedNames(table map[string]*ast.Symbol) []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
