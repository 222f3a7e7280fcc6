// Package assembler ties the preprocessor, the per-section two-pass
// engine, and the object-file writer into the single entry point
// described in §2 and §5: preprocess once, then for each section run
// Pass 1 and Pass 2, then write every section to the output stream.
package assembler

import (
	"fmt"
	"os"

	"github.com/sicxeasm/assembler/internal/config"
	"github.com/sicxeasm/assembler/internal/diag"
	"github.com/sicxeasm/assembler/internal/objfile"
	"github.com/sicxeasm/assembler/internal/preprocess"
	"github.com/sicxeasm/assembler/internal/section"
)

// Result is everything a caller might want after a successful
// assembly: the sections themselves (for diagnostic table dumps) and
// the path the object program was written to.
type Result struct {
	Sections   []*section.Section
	OutputPath string
}

// Assemble reads inputPath, runs the full two-pass pipeline on every
// control section it partitions into, and writes the combined object
// program to outputPath. sink, if non-nil, receives diagnostic table
// Events as assembly proceeds; it never affects the object program.
func Assemble(inputPath, outputPath string, opts *config.Options, sink diag.Sink) (*Result, error) {
	if opts == nil {
		opts = config.Default()
	}

	sections, err := preprocess.Process(inputPath, sink)
	if err != nil {
		return nil, err
	}

	for _, sec := range sections {
		if err := sec.RunPass1(opts.Assembler.ExtendedMode); err != nil {
			return nil, fmt.Errorf("section %s: %w", sec.Name, err)
		}
		if err := sec.RunPass2(); err != nil {
			return nil, fmt.Errorf("section %s: %w", sec.Name, err)
		}
		emitDiagnostics(sec, sink, opts.Diagnostics)
	}

	out, err := os.Create(outputPath) // #nosec G304 -- caller-supplied output path
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	for _, sec := range sections {
		if err := objfile.Write(out, sec); err != nil {
			return nil, fmt.Errorf("section %s: %w", sec.Name, err)
		}
	}

	return &Result{Sections: sections, OutputPath: outputPath}, nil
}

// emitDiagnostics pushes the human-readable table dumps (§6) for one
// assembled section to sink. A nil sink means no diagnostics are
// wanted, so the tables are never built in that case. diagOpts picks
// hex vs. decimal for every address column (NumberFormat) and wraps
// the instruction listing's object-code column at BytesPerLine bytes.
func emitDiagnostics(sec *section.Section, sink diag.Sink, diagOpts config.DiagnosticsOptions) {
	if sink == nil {
		return
	}

	var symbolRows []string
	for name, sym := range sec.SymbolTable {
		addr := "unresolved"
		if sym.Resolved() {
			addr = formatAddr(*sym.Addr, diagOpts.NumberFormat)
		}
		symbolRows = append(symbolRows, fmt.Sprintf("%-10s %s", name, addr))
	}
	sink(diag.Event{Kind: diag.EventSymbolTable, Section: sec.Name, Rows: symbolRows})

	var extdefRows []string
	for name, sym := range sec.ExtdefTable {
		addr := "unresolved"
		if sym.Resolved() {
			addr = formatAddr(*sym.Addr, diagOpts.NumberFormat)
		}
		extdefRows = append(extdefRows, fmt.Sprintf("%-10s %s", name, addr))
	}
	sink(diag.Event{Kind: diag.EventExtdefTable, Section: sec.Name, Rows: extdefRows})

	var extrefRows []string
	for name := range sec.ExtrefTable {
		extrefRows = append(extrefRows, name)
	}
	sink(diag.Event{Kind: diag.EventExtrefTable, Section: sec.Name, Rows: extrefRows})

	var literalRows []string
	for _, lit := range sec.Literals.Archived() {
		literalRows = append(literalRows, fmt.Sprintf("%-10s %-20s used=%d", lit.Name, lit.Data, lit.UsedCount))
	}
	sink(diag.Event{Kind: diag.EventLiteralTable, Section: sec.Name, Rows: literalRows})

	var modRows []string
	for _, rec := range sec.ModificationRecords {
		modRows = append(modRows, fmt.Sprintf("%s %02X %c%s", formatAddr(rec.Location, diagOpts.NumberFormat), rec.LengthNibbles, rec.Sign, rec.Reference))
	}
	sink(diag.Event{Kind: diag.EventModificationRecords, Section: sec.Name, Rows: modRows})

	var listingRows []string
	for _, instr := range sec.Instructions {
		loc := "--"
		if instr.Location != nil {
			loc = formatAddr(instr.Location.Address, diagOpts.NumberFormat)
		}
		chunks := wrapObjectCode(instr.ObjectCode, diagOpts.BytesPerLine)
		listingRows = append(listingRows, fmt.Sprintf("%-6s %-6s %-6s %-10s %s", loc, instr.Symbol, instr.Mnemonic, instr.Operand, chunks[0]))
		for _, cont := range chunks[1:] {
			listingRows = append(listingRows, fmt.Sprintf("%-6s %-6s %-6s %-10s %s", "", "", "", "", cont))
		}
	}
	sink(diag.Event{Kind: diag.EventInstructionListing, Section: sec.Name, Rows: listingRows})
}

// formatAddr renders addr per NumberFormat ("dec" for decimal,
// anything else - including the default "hex" - for six-digit hex).
func formatAddr(addr uint32, numberFormat string) string {
	if numberFormat == "dec" {
		return fmt.Sprintf("%d", addr)
	}
	return fmt.Sprintf("%06X", addr)
}

// wrapObjectCode splits an object-code hex string into lines of at
// most bytesPerLine bytes (two hex digits each), the way a listing's
// object-code column wraps for long Format-0 directives (e.g. a wide
// BYTE). bytesPerLine <= 0 disables wrapping.
func wrapObjectCode(code string, bytesPerLine int) []string {
	if bytesPerLine <= 0 || code == "" {
		return []string{code}
	}

	width := bytesPerLine * 2
	var lines []string
	for len(code) > width {
		lines = append(lines, code[:width])
		code = code[width:]
	}
	return append(lines, code)
}
