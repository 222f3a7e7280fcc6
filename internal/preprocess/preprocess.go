// Package preprocess implements the lexical/syntactic front end: it
// turns raw source lines into Instruction records and partitions them
// into Sections along START/CSECT boundaries, per §4.1.
package preprocess

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sicxeasm/assembler/internal/ast"
	"github.com/sicxeasm/assembler/internal/diag"
	"github.com/sicxeasm/assembler/internal/opcode"
	"github.com/sicxeasm/assembler/internal/section"
)

// fields is one line's (symbol, mnemonic, operand) split, before
// Format 4 detection or mnemonic promotion.
type fields struct {
	symbol   string
	mnemonic string
	operand  string
}

// Process reads path and returns the Sections it partitions into.
// Section("DEFAULT", ...) always exists even if the source never issues
// a CSECT. Errors abort the whole job; recoverable problems (a renamed
// symbol, a synthesized END) are instead appended to sink.
func Process(path string, sink diag.Sink) ([]*section.Section, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, diag.NewError(diag.Position{Filename: path}, diag.KindFileNotFound,
				fmt.Sprintf("input file %s not found", path))
		}
		return nil, err
	}
	defer f.Close()

	instrs, err := scan(f, path, sink)
	if err != nil {
		return nil, err
	}

	return partition(instrs, sink), nil
}

// scan parses every non-blank, non-comment line of r into an
// Instruction, in source order.
func scan(r io.Reader, filename string, sink diag.Sink) ([]*ast.Instruction, error) {
	var instrs []*ast.Instruction
	scanner := bufio.NewScanner(r)

	lineNo := 0
	index := uint32(0)
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		if strings.TrimSpace(raw) == "" {
			continue
		}

		f, ok := parseLine(raw)
		if !ok {
			continue
		}

		pos := diag.Position{Filename: filename, Line: lineNo}
		instr, err := buildInstruction(f, index, pos, sink)
		if err != nil {
			return nil, err
		}
		index++
		instrs = append(instrs, instr)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return instrs, nil
}

// parseLine strips comments and splits one line into its three fields.
// ok is false for a blank or full-line-comment line.
func parseLine(raw string) (fields, bool) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, ".") {
		return fields{}, false
	}
	if idx := strings.Index(raw, "."); idx >= 0 {
		raw = raw[:idx]
	}
	raw = strings.ReplaceAll(raw, "\t", " ")

	parts := strings.Fields(raw)
	if len(parts) == 0 {
		return fields{}, false
	}
	for len(parts) < 3 {
		parts = append(parts, "")
	}

	f := fields{symbol: parts[0], mnemonic: parts[1], operand: parts[2]}

	// BYTE's operand may contain whitespace inside C'...' quoting;
	// rejoin any remaining fields back into it.
	if f.mnemonic == "BYTE" && len(parts) > 3 {
		f.operand = strings.Join(parts[2:], " ")
	}
	return f, true
}

// buildInstruction applies Format 4 detection, mnemonic promotion, the
// opcode/directive-as-symbol rename, and the invalid-mnemonic check.
func buildInstruction(f fields, index uint32, pos diag.Position, sink diag.Sink) (*ast.Instruction, error) {
	format := ast.FormatDirective

	switch {
	case strings.Contains(f.symbol, "+"):
		format = ast.Format4
		f.symbol = strings.ReplaceAll(f.symbol, "+", "")
	case strings.Contains(f.mnemonic, "+"):
		format = ast.Format4
		f.mnemonic = strings.ReplaceAll(f.mnemonic, "+", "")
	}

	// A line with no label has its mnemonic sitting in the symbol
	// field; shift everything right by one.
	if opcode.IsKnownMnemonic(f.symbol) || f.symbol == "*" {
		f.operand = f.mnemonic
		f.mnemonic = f.symbol
		f.symbol = ""
	}

	if opcode.IsKnownMnemonic(f.symbol) {
		renamed := "WRONG_SYMBOL_NAME_" + f.symbol
		if sink != nil {
			sink(diag.Event{Kind: diag.EventInstructionListing, Rows: []string{
				fmt.Sprintf("%s: warning: %q is an opcode/directive and cannot be used as a symbol; renamed to %s", pos, f.symbol, renamed),
			}})
		}
		f.symbol = renamed
	}

	if !opcode.IsKnownMnemonic(f.mnemonic) {
		return nil, diag.NewError(pos, diag.KindInvalidMnemonic,
			fmt.Sprintf("unknown mnemonic %q", f.mnemonic))
	}

	if format != ast.Format4 {
		if entry, ok := opcode.Lookup(f.mnemonic); ok {
			format = ast.FormatType(entry.Format)
		}
	}

	return &ast.Instruction{
		Index:    index,
		Format:   format,
		Symbol:   f.symbol,
		Mnemonic: f.mnemonic,
		Operand:  f.operand,
		Pos:      pos,
	}, nil
}

// partition splits instrs into Sections along CSECT boundaries. The
// terminating END is appended only to the first section and stops
// partitioning outright — instructions appearing after it in the raw
// stream are discarded, matching the source assembler's observed
// behavior. Any section left without an END gets a synthesized one and
// a diagnostic.
func partition(instrs []*ast.Instruction, sink diag.Sink) []*section.Section {
	sections := []*section.Section{section.New("DEFAULT")}

	for _, instr := range instrs {
		switch instr.Mnemonic {
		case "END":
			sections[0].AddInstruction(instr)
			goto done
		case "CSECT":
			sections = append(sections, section.New(instr.Symbol))
		}
		sections[len(sections)-1].AddInstruction(instr)
	}
done:

	for _, sec := range sections {
		if sec.HasEnd() {
			continue
		}
		msg := fmt.Sprintf("no END directive found in section %s", sec.Name)
		sec.Warnings.Add(diag.Position{}, msg)
		if sink != nil {
			sink(diag.Event{Kind: diag.EventInstructionListing, Rows: []string{"warning: " + msg}})
		}
		sec.AddInstruction(&ast.Instruction{Mnemonic: "END", Format: ast.FormatDirective})
	}

	return sections
}
