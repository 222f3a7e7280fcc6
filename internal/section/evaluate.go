package section

import (
	"strconv"
	"strings"

	"github.com/sicxeasm/assembler/internal/ast"
)

// term is one symbol-or-constant operand split out of an arithmetic
// expression, together with the sign of the operator that precedes it
// ('+' for the first term or one preceded by '+', '-' otherwise).
type term struct {
	sign byte
	text string
}

// splitExpression tokenizes an operand restricted to the grammar
// `symbol±symbol` or `symbol±constant`: a leading term followed by at
// most a handful of +/- separated terms. This replaces the source
// assembler's dynamic eval-of-a-substituted-string with an explicit,
// whole-token parse (see design notes): substring substitution is
// unsafe when one symbol name is a substring of another, so we never
// substitute into free text — we tokenize first and resolve each token
// whole.
func splitExpression(expr string) []term {
	var terms []term
	sign := byte('+')
	start := 0
	for i := 0; i < len(expr); i++ {
		if i == 0 {
			continue
		}
		if expr[i] == '+' || expr[i] == '-' {
			terms = append(terms, term{sign: sign, text: strings.TrimSpace(expr[start:i])})
			sign = expr[i]
			start = i + 1
		}
	}
	terms = append(terms, term{sign: sign, text: strings.TrimSpace(expr[start:])})
	return terms
}

// resolveTerm resolves a single token to its integer value. It checks,
// in order: a decimal literal, the section's symbol table (whole-name
// match), then the EXTREF table. An EXTREF hit also reports the
// reference name so the caller can emit a ModificationRecord; an
// unresolved token reports ok=false.
func (s *Section) resolveTerm(text string) (value int64, isExternalRef bool, ok bool) {
	if text == "" {
		return 0, false, false
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, false, true
	}
	if sym, exists := s.SymbolTable[text]; exists && sym.Resolved() {
		return int64(*sym.Addr), false, true
	}
	if sym, exists := s.ExtrefTable[text]; exists {
		addr := int64(0)
		if sym.Addr != nil {
			addr = int64(*sym.Addr)
		}
		return addr, true, true
	}
	return 0, false, false
}

// evaluateOperand implements §4.3's `_evaluate_operand`: resolve an
// arithmetic expression of symbols/constants joined by +/-, generating
// modification records for every EXTREF token found along the way.
// instrLocation is the instruction's own location (used to position any
// modification record); mnemonic selects the record's length/offset
// convention. Evaluation failure yields 0, matching the source
// assembler's "unresolved this pass" convention.
func (s *Section) evaluateOperand(operand, mnemonic string, instrLocation uint32) int64 {
	if operand == "*" {
		return int64(s.CurrentLocation)
	}

	terms := splitExpression(operand)

	var total int64
	resolvedAll := true
	for _, t := range terms {
		value, isExternalRef, ok := s.resolveTerm(t.text)
		if !ok {
			resolvedAll = false
			continue
		}
		if t.sign == '-' {
			total -= value
		} else {
			total += value
		}
		if isExternalRef {
			s.emitExternalModification(t.text, t.sign, mnemonic, instrLocation)
		}
	}

	if !resolvedAll {
		return 0
	}
	return total
}

// emitExternalModification records that operand token ref (an EXTREF
// name) appeared in an evaluated expression at instrLocation, per the
// location/length convention in §4.3.
func (s *Section) emitExternalModification(ref string, sign byte, mnemonic string, instrLocation uint32) {
	location := instrLocation
	length := uint8(5)
	if mnemonic == "WORD" {
		length = 6
	} else {
		location++
	}
	s.addModificationRecord(&ast.ModificationRecord{
		Location:      location,
		LengthNibbles: length,
		Sign:          sign,
		Reference:     ref,
	})
}
